package repositories

import (
	"fmt"

	"petshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBasketRepository is a GORM implementation of BasketRepository.
type GORMBasketRepository struct {
	db *gorm.DB
}

// NewGORMBasketRepository creates a new instance of GORMBasketRepository.
func NewGORMBasketRepository(db *gorm.DB) *GORMBasketRepository {
	return &GORMBasketRepository{
		db: db,
	}
}

// GetOpen retrieves an open basket by its ID, with items preloaded.
func (r *GORMBasketRepository) GetOpen(id string) (*models.Basket, error) {
	var basket models.Basket
	err := r.db.Preload("Items").
		First(&basket, "id = ? AND status = ?", id, models.BasketStatusOpen).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("open basket with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get basket by ID %s: %w", id, err)
	}
	return &basket, nil
}

// GetOpenByUser retrieves a user's open basket, with items preloaded.
func (r *GORMBasketRepository) GetOpenByUser(userID string) (*models.Basket, error) {
	var basket models.Basket
	err := r.db.Preload("Items").
		First(&basket, "user_id = ? AND status = ?", userID, models.BasketStatusOpen).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("open basket for user %s not found", userID)
		}
		return nil, fmt.Errorf("failed to get basket for user %s: %w", userID, err)
	}
	return &basket, nil
}

// GetOrCreateOpen returns the owner's open basket, creating one when none
// exists. The lookup and create run in one transaction so an account cannot
// end up with two open baskets.
func (r *GORMBasketRepository) GetOrCreateOpen(userID *string) (*models.Basket, error) {
	var basket models.Basket

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if userID != nil {
			err := tx.Preload("Items").
				First(&basket, "user_id = ? AND status = ?", *userID, models.BasketStatusOpen).Error
			if err == nil {
				return nil
			}
			if err != gorm.ErrRecordNotFound {
				return fmt.Errorf("failed to look up open basket: %w", err)
			}
		}

		basket = models.Basket{
			ID:     uuid.New().String(),
			UserID: userID,
			Status: models.BasketStatusOpen,
		}
		if err := tx.Create(&basket).Error; err != nil {
			return fmt.Errorf("failed to create basket: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &basket, nil
}

// GetOrCreateItem returns the basket's line item for the product, creating
// it at quantity 1 when absent.
func (r *GORMBasketRepository) GetOrCreateItem(basketID, productID string) (*models.BasketItem, bool, error) {
	var item models.BasketItem
	err := r.db.First(&item, "basket_id = ? AND product_id = ?", basketID, productID).Error
	if err == nil {
		return &item, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, fmt.Errorf("failed to get basket item: %w", err)
	}

	item = models.BasketItem{
		ID:        uuid.New().String(),
		BasketID:  basketID,
		ProductID: productID,
		Quantity:  1,
	}
	if err := r.db.Create(&item).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create basket item: %w", err)
	}
	return &item, true, nil
}

// UpdateItem saves changes to a basket line item.
func (r *GORMBasketRepository) UpdateItem(item *models.BasketItem) error {
	res := r.db.Save(item)
	if res.Error != nil {
		return fmt.Errorf("failed to update basket item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("basket item with ID %s not found for update", item.ID)
	}
	return nil
}

// DeleteItem removes a line item from a basket. The delete is unscoped: a
// soft-deleted row would keep occupying the (basket, product) unique index
// and block the product from being re-added later.
func (r *GORMBasketRepository) DeleteItem(id string) error {
	res := r.db.Unscoped().Delete(&models.BasketItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete basket item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("basket item with ID %s not found for deletion", id)
	}
	return nil
}

// AttachUser re-associates an anonymous basket with an account.
func (r *GORMBasketRepository) AttachUser(basketID, userID string) error {
	res := r.db.Model(&models.Basket{}).
		Where("id = ? AND user_id IS NULL", basketID).
		Update("user_id", userID)
	if res.Error != nil {
		return fmt.Errorf("failed to attach basket to user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("anonymous basket with ID %s not found", basketID)
	}
	return nil
}

// Delete removes a basket and its items.
func (r *GORMBasketRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&models.BasketItem{}, "basket_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete basket items: %w", err)
		}
		res := tx.Delete(&models.Basket{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete basket: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("basket with ID %s not found for deletion", id)
		}
		return nil
	})
}
