package repositories

import (
	"fmt"

	"petshop/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Convert persists the order with its items and closes the source basket in
// a single transaction. The basket close is a conditional open→processed
// update; zero rows affected means another conversion already claimed the
// basket and the whole transaction is rolled back.
func (r *GORMOrderRepository) Convert(order *models.Order, basketID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		res := tx.Model(&models.Basket{}).
			Where("id = ? AND status = ?", basketID, models.BasketStatusOpen).
			Update("status", models.BasketStatusProcessed)
		if res.Error != nil {
			return fmt.Errorf("failed to close basket %s: %w", basketID, res.Error)
		}
		if res.RowsAffected == 0 {
			return models.ErrBasketProcessed
		}
		return nil
	})
}

// GetByID retrieves an order with its items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// ListByUser returns a page of the user's orders, newest first. Ties on the
// creation timestamp are broken by ID to keep pagination stable.
func (r *GORMOrderRepository) ListByUser(userID string, page, perPage int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.Model(&models.Order{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders for user %s: %w", userID, err)
	}
	if err := query.Preload("Items").
		Order("created_at DESC, id").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, total, nil
}

// UpdateStatus updates the status of an order.
func (r *GORMOrderRepository) UpdateStatus(id string, status string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for status update", id)
	}
	return nil
}

// UpdateItemStatus updates the fulfilment status of a single order item.
func (r *GORMOrderRepository) UpdateItemStatus(itemID string, status string) error {
	res := r.db.Model(&models.OrderItem{}).Where("id = ?", itemID).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update order item status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order item with ID %s not found for status update", itemID)
	}
	return nil
}
