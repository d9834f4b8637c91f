package repositories

import (
	"fmt"
	"sort"
	"sync"

	"petshop/internal/models"

	"github.com/google/uuid"
)

// MockBasketRepository is an in-memory implementation of BasketRepository.
type MockBasketRepository struct {
	baskets map[string]models.Basket
	items   map[string]models.BasketItem
	mu      sync.RWMutex
}

// NewMockBasketRepository creates a new instance of MockBasketRepository.
func NewMockBasketRepository() *MockBasketRepository {
	return &MockBasketRepository{
		baskets: make(map[string]models.Basket),
		items:   make(map[string]models.BasketItem),
	}
}

// itemsFor assembles a basket's line items sorted by ID. Callers must hold
// the lock.
func (r *MockBasketRepository) itemsFor(basketID string) []models.BasketItem {
	var items []models.BasketItem
	for _, item := range r.items {
		if item.BasketID == basketID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// GetOpen returns an open basket by ID with its items.
func (r *MockBasketRepository) GetOpen(id string) (*models.Basket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	basket, ok := r.baskets[id]
	if !ok || basket.Status != models.BasketStatusOpen {
		return nil, fmt.Errorf("open basket with ID %s not found", id)
	}
	basket.Items = r.itemsFor(id)
	return &basket, nil
}

// GetOpenByUser returns a user's open basket with its items.
func (r *MockBasketRepository) GetOpenByUser(userID string) (*models.Basket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, basket := range r.baskets {
		if basket.UserID != nil && *basket.UserID == userID && basket.Status == models.BasketStatusOpen {
			basket.Items = r.itemsFor(basket.ID)
			return &basket, nil
		}
	}
	return nil, fmt.Errorf("open basket for user %s not found", userID)
}

// GetOrCreateOpen returns the owner's open basket, creating one if missing.
func (r *MockBasketRepository) GetOrCreateOpen(userID *string) (*models.Basket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if userID != nil {
		for _, basket := range r.baskets {
			if basket.UserID != nil && *basket.UserID == *userID && basket.Status == models.BasketStatusOpen {
				basket.Items = r.itemsFor(basket.ID)
				return &basket, nil
			}
		}
	}

	basket := models.Basket{
		ID:     uuid.New().String(),
		UserID: userID,
		Status: models.BasketStatusOpen,
	}
	r.baskets[basket.ID] = basket
	return &basket, nil
}

// GetOrCreateItem returns the basket's line item for the product, creating
// it at quantity 1 when absent.
func (r *MockBasketRepository) GetOrCreateItem(basketID, productID string) (*models.BasketItem, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.baskets[basketID]; !ok {
		return nil, false, fmt.Errorf("basket with ID %s not found", basketID)
	}
	for _, item := range r.items {
		if item.BasketID == basketID && item.ProductID == productID {
			return &item, false, nil
		}
	}

	item := models.BasketItem{
		ID:        uuid.New().String(),
		BasketID:  basketID,
		ProductID: productID,
		Quantity:  1,
	}
	r.items[item.ID] = item
	return &item, true, nil
}

// UpdateItem modifies an existing line item.
func (r *MockBasketRepository) UpdateItem(item *models.BasketItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return fmt.Errorf("basket item with ID %s not found for update", item.ID)
	}
	r.items[item.ID] = *item
	return nil
}

// DeleteItem removes a line item.
func (r *MockBasketRepository) DeleteItem(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("basket item with ID %s not found for deletion", id)
	}
	delete(r.items, id)
	return nil
}

// AttachUser re-associates an anonymous basket with an account.
func (r *MockBasketRepository) AttachUser(basketID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	basket, ok := r.baskets[basketID]
	if !ok || basket.UserID != nil {
		return fmt.Errorf("anonymous basket with ID %s not found", basketID)
	}
	basket.UserID = &userID
	r.baskets[basketID] = basket
	return nil
}

// Delete removes a basket and its items.
func (r *MockBasketRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.baskets[id]; !ok {
		return fmt.Errorf("basket with ID %s not found for deletion", id)
	}
	delete(r.baskets, id)
	for itemID, item := range r.items {
		if item.BasketID == id {
			delete(r.items, itemID)
		}
	}
	return nil
}

// closeOpen flips an open basket to processed, refusing re-entry once the
// basket is closed. Used by MockOrderRepository.Convert.
func (r *MockBasketRepository) closeOpen(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	basket, ok := r.baskets[id]
	if !ok || basket.Status != models.BasketStatusOpen {
		return models.ErrBasketProcessed
	}
	basket.Status = models.BasketStatusProcessed
	r.baskets[id] = basket
	return nil
}
