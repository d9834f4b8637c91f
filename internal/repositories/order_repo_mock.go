package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"petshop/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository. It
// shares the basket repository so Convert can close the source basket the
// way the GORM implementation does inside its transaction.
type MockOrderRepository struct {
	orders  map[string]models.Order
	baskets *MockBasketRepository
	mu      sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository(baskets *MockBasketRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:  make(map[string]models.Order),
		baskets: baskets,
	}
}

// Convert stores the order and closes the source basket. Nothing is stored
// when the basket is no longer open.
func (r *MockOrderRepository) Convert(order *models.Order, basketID string) error {
	if r.baskets != nil {
		if err := r.baskets.closeOpen(basketID); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s not found", id)
	}
	return &order, nil
}

// ListByUser returns a page of the user's orders, newest first.
func (r *MockOrderRepository) ListByUser(userID string, page, perPage int) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return paginate(orders, page, perPage), int64(len(orders)), nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s not found for status update", id)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// UpdateItemStatus updates the fulfilment status of a single order item.
func (r *MockOrderRepository) UpdateItemStatus(itemID string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for orderID, order := range r.orders {
		for i := range order.Items {
			if order.Items[i].ID == itemID {
				order.Items[i].Status = status
				r.orders[orderID] = order
				return nil
			}
		}
	}
	return fmt.Errorf("order item with ID %s not found for status update", itemID)
}
