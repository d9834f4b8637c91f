package repositories

import (
	"petshop/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Convert persists the order with its items and closes the source basket
	// as a single all-or-nothing unit. It fails with
	// models.ErrBasketProcessed when the basket is no longer open, so a
	// second conversion of the same basket cannot succeed.
	Convert(order *models.Order, basketID string) error
	GetByID(id string) (*models.Order, error)
	// ListByUser returns the user's orders newest first, along with the
	// total order count for pagination.
	ListByUser(userID string, page, perPage int) ([]models.Order, int64, error)
	UpdateStatus(id string, status string) error
	UpdateItemStatus(itemID string, status string) error
}
