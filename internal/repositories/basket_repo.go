package repositories

import (
	"petshop/internal/models"
)

// BasketRepository defines the interface for basket data access. Baskets are
// only ever minted through GetOrCreateOpen, which is what keeps an account
// down to a single open basket.
type BasketRepository interface {
	// GetOpen returns the basket with the given ID only if it is still open,
	// with its items preloaded.
	GetOpen(id string) (*models.Basket, error)
	// GetOpenByUser returns the user's open basket with items preloaded.
	GetOpenByUser(userID string) (*models.Basket, error)
	// GetOrCreateOpen returns the open basket for the given owner, creating
	// one if none exists. A nil userID creates an anonymous basket.
	GetOrCreateOpen(userID *string) (*models.Basket, error)
	// GetOrCreateItem returns the basket's line item for the product,
	// creating it at quantity 1 when absent. The bool reports creation.
	GetOrCreateItem(basketID, productID string) (*models.BasketItem, bool, error)
	UpdateItem(item *models.BasketItem) error
	DeleteItem(id string) error
	// AttachUser re-associates an anonymous basket with an account.
	AttachUser(basketID, userID string) error
	Delete(id string) error
}
