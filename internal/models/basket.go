package models

import (
	"errors"

	"gorm.io/gorm"
)

// Basket statuses. A basket stays open while the visitor shops and is
// processed exactly once, at checkout.
const (
	BasketStatusOpen      = "open"
	BasketStatusProcessed = "processed"
)

// MaxItemQuantity caps how many units of a single product a basket may hold.
const MaxItemQuantity = 5

// Basket conversion errors, raised before any store mutation.
var (
	ErrNoAssociatedAccount        = errors.New("order cannot be generated as there is no associated user")
	ErrEmptyBasket                = errors.New("order cannot be generated as the basket is empty")
	ErrMissingPaymentConfirmation = errors.New("order cannot be created as there was a problem identifying the payment")
	ErrBasketProcessed            = errors.New("basket has already been processed")
)

// Basket stores a visitor's current basket, transitioning to processed when
// an order is placed. UserID is nil for anonymous baskets.
type Basket struct {
	ID         string       `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID     *string      `json:"user_id" gorm:"type:varchar(36);index"`
	Status     string       `json:"status" gorm:"type:varchar(20);default:open"`
	Items      []BasketItem `json:"items" gorm:"foreignKey:BasketID"`
	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Count returns the total number of units across all line items.
func (b *Basket) Count() int {
	count := 0
	for _, item := range b.Items {
		count += item.Quantity
	}
	return count
}

// BasketItem captures detail on each item within a basket. A (basket,
// product) pair appears at most once; quantity is bounded to [1,5].
type BasketItem struct {
	ID         string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	BasketID   string  `json:"basket_id" gorm:"uniqueIndex:idx_basket_product;type:varchar(36)" validate:"required"`
	ProductID  string  `json:"product_id" gorm:"uniqueIndex:idx_basket_product;type:varchar(36)" validate:"required"`
	Quantity   int     `json:"quantity" gorm:"default:1" validate:"min=1,max=5"`
	Product    Product `json:"-" gorm:"foreignKey:ProductID"`
	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
