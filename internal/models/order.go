package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order statuses.
const (
	OrderStatusNew       = "new"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

// Order item fulfilment statuses.
const (
	OrderItemStatusNew        = "new"
	OrderItemStatusInProgress = "in_progress"
	OrderItemStatusPicked     = "picked"
	OrderItemStatusPacked     = "packed"
	OrderItemStatusDispatched = "dispatched"
)

// Order is the permanent record of a completed purchase. The billing fields
// are snapshotted from the user's profile at conversion time and the
// shipping fields are supplied by the caller; neither changes afterwards.
// Only Status (and per-item fulfilment status) mutates after creation.
type Order struct {
	ID               string      `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID           string      `json:"user_id" gorm:"type:varchar(36);index" validate:"required"`
	BasketID         string      `json:"basket_id" gorm:"type:varchar(36)"`
	BillingName      string      `json:"billing_name" gorm:"type:varchar(255)"`
	BillingAddress   string      `json:"billing_address" gorm:"type:varchar(255)"`
	BillingCity      string      `json:"billing_city" gorm:"type:varchar(50)"`
	BillingCountry   string      `json:"billing_country" gorm:"type:varchar(100)"`
	BillingPostCode  string      `json:"billing_post_code" gorm:"type:varchar(30)"`
	ShippingName     string      `json:"shipping_name" gorm:"type:varchar(255)"`
	ShippingAddress  string      `json:"shipping_address" gorm:"type:varchar(255)"`
	ShippingCity     string      `json:"shipping_city" gorm:"type:varchar(50)"`
	ShippingCountry  string      `json:"shipping_country" gorm:"type:varchar(100)"`
	ShippingPostCode string      `json:"shipping_post_code" gorm:"type:varchar(30)"`
	PaymentRef       string      `json:"payment_ref" gorm:"type:varchar(255)"`
	Status           string      `json:"status" gorm:"type:varchar(20);default:new"`
	Items            []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	gorm.Model       // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// ItemCount returns the number of units in the order. Each OrderItem is a
// single unit, so this is just the row count.
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// OrderItem is one purchased unit of a product. A basket line of quantity n
// expands to n rows so every unit carries its own fulfilment status and a
// unit price frozen at the time of purchase.
type OrderItem struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	OrderID    string          `json:"order_id" gorm:"type:varchar(36);index" validate:"required"`
	ProductID  string          `json:"product_id" gorm:"type:varchar(36)" validate:"required"`
	Price      decimal.Decimal `json:"price" gorm:"type:numeric(8,2)"` // Price at the time of order
	Status     string          `json:"status" gorm:"type:varchar(20);default:new"`
	Product    Product         `json:"-" gorm:"foreignKey:ProductID"`
	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
