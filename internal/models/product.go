package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog product. Only live products are shown to
// visitors; price is fixed-point with two decimal places.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string          `json:"title" gorm:"type:varchar(200)" validate:"required,max=200"`
	Brand       string          `json:"brand" gorm:"type:varchar(200)" validate:"required,max=200"`
	Category    string          `json:"category" gorm:"type:varchar(100)" validate:"required,max=100"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(8,2)" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Description string          `json:"description"`
	Image       string          `json:"image" gorm:"type:varchar(255)"`
	IsLive      bool            `json:"is_live" gorm:"default:true"`
	gorm.Model  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Review is a user's rating and comment for a product. A user may leave at
// most one review per product.
type Review struct {
	ID         string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProductID  string  `json:"product_id" gorm:"uniqueIndex:idx_product_user;type:varchar(36)" validate:"required"`
	UserID     string  `json:"user_id" gorm:"uniqueIndex:idx_product_user;type:varchar(36)" validate:"required"`
	Rating     int     `json:"rating" validate:"required,min=1,max=5"`
	Review     string  `json:"review" validate:"required"`
	Product    Product `json:"-" gorm:"foreignKey:ProductID"`
	User       User    `json:"-" gorm:"foreignKey:UserID"`
	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// ProductRating aggregates a product's reviews for display: the review count
// and the integer-truncated average rating.
type ProductRating struct {
	Count   int `json:"count"`
	Average int `json:"average"`
}
