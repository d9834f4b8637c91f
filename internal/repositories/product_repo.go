package repositories

import (
	"petshop/internal/models"
)

// ProductRepository defines the interface for product and review data access.
type ProductRepository interface {
	GetAll(page, perPage int) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	Search(keywords string, page, perPage int) ([]models.Product, int64, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error

	CreateReview(review *models.Review) error
	GetReviews(productID string) ([]models.Review, error)
	GetReviewByProductAndUser(productID, userID string) (*models.Review, error)
}
