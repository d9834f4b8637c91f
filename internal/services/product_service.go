package services

import (
	"fmt"
	"strings"

	"petshop/internal/models"
	"petshop/internal/repositories"
)

// Page sizes for the catalog views.
const (
	ProductPageSize = 6
	SearchPageSize  = 8
)

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetProducts retrieves a page of products.
func (s *ProductService) GetProducts(page int) ([]models.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	return s.repo.GetAll(page, ProductPageSize)
}

// GetLiveProduct retrieves a single product for display. Products that are
// not live are treated as not found.
func (s *ProductService) GetLiveProduct(id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !product.IsLive {
		return nil, fmt.Errorf("product with ID %s not found", id)
	}
	return product, nil
}

// SearchProducts returns live products matching the keywords. Empty keywords
// return no results.
func (s *ProductService) SearchProducts(keywords string, page int) ([]models.Product, int64, error) {
	if strings.TrimSpace(keywords) == "" {
		return nil, 0, nil
	}
	if page < 1 {
		page = 1
	}
	return s.repo.Search(keywords, page, SearchPageSize)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}

// AddReview stores a review for a product. A user may review a given product
// only once.
func (s *ProductService) AddReview(productID, userID string, rating int, text string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}
	if _, err := s.repo.GetByID(productID); err != nil {
		return nil, err
	}
	if existing, err := s.repo.GetReviewByProductAndUser(productID, userID); err == nil && existing != nil {
		return nil, fmt.Errorf("user %s has already reviewed product %s", userID, productID)
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Review:    text,
	}
	if err := s.repo.CreateReview(review); err != nil {
		return nil, err
	}
	return review, nil
}

// GetReviews returns a product's reviews together with its rating summary.
func (s *ProductService) GetReviews(productID string) ([]models.Review, models.ProductRating, error) {
	reviews, err := s.repo.GetReviews(productID)
	if err != nil {
		return nil, models.ProductRating{}, err
	}
	return reviews, ratingFor(reviews), nil
}

// ratingFor computes the review count and the integer-truncated average.
func ratingFor(reviews []models.Review) models.ProductRating {
	if len(reviews) == 0 {
		return models.ProductRating{}
	}
	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	return models.ProductRating{
		Count:   len(reviews),
		Average: sum / len(reviews),
	}
}
