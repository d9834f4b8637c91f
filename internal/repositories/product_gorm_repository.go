package repositories

import (
	"fmt"
	"strings"

	"petshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves a page of products ordered by ID for stable pagination.
func (r *GORMProductRepository) GetAll(page, perPage int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	if err := r.db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	if err := r.db.Order("id").Offset((page - 1) * perPage).Limit(perPage).
		Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get products: %w", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Search returns live products whose title, brand, category or description
// contains the keywords, case-insensitive, ordered by ID.
func (r *GORMProductRepository) Search(keywords string, page, perPage int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	pattern := "%" + strings.ToLower(keywords) + "%"
	query := r.db.Model(&models.Product{}).
		Where("is_live = ?", true).
		Where(
			r.db.Where("LOWER(title) LIKE ?", pattern).
				Or("LOWER(brand) LIKE ?", pattern).
				Or("LOWER(category) LIKE ?", pattern).
				Or("LOWER(description) LIKE ?", pattern),
		)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}
	if err := query.Order("id").Offset((page - 1) * perPage).Limit(perPage).
		Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}
	return products, total, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for update", product.ID)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for deletion", id)
	}
	return nil
}

// CreateReview stores a new product review.
func (r *GORMProductRepository) CreateReview(review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if err := r.db.Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetReviews returns all reviews for a product, newest first.
func (r *GORMProductRepository) GetReviews(productID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Where("product_id = ?", productID).
		Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to get reviews for product %s: %w", productID, err)
	}
	return reviews, nil
}

// GetReviewByProductAndUser returns the user's review for a product, if any.
func (r *GORMProductRepository) GetReviewByProductAndUser(productID, userID string) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, "product_id = ? AND user_id = ?", productID, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("review for product %s by user %s not found", productID, userID)
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &review, nil
}
