package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"petshop/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	reviews  map[string]models.Review
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
		reviews:  make(map[string]models.Review),
	}
}

func paginate[T any](list []T, page, perPage int) []T {
	start := (page - 1) * perPage
	if start >= len(list) {
		return nil
	}
	end := start + perPage
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

// GetAll returns a page of products ordered by ID.
func (r *MockProductRepository) GetAll(page, perPage int) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return paginate(productList, page, perPage), int64(len(productList)), nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s not found", id)
	}
	return &product, nil
}

// Search returns live products matching the keywords across title, brand,
// category and description.
func (r *MockProductRepository) Search(keywords string, page, perPage int) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kw := strings.ToLower(keywords)
	var matches []models.Product
	for _, p := range r.products {
		if !p.IsLive {
			continue
		}
		haystack := strings.ToLower(p.Title + " " + p.Brand + " " + p.Category + " " + p.Description)
		if strings.Contains(haystack, kw) {
			matches = append(matches, p)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return paginate(matches, page, perPage), int64(len(matches)), nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s not found for update", product.ID)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s not found for deletion", id)
	}
	delete(r.products, id)
	return nil
}

// CreateReview adds a new review.
func (r *MockProductRepository) CreateReview(review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	for _, existing := range r.reviews {
		if existing.ProductID == review.ProductID && existing.UserID == review.UserID {
			return fmt.Errorf("review for product %s by user %s already exists", review.ProductID, review.UserID)
		}
	}
	r.reviews[review.ID] = *review
	return nil
}

// GetReviews returns all reviews for a product.
func (r *MockProductRepository) GetReviews(productID string) ([]models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var reviews []models.Review
	for _, review := range r.reviews {
		if review.ProductID == productID {
			reviews = append(reviews, review)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}

// GetReviewByProductAndUser returns the user's review for a product, if any.
func (r *MockProductRepository) GetReviewByProductAndUser(productID, userID string) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, review := range r.reviews {
		if review.ProductID == productID && review.UserID == userID {
			return &review, nil
		}
	}
	return nil, fmt.Errorf("review for product %s by user %s not found", productID, userID)
}
