package services

import (
	"fmt"
	"log"

	"petshop/internal/models"
	"petshop/internal/repositories"

	"github.com/shopspring/decimal"
)

// AddOutcome describes what adding a product to a basket did.
type AddOutcome string

const (
	// OutcomeAdded means the product was not in the basket and a new line
	// item was created at quantity 1.
	OutcomeAdded AddOutcome = "added"
	// OutcomeIncremented means the existing line item's quantity went up by 1.
	OutcomeIncremented AddOutcome = "incremented"
	// OutcomeAtMaximum means the line item was already at the quantity cap
	// and was left unchanged.
	OutcomeAtMaximum AddOutcome = "at_maximum"
)

// MergeReport records, per product, how each line of an anonymous basket
// fared when merged into an account basket.
type MergeReport struct {
	Merged  []string          `json:"merged"`  // product IDs merged as-is
	Clamped []string          `json:"clamped"` // product IDs clamped at the quantity cap
	Failed  map[string]string `json:"failed"`  // product ID -> failure reason
}

// BasketService handles business logic for baskets: resolving the current
// basket, adding products, totals, and the login-time merge.
type BasketService struct {
	basketRepo  repositories.BasketRepository
	productRepo repositories.ProductRepository
}

// NewBasketService creates a new BasketService.
func NewBasketService(basketRepo repositories.BasketRepository, productRepo repositories.ProductRepository) *BasketService {
	return &BasketService{
		basketRepo:  basketRepo,
		productRepo: productRepo,
	}
}

// GetBasket returns the open basket with the given ID.
func (s *BasketService) GetBasket(id string) (*models.Basket, error) {
	return s.basketRepo.GetOpen(id)
}

// GetUserBasket returns the user's open basket, if any.
func (s *BasketService) GetUserBasket(userID string) (*models.Basket, error) {
	return s.basketRepo.GetOpenByUser(userID)
}

// GetOrCreateBasket returns the owner's open basket, creating one if none
// exists. A nil userID yields an anonymous basket.
func (s *BasketService) GetOrCreateBasket(userID *string) (*models.Basket, error) {
	return s.basketRepo.GetOrCreateOpen(userID)
}

// AddProduct adds one unit of the product to the basket. A product not yet
// in the basket gets a line item at quantity 1; an existing line item is
// incremented by 1 unless it is already at the cap, in which case it is left
// unchanged and OutcomeAtMaximum is reported.
func (s *BasketService) AddProduct(basketID, productID string) (*models.BasketItem, AddOutcome, error) {
	if _, err := s.productRepo.GetByID(productID); err != nil {
		return nil, "", err
	}
	if _, err := s.basketRepo.GetOpen(basketID); err != nil {
		return nil, "", err
	}

	item, created, err := s.basketRepo.GetOrCreateItem(basketID, productID)
	if err != nil {
		return nil, "", err
	}
	if created {
		return item, OutcomeAdded, nil
	}
	if item.Quantity >= models.MaxItemQuantity {
		return item, OutcomeAtMaximum, nil
	}

	item.Quantity++
	if err := s.basketRepo.UpdateItem(item); err != nil {
		return nil, "", err
	}
	return item, OutcomeIncremented, nil
}

// UpdateQuantity sets the quantity of the basket's line for the product.
// Zero removes the line; values outside [0,5] are rejected.
func (s *BasketService) UpdateQuantity(basketID, productID string, quantity int) error {
	if quantity < 0 || quantity > models.MaxItemQuantity {
		return fmt.Errorf("quantity must be between 0 and %d", models.MaxItemQuantity)
	}

	basket, err := s.basketRepo.GetOpen(basketID)
	if err != nil {
		return err
	}
	for i := range basket.Items {
		if basket.Items[i].ProductID == productID {
			if quantity == 0 {
				return s.basketRepo.DeleteItem(basket.Items[i].ID)
			}
			basket.Items[i].Quantity = quantity
			return s.basketRepo.UpdateItem(&basket.Items[i])
		}
	}
	return fmt.Errorf("product %s not in basket %s", productID, basketID)
}

// Count returns the total number of units in the basket, zero when empty.
func (s *BasketService) Count(basketID string) (int, error) {
	basket, err := s.basketRepo.GetOpen(basketID)
	if err != nil {
		return 0, err
	}
	return basket.Count(), nil
}

// Total returns the basket total: the sum over all lines of quantity times
// the product's current catalog price. Prices are read live, not frozen, so
// the total follows catalog price changes up until checkout.
func (s *BasketService) Total(basketID string) (decimal.Decimal, error) {
	basket, err := s.basketRepo.GetOpen(basketID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range basket.Items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total, nil
}

// MergeOnLogin folds a visitor's anonymous basket into their account basket
// at the moment they authenticate. When the account has an open basket the
// anonymous lines are merged into it (quantities summed, clamped at the cap)
// and the anonymous basket is deleted; when it has none, the anonymous
// basket is reattached to the account. Per-line faults do not abort the
// merge; they are collected in the report. The returned basket is the one
// the session should point at from now on, nil when the user has no basket
// at all.
func (s *BasketService) MergeOnLogin(userID, anonymousBasketID string) (*models.Basket, *MergeReport, error) {
	var anonymous *models.Basket
	if anonymousBasketID != "" {
		basket, err := s.basketRepo.GetOpen(anonymousBasketID)
		if err == nil && basket.UserID == nil {
			anonymous = basket
		}
	}

	existing, err := s.basketRepo.GetOpenByUser(userID)
	if err != nil {
		// The account has no open basket. If the visitor shopped anonymously,
		// reattach that basket rather than merging.
		if anonymous == nil {
			return nil, nil, nil
		}
		if err := s.basketRepo.AttachUser(anonymous.ID, userID); err != nil {
			return nil, nil, fmt.Errorf("failed to attach basket to user %s: %w", userID, err)
		}
		reattached, err := s.basketRepo.GetOpen(anonymous.ID)
		if err != nil {
			return nil, nil, err
		}
		return reattached, nil, nil
	}

	if anonymous == nil {
		return existing, nil, nil
	}

	report := &MergeReport{Failed: make(map[string]string)}
	for _, line := range anonymous.Items {
		item, created, err := s.basketRepo.GetOrCreateItem(existing.ID, line.ProductID)
		if err != nil {
			log.Printf("Failed to merge basket line for product %s: %v", line.ProductID, err)
			report.Failed[line.ProductID] = err.Error()
			continue
		}

		quantity := line.Quantity
		if !created {
			quantity += item.Quantity
		}
		clamped := false
		if quantity > models.MaxItemQuantity {
			quantity = models.MaxItemQuantity
			clamped = true
		}

		item.Quantity = quantity
		if err := s.basketRepo.UpdateItem(item); err != nil {
			log.Printf("Failed to merge basket line for product %s: %v", line.ProductID, err)
			report.Failed[line.ProductID] = err.Error()
			continue
		}
		if clamped {
			report.Clamped = append(report.Clamped, line.ProductID)
		} else {
			report.Merged = append(report.Merged, line.ProductID)
		}
	}

	if err := s.basketRepo.Delete(anonymous.ID); err != nil {
		log.Printf("Failed to delete merged anonymous basket %s: %v", anonymous.ID, err)
	}

	merged, err := s.basketRepo.GetOpen(existing.ID)
	if err != nil {
		return nil, report, err
	}
	return merged, report, nil
}
