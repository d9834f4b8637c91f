package services

import (
	"encoding/json"
	"fmt"
	"log"

	"petshop/internal/models"
	"petshop/internal/repositories"
	"petshop/pkg/rabbitmq"

	"github.com/google/uuid"
)

// ShippingDetails carries the caller-supplied shipping address for an order.
// The caller decides whether it mirrors the billing address; the conversion
// stores it as-is.
type ShippingDetails struct {
	Name     string `json:"shipping_name"`
	Address  string `json:"shipping_address"`
	City     string `json:"shipping_city"`
	Country  string `json:"shipping_country"`
	PostCode string `json:"shipping_post_code"`
}

// CheckoutService converts a paid-for basket into a permanent order.
type CheckoutService struct {
	basketRepo  repositories.BasketRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	orderRepo   repositories.OrderRepository
	mqClient    *rabbitmq.Client // RabbitMQ client, may be nil
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	basketRepo repositories.BasketRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	orderRepo repositories.OrderRepository,
	mqClient *rabbitmq.Client,
) *CheckoutService {
	return &CheckoutService{
		basketRepo:  basketRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		orderRepo:   orderRepo,
		mqClient:    mqClient,
	}
}

// CreateOrder converts the basket into an order. paymentRef is the opaque
// confirmation token from the payment processor; its presence is the
// caller's proof that payment already succeeded, so the order is recorded as
// paid. Preconditions are checked before anything is written:
//
//  1. the basket must belong to an account (models.ErrNoAssociatedAccount)
//  2. the basket must hold at least one line (models.ErrEmptyBasket)
//  3. paymentRef must be present (models.ErrMissingPaymentConfirmation)
//
// The order, its per-unit items, and the basket close are persisted as one
// transaction; a basket that is already processed fails the conversion with
// models.ErrBasketProcessed.
func (s *CheckoutService) CreateOrder(basketID string, shipping ShippingDetails, paymentRef string) (*models.Order, error) {
	basket, err := s.basketRepo.GetOpen(basketID)
	if err != nil {
		return nil, models.ErrBasketProcessed
	}

	if basket.UserID == nil {
		return nil, models.ErrNoAssociatedAccount
	}
	if len(basket.Items) == 0 {
		return nil, models.ErrEmptyBasket
	}
	if paymentRef == "" {
		return nil, models.ErrMissingPaymentConfirmation
	}

	user, err := s.userRepo.GetByID(*basket.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account for basket %s: %w", basketID, err)
	}

	order := &models.Order{
		ID:               uuid.New().String(),
		UserID:           user.ID,
		BasketID:         basket.ID,
		BillingName:      user.FullName(),
		BillingAddress:   user.Address,
		BillingCity:      user.City,
		BillingCountry:   user.Country,
		BillingPostCode:  user.PostCode,
		ShippingName:     shipping.Name,
		ShippingAddress:  shipping.Address,
		ShippingCity:     shipping.City,
		ShippingCountry:  shipping.Country,
		ShippingPostCode: shipping.PostCode,
		PaymentRef:       paymentRef,
		Status:           models.OrderStatusNew,
	}

	// Expand each basket line into one order item per unit, freezing the
	// product's current price on every unit.
	for _, line := range basket.Items {
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found: %w", line.ProductID, err)
		}
		for i := 0; i < line.Quantity; i++ {
			order.Items = append(order.Items, models.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: product.ID,
				Price:     product.Price,
				Status:    models.OrderItemStatusNew,
			})
		}
	}

	// A payment reference is proof of a completed payment, so the recorded
	// order goes straight from new to paid.
	order.Status = models.OrderStatusPaid

	if err := s.orderRepo.Convert(order, basket.ID); err != nil {
		return nil, err
	}

	s.publishOrderCreated(order)

	return order, nil
}

// publishOrderCreated emits an order.created event. Publishing is
// best-effort: the order is already committed, so failures are only logged.
func (s *CheckoutService) publishOrderCreated(order *models.Order) {
	if s.mqClient == nil {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
		return
	}

	event := map[string]interface{}{
		"order_id":   order.ID,
		"user_id":    order.UserID,
		"status":     order.Status,
		"item_count": order.ItemCount(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal order event to JSON: %v", err)
		return
	}
	if err := s.mqClient.Publish("order.created", body); err != nil {
		log.Printf("Warning: Failed to publish order created event for order %s: %v", order.ID, err)
	} else {
		log.Printf("Successfully published order created event for order %s", order.ID)
	}
}
