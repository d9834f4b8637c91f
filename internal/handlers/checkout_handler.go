package handlers

import (
	"errors"
	"log"

	"petshop/internal/middleware"
	"petshop/internal/models"
	"petshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles the basket-to-order conversion endpoint.
type CheckoutHandler struct {
	checkoutService *services.CheckoutService
	basketService   *services.BasketService
	authService     *services.AuthService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(
	checkoutService *services.CheckoutService,
	basketService *services.BasketService,
	authService *services.AuthService,
) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		basketService:   basketService,
		authService:     authService,
	}
}

// RegisterRoutes registers the checkout route with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout",
		middleware.AuthRequired(h.authService),
		middleware.ResolveBasket(h.basketService),
	)
	checkoutRoutes.Post("/", h.HandleCheckout)
}

// CheckoutRequest represents the request body for checkout. PaymentRef is
// the confirmation token from the payment processor; the caller must have
// verified the payment before submitting it here.
type CheckoutRequest struct {
	PaymentRef       string `json:"payment_ref"`
	ShippingName     string `json:"shipping_name"`
	ShippingAddress  string `json:"shipping_address"`
	ShippingCity     string `json:"shipping_city"`
	ShippingCountry  string `json:"shipping_country"`
	ShippingPostCode string `json:"shipping_post_code"`
}

// HandleCheckout converts the visitor's basket into a paid order.
func (h *CheckoutHandler) HandleCheckout(c *fiber.Ctx) error {
	basketID := middleware.BasketID(c)
	if basketID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "You have no basket to check out",
		})
	}

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	shipping := services.ShippingDetails{
		Name:     req.ShippingName,
		Address:  req.ShippingAddress,
		City:     req.ShippingCity,
		Country:  req.ShippingCountry,
		PostCode: req.ShippingPostCode,
	}

	order, err := h.checkoutService.CreateOrder(basketID, shipping, req.PaymentRef)
	if err != nil {
		log.Printf("Checkout failed for basket %s: %v", basketID, err)
		switch {
		case errors.Is(err, models.ErrNoAssociatedAccount),
			errors.Is(err, models.ErrEmptyBasket),
			errors.Is(err, models.ErrMissingPaymentConfirmation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "There was a problem processing your order, please try again",
				"error":   err.Error(),
			})
		case errors.Is(err, models.ErrBasketProcessed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "This basket has already been checked out",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not create order",
				"error":   err.Error(),
			})
		}
	}

	// The basket is processed; drop the session pointer to it.
	c.ClearCookie(middleware.BasketCookie)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Your payment has been received. You will receive an email when your order has been shipped.",
		"order":   order,
	})
}
