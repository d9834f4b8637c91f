package handlers

import (
	"log"

	"petshop/internal/middleware"
	"petshop/internal/models"
	"petshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// BasketHandler handles HTTP requests for the visitor's basket. All basket
// routes serve both anonymous and authenticated visitors; the middleware
// chain resolves the current basket before the handlers run.
type BasketHandler struct {
	basketService *services.BasketService
	authService   *services.AuthService
	validate      *validator.Validate
}

// NewBasketHandler creates a new BasketHandler.
func NewBasketHandler(basketService *services.BasketService, authService *services.AuthService) *BasketHandler {
	return &BasketHandler{
		basketService: basketService,
		authService:   authService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the basket routes with the Fiber app.
func (h *BasketHandler) RegisterRoutes(router fiber.Router) {
	basketRoutes := router.Group("/basket",
		middleware.AuthOptional(h.authService),
		middleware.ResolveBasket(h.basketService),
	)
	basketRoutes.Get("/", h.HandleGetBasket)
	basketRoutes.Post("/items/:product_id", h.HandleAddProduct)
	basketRoutes.Put("/items/:product_id", h.HandleUpdateQuantity)
	basketRoutes.Delete("/items/:product_id", h.HandleRemoveProduct)
}

// HandleGetBasket returns the visitor's current basket with its unit count
// and live total. Visitors without a basket get an empty one, not an error.
func (h *BasketHandler) HandleGetBasket(c *fiber.Ctx) error {
	basketID := middleware.BasketID(c)
	if basketID == "" {
		return c.JSON(fiber.Map{
			"items": []models.BasketItem{},
			"count": 0,
			"total": decimal.Zero,
		})
	}

	basket, err := h.basketService.GetBasket(basketID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Basket not found",
		})
	}
	total, err := h.basketService.Total(basketID)
	if err != nil {
		log.Printf("Error totalling basket %s: %v", basketID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not calculate basket total",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"basket_id": basket.ID,
		"items":     basket.Items,
		"count":     basket.Count(),
		"total":     total,
	})
}

// HandleAddProduct adds one unit of a product to the basket, creating the
// basket on first use.
func (h *BasketHandler) HandleAddProduct(c *fiber.Ctx) error {
	productID := c.Params("product_id")

	basketID := middleware.BasketID(c)
	if basketID == "" {
		// First item: mint a basket for the visitor (account-owned when
		// logged in, anonymous otherwise) and point the session at it.
		var userID *string
		if id := middleware.UserID(c); id != "" {
			userID = &id
		}
		basket, err := h.basketService.GetOrCreateBasket(userID)
		if err != nil {
			log.Printf("Error creating basket: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not create basket",
				"error":   err.Error(),
			})
		}
		basketID = basket.ID
		middleware.SetBasketCookie(c, basketID)
	}

	item, outcome, err := h.basketService.AddProduct(basketID, productID)
	if err != nil {
		log.Printf("Error adding product %s to basket %s: %v", productID, basketID, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	}

	switch outcome {
	case services.OutcomeAdded:
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Product added to basket",
			"item":    item,
		})
	case services.OutcomeAtMaximum:
		return c.JSON(fiber.Map{
			"message": "You have the maximum permitted amount of this item in your basket, no more can be added",
			"item":    item,
		})
	default:
		return c.JSON(fiber.Map{
			"message": "Product quantity updated",
			"item":    item,
		})
	}
}

// QuantityRequest represents the request body for a quantity update.
type QuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=5"`
}

// HandleUpdateQuantity sets the quantity of a basket line; zero removes it.
func (h *BasketHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	basketID := middleware.BasketID(c)
	if basketID == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Basket not found",
		})
	}

	var req QuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	if err := h.basketService.UpdateQuantity(basketID, c.Params("product_id"), req.Quantity); err != nil {
		log.Printf("Error updating basket %s: %v", basketID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Your basket could not be updated",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Your basket has been updated",
	})
}

// HandleRemoveProduct removes a product's line from the basket.
func (h *BasketHandler) HandleRemoveProduct(c *fiber.Ctx) error {
	basketID := middleware.BasketID(c)
	if basketID == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Basket not found",
		})
	}

	if err := h.basketService.UpdateQuantity(basketID, c.Params("product_id"), 0); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not in basket",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Product removed from basket",
	})
}
