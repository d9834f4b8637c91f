package handlers

import (
	"log"
	"strings"

	"petshop/internal/middleware"
	"petshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for order history and fulfilment.
type OrderHandler struct {
	service     *services.OrderService
	authService *services.AuthService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, authService *services.AuthService) *OrderHandler {
	return &OrderHandler{
		service:     service,
		authService: authService,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders", middleware.AuthRequired(h.authService))
	orderRoutes.Get("/", h.HandleOrderHistory)
	orderRoutes.Get("/:id", h.HandleGetOrder)

	staff := orderRoutes.Group("/", middleware.StaffRequired())
	staff.Patch("/:id/status", h.HandleUpdateOrderStatus)
	staff.Patch("/items/:item_id/status", h.HandleUpdateItemStatus)
}

// HandleOrderHistory returns a page of the authenticated user's orders,
// newest first.
func (h *OrderHandler) HandleOrderHistory(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	orders, total, err := h.service.GetOrderHistory(middleware.UserID(c), page)
	if err != nil {
		log.Printf("Error getting order history: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"orders":   orders,
		"total":    total,
		"page":     page,
		"per_page": services.OrderPageSize,
	})
}

// HandleGetOrder returns one of the authenticated user's orders.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetUserOrder(orderID, middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order not found",
		})
	}
	return c.JSON(order)
}

// StatusRequest represents the request body for a status update.
type StatusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update",
		})
	}

	if err := h.service.UpdateOrderStatus(orderID, req.Status); err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		if strings.Contains(err.Error(), "not found") || strings.Contains(err.Error(), "invalid order status") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order update failed: " + err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update order status",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Order " + orderID + " status updated successfully to " + req.Status,
	})
}

// HandleUpdateItemStatus advances the fulfilment status of one order item.
func (h *OrderHandler) HandleUpdateItemStatus(c *fiber.Ctx) error {
	itemID := c.Params("item_id")
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}

	if err := h.service.UpdateItemStatus(itemID, req.Status); err != nil {
		log.Printf("Error updating item status for item %s: %v", itemID, err)
		if strings.Contains(err.Error(), "not found") || strings.Contains(err.Error(), "invalid order item status") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order item update failed: " + err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update order item status",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Order item " + itemID + " status updated successfully to " + req.Status,
	})
}
