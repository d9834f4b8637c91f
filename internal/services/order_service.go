package services

import (
	"fmt"

	"petshop/internal/models"
	"petshop/internal/repositories"
)

// OrderPageSize is the order-history page size.
const OrderPageSize = 10

// OrderService handles the order read path and fulfilment updates.
type OrderService struct {
	orderRepo repositories.OrderRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
	}
}

// GetOrderHistory returns a page of the user's orders, newest first.
func (s *OrderService) GetOrderHistory(userID string, page int) ([]models.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	return s.orderRepo.ListByUser(userID, page, OrderPageSize)
}

// GetUserOrder returns the order only when it belongs to the given user.
func (s *OrderService) GetUserOrder(orderID, userID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order with ID %s not found", orderID)
	}
	return order, nil
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	validStatuses := map[string]bool{
		models.OrderStatusNew:       true,
		models.OrderStatusPaid:      true,
		models.OrderStatusShipped:   true,
		models.OrderStatusCancelled: true,
	}
	if _, ok := validStatuses[status]; !ok {
		return fmt.Errorf("invalid order status: %s", status)
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}

// UpdateItemStatus advances the fulfilment status of a single order item.
func (s *OrderService) UpdateItemStatus(itemID string, status string) error {
	validStatuses := map[string]bool{
		models.OrderItemStatusNew:        true,
		models.OrderItemStatusInProgress: true,
		models.OrderItemStatusPicked:     true,
		models.OrderItemStatusPacked:     true,
		models.OrderItemStatusDispatched: true,
	}
	if _, ok := validStatuses[status]; !ok {
		return fmt.Errorf("invalid order item status: %s", status)
	}

	if err := s.orderRepo.UpdateItemStatus(itemID, status); err != nil {
		return fmt.Errorf("failed to update status for order item %s: %w", itemID, err)
	}
	return nil
}
