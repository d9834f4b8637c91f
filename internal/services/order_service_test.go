package services_test

import (
	"fmt"
	"testing"

	"petshop/internal/models"
	"petshop/internal/repositories"
	"petshop/internal/services"

	"github.com/stretchr/testify/assert"
)

func newOrderFixture(t *testing.T, orderCount int) (*repositories.MockOrderRepository, *services.OrderService) {
	t.Helper()
	baskets := repositories.NewMockBasketRepository()
	orders := repositories.NewMockOrderRepository(baskets)

	userID := "user-1"
	for i := 0; i < orderCount; i++ {
		basket, err := baskets.GetOrCreateOpen(nil)
		assert.NoError(t, err)
		order := &models.Order{
			ID:     fmt.Sprintf("order-%02d", i),
			UserID: userID,
			Status: models.OrderStatusPaid,
			Items: []models.OrderItem{
				{ID: fmt.Sprintf("item-%02d", i), OrderID: fmt.Sprintf("order-%02d", i),
					ProductID: "prod-a", Status: models.OrderItemStatusNew},
			},
		}
		assert.NoError(t, orders.Convert(order, basket.ID))
	}
	return orders, services.NewOrderService(orders)
}

func TestOrderService_GetOrderHistory(t *testing.T) {
	_, service := newOrderFixture(t, 12)

	page1, total, err := service.GetOrderHistory("user-1", 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Len(t, page1, services.OrderPageSize)

	page2, _, err := service.GetOrderHistory("user-1", 2)
	assert.NoError(t, err)
	assert.Len(t, page2, 2)

	// Other users see nothing
	others, total, err := service.GetOrderHistory("user-2", 1)
	assert.NoError(t, err)
	assert.Empty(t, others)
	assert.Zero(t, total)
}

func TestOrderService_GetUserOrder(t *testing.T) {
	_, service := newOrderFixture(t, 1)

	order, err := service.GetUserOrder("order-00", "user-1")
	assert.NoError(t, err)
	assert.Equal(t, "order-00", order.ID)

	// Orders are gated to their owner
	_, err = service.GetUserOrder("order-00", "user-2")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = service.GetUserOrder("ghost", "user-1")
	assert.Error(t, err)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	orders, service := newOrderFixture(t, 1)

	assert.NoError(t, service.UpdateOrderStatus("order-00", models.OrderStatusShipped))
	order, err := orders.GetByID("order-00")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, order.Status)

	// Unknown statuses are rejected before touching the store
	err = service.UpdateOrderStatus("order-00", "teleported")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order status")

	err = service.UpdateOrderStatus("ghost", models.OrderStatusPaid)
	assert.Error(t, err)
}

func TestOrderService_UpdateItemStatus(t *testing.T) {
	orders, service := newOrderFixture(t, 1)

	assert.NoError(t, service.UpdateItemStatus("item-00", models.OrderItemStatusPicked))
	order, err := orders.GetByID("order-00")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderItemStatusPicked, order.Items[0].Status)

	err = service.UpdateItemStatus("item-00", "vaporized")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order item status")
}
