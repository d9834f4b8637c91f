package services_test

import (
	"testing"

	"petshop/internal/models"
	"petshop/internal/repositories"
	"petshop/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type checkoutFixture struct {
	baskets       *repositories.MockBasketRepository
	catalog       *repositories.MockProductRepository
	users         *repositories.MockUserRepository
	orders        *repositories.MockOrderRepository
	basketService *services.BasketService
	service       *services.CheckoutService
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	baskets := repositories.NewMockBasketRepository()
	catalog := repositories.NewMockProductRepository()
	users := repositories.NewMockUserRepository()
	orders := repositories.NewMockOrderRepository(baskets)

	seedCatalog(t, catalog,
		models.Product{ID: "prod-a", Title: "Doggie Treats", Brand: "Pawfect", Category: "Dog",
			Price: decimal.NewFromFloat(4.99), IsLive: true},
		models.Product{ID: "prod-b", Title: "Squeaky Bone", Brand: "Pawfect", Category: "Dog",
			Price: decimal.NewFromFloat(7.50), IsLive: true},
	)
	assert.NoError(t, users.Create(&models.User{
		ID:        "user-1",
		Email:     "test@test.com",
		Password:  "hash",
		FirstName: "Doogan",
		LastName:  "Doogle",
		Address:   "1234 Test Lane",
		City:      "Dublin",
		Country:   "Ireland",
		PostCode:  "D01 XE18",
	}))

	return &checkoutFixture{
		baskets:       baskets,
		catalog:       catalog,
		users:         users,
		orders:        orders,
		basketService: services.NewBasketService(baskets, catalog),
		service:       services.NewCheckoutService(baskets, catalog, users, orders, nil),
	}
}

var testShipping = services.ShippingDetails{
	Name:     "Doogan Doogle",
	Address:  "1234 Test Lane",
	City:     "Dublin",
	Country:  "Ireland",
	PostCode: "D01 XE18",
}

// basketWith builds a basket holding the given product quantities.
func (f *checkoutFixture) basketWith(t *testing.T, userID *string, quantities map[string]int) *models.Basket {
	t.Helper()
	basket, err := f.basketService.GetOrCreateBasket(userID)
	assert.NoError(t, err)
	for productID, quantity := range quantities {
		_, _, err := f.basketService.AddProduct(basket.ID, productID)
		assert.NoError(t, err)
		if quantity > 1 {
			assert.NoError(t, f.basketService.UpdateQuantity(basket.ID, productID, quantity))
		}
	}
	return basket
}

func (f *checkoutFixture) orderCount(t *testing.T, userID string) int64 {
	t.Helper()
	_, total, err := f.orders.ListByUser(userID, 1, services.OrderPageSize)
	assert.NoError(t, err)
	return total
}

func TestCheckoutService_CreateOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	userID := "user-1"
	basket := f.basketWith(t, &userID, map[string]int{"prod-a": 3, "prod-b": 5})

	order, err := f.service.CreateOrder(basket.ID, testShipping, "pi_test_123")
	assert.NoError(t, err)

	// One paid order with 8 per-unit items: 3 of prod-a, 5 of prod-b
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, 8, order.ItemCount())
	perProduct := map[string]int{}
	for _, item := range order.Items {
		perProduct[item.ProductID]++
		assert.Equal(t, models.OrderItemStatusNew, item.Status)
	}
	assert.Equal(t, map[string]int{"prod-a": 3, "prod-b": 5}, perProduct)

	// Billing is snapshotted from the account profile
	assert.Equal(t, "Doogan Doogle", order.BillingName)
	assert.Equal(t, "1234 Test Lane", order.BillingAddress)
	assert.Equal(t, "Dublin", order.BillingCity)
	assert.Equal(t, "Ireland", order.BillingCountry)
	assert.Equal(t, "D01 XE18", order.BillingPostCode)
	// Shipping is taken from the caller as-is
	assert.Equal(t, testShipping.Name, order.ShippingName)
	assert.Equal(t, "pi_test_123", order.PaymentRef)

	// The source basket is closed and no longer accepts additions
	_, err = f.basketService.GetBasket(basket.ID)
	assert.Error(t, err)
	_, _, err = f.basketService.AddProduct(basket.ID, "prod-a")
	assert.Error(t, err)

	assert.Equal(t, int64(1), f.orderCount(t, userID))
}

func TestCheckoutService_FrozenUnitPrices(t *testing.T) {
	f := newCheckoutFixture(t)
	userID := "user-1"
	basket := f.basketWith(t, &userID, map[string]int{"prod-a": 2})

	order, err := f.service.CreateOrder(basket.ID, testShipping, "pi_test_123")
	assert.NoError(t, err)

	// Raising the catalog price afterwards must not touch the frozen prices
	product, err := f.catalog.GetByID("prod-a")
	assert.NoError(t, err)
	product.Price = decimal.NewFromFloat(99.99)
	assert.NoError(t, f.catalog.Update(product))

	stored, err := f.orders.GetByID(order.ID)
	assert.NoError(t, err)
	for _, item := range stored.Items {
		assert.True(t, item.Price.Equal(decimal.NewFromFloat(4.99)), "got %s", item.Price)
	}
}

func TestCheckoutService_NoAssociatedAccount(t *testing.T) {
	f := newCheckoutFixture(t)
	basket := f.basketWith(t, nil, map[string]int{"prod-a": 1})

	_, err := f.service.CreateOrder(basket.ID, testShipping, "pi_test_123")
	assert.ErrorIs(t, err, models.ErrNoAssociatedAccount)

	// No order was created and the basket stays open
	assert.Equal(t, int64(0), f.orderCount(t, "user-1"))
	_, err = f.basketService.GetBasket(basket.ID)
	assert.NoError(t, err)
}

func TestCheckoutService_EmptyBasket(t *testing.T) {
	f := newCheckoutFixture(t)
	userID := "user-1"
	basket := f.basketWith(t, &userID, nil)

	_, err := f.service.CreateOrder(basket.ID, testShipping, "pi_test_123")
	assert.ErrorIs(t, err, models.ErrEmptyBasket)
	assert.Equal(t, int64(0), f.orderCount(t, userID))
}

func TestCheckoutService_MissingPaymentConfirmation(t *testing.T) {
	f := newCheckoutFixture(t)
	userID := "user-1"
	basket := f.basketWith(t, &userID, map[string]int{"prod-a": 1})

	_, err := f.service.CreateOrder(basket.ID, testShipping, "")
	assert.ErrorIs(t, err, models.ErrMissingPaymentConfirmation)

	// Nothing was written: no order, basket still open
	assert.Equal(t, int64(0), f.orderCount(t, userID))
	_, err = f.basketService.GetBasket(basket.ID)
	assert.NoError(t, err)
}

func TestCheckoutService_DoubleConversionRejected(t *testing.T) {
	f := newCheckoutFixture(t)
	userID := "user-1"
	basket := f.basketWith(t, &userID, map[string]int{"prod-a": 1})

	_, err := f.service.CreateOrder(basket.ID, testShipping, "pi_test_123")
	assert.NoError(t, err)

	_, err = f.service.CreateOrder(basket.ID, testShipping, "pi_test_456")
	assert.ErrorIs(t, err, models.ErrBasketProcessed)
	assert.Equal(t, int64(1), f.orderCount(t, userID))
}
