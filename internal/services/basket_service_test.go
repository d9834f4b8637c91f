package services_test

import (
	"testing"

	"petshop/internal/models"
	"petshop/internal/repositories"
	"petshop/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type basketFixture struct {
	baskets *repositories.MockBasketRepository
	catalog *repositories.MockProductRepository
	service *services.BasketService
}

func newBasketFixture(t *testing.T) *basketFixture {
	t.Helper()
	baskets := repositories.NewMockBasketRepository()
	catalog := repositories.NewMockProductRepository()
	seedCatalog(t, catalog,
		models.Product{ID: "prod-a", Title: "Doggie Treats", Brand: "Pawfect", Category: "Dog",
			Price: decimal.NewFromFloat(4.99), IsLive: true},
		models.Product{ID: "prod-b", Title: "Squeaky Bone", Brand: "Pawfect", Category: "Dog",
			Price: decimal.NewFromFloat(7.50), IsLive: true},
	)
	return &basketFixture{
		baskets: baskets,
		catalog: catalog,
		service: services.NewBasketService(baskets, catalog),
	}
}

func (f *basketFixture) addTimes(t *testing.T, basketID, productID string, times int) {
	t.Helper()
	for i := 0; i < times; i++ {
		_, _, err := f.service.AddProduct(basketID, productID)
		assert.NoError(t, err)
	}
}

func TestBasketService_EmptyBasket(t *testing.T) {
	f := newBasketFixture(t)

	basket, err := f.service.GetOrCreateBasket(nil)
	assert.NoError(t, err)

	count, err := f.service.Count(basket.ID)
	assert.NoError(t, err)
	assert.Zero(t, count)

	total, err := f.service.Total(basket.ID)
	assert.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestBasketService_CountSumsQuantities(t *testing.T) {
	f := newBasketFixture(t)

	basket, err := f.service.GetOrCreateBasket(nil)
	assert.NoError(t, err)

	f.addTimes(t, basket.ID, "prod-a", 3)
	f.addTimes(t, basket.ID, "prod-b", 1)

	count, err := f.service.Count(basket.ID)
	assert.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestBasketService_AddProductClampsAtMaximum(t *testing.T) {
	f := newBasketFixture(t)

	basket, err := f.service.GetOrCreateBasket(nil)
	assert.NoError(t, err)

	item, outcome, err := f.service.AddProduct(basket.ID, "prod-a")
	assert.NoError(t, err)
	assert.Equal(t, services.OutcomeAdded, outcome)
	assert.Equal(t, 1, item.Quantity)

	for want := 2; want <= models.MaxItemQuantity; want++ {
		item, outcome, err = f.service.AddProduct(basket.ID, "prod-a")
		assert.NoError(t, err)
		assert.Equal(t, services.OutcomeIncremented, outcome)
		assert.Equal(t, want, item.Quantity)
	}

	// At the cap the quantity is left unchanged
	item, outcome, err = f.service.AddProduct(basket.ID, "prod-a")
	assert.NoError(t, err)
	assert.Equal(t, services.OutcomeAtMaximum, outcome)
	assert.Equal(t, models.MaxItemQuantity, item.Quantity)

	// Unknown products are refused
	_, _, err = f.service.AddProduct(basket.ID, "ghost")
	assert.Error(t, err)
}

func TestBasketService_TotalReadsLivePrices(t *testing.T) {
	f := newBasketFixture(t)

	basket, err := f.service.GetOrCreateBasket(nil)
	assert.NoError(t, err)

	f.addTimes(t, basket.ID, "prod-a", 2) // 2 x 4.99
	f.addTimes(t, basket.ID, "prod-b", 1) // 1 x 7.50

	total, err := f.service.Total(basket.ID)
	assert.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromFloat(17.48)), "got %s", total)

	// Basket totals follow catalog price changes before checkout
	product, err := f.catalog.GetByID("prod-a")
	assert.NoError(t, err)
	product.Price = decimal.NewFromFloat(10.00)
	assert.NoError(t, f.catalog.Update(product))

	total, err = f.service.Total(basket.ID)
	assert.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromFloat(27.50)), "got %s", total)
}

func TestBasketService_UpdateQuantity(t *testing.T) {
	f := newBasketFixture(t)

	basket, err := f.service.GetOrCreateBasket(nil)
	assert.NoError(t, err)
	f.addTimes(t, basket.ID, "prod-a", 1)

	assert.NoError(t, f.service.UpdateQuantity(basket.ID, "prod-a", 4))
	count, _ := f.service.Count(basket.ID)
	assert.Equal(t, 4, count)

	// Out-of-range quantities are rejected
	assert.Error(t, f.service.UpdateQuantity(basket.ID, "prod-a", 6))
	assert.Error(t, f.service.UpdateQuantity(basket.ID, "prod-a", -1))

	// Zero removes the line
	assert.NoError(t, f.service.UpdateQuantity(basket.ID, "prod-a", 0))
	count, _ = f.service.Count(basket.ID)
	assert.Zero(t, count)

	// Updating a product that is not in the basket fails
	assert.Error(t, f.service.UpdateQuantity(basket.ID, "prod-b", 2))
}

func TestBasketService_RemovedProductCanBeReAdded(t *testing.T) {
	f := newBasketFixture(t)

	basket, err := f.service.GetOrCreateBasket(nil)
	assert.NoError(t, err)
	f.addTimes(t, basket.ID, "prod-a", 3)

	// Removing the line must free the (basket, product) slot entirely
	assert.NoError(t, f.service.UpdateQuantity(basket.ID, "prod-a", 0))

	item, outcome, err := f.service.AddProduct(basket.ID, "prod-a")
	assert.NoError(t, err)
	assert.Equal(t, services.OutcomeAdded, outcome)
	assert.Equal(t, 1, item.Quantity)

	count, err := f.service.Count(basket.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBasketService_MergeOnLogin_SumsQuantities(t *testing.T) {
	f := newBasketFixture(t)
	userID := "user-1"

	// Account basket with {prod-a: 1}
	account, err := f.service.GetOrCreateBasket(&userID)
	assert.NoError(t, err)
	f.addTimes(t, account.ID, "prod-a", 1)

	// Anonymous basket with {prod-a: 2, prod-b: 2}
	anonymous, err := f.service.GetOrCreateBasket(nil)
	assert.NoError(t, err)
	f.addTimes(t, anonymous.ID, "prod-a", 2)
	f.addTimes(t, anonymous.ID, "prod-b", 2)

	merged, report, err := f.service.MergeOnLogin(userID, anonymous.ID)
	assert.NoError(t, err)
	assert.Equal(t, account.ID, merged.ID)
	assert.NotNil(t, report)
	assert.ElementsMatch(t, []string{"prod-a", "prod-b"}, report.Merged)
	assert.Empty(t, report.Clamped)
	assert.Empty(t, report.Failed)

	// {prod-a: 1+2=3, prod-b: 2}
	quantities := map[string]int{}
	for _, item := range merged.Items {
		quantities[item.ProductID] = item.Quantity
	}
	assert.Equal(t, map[string]int{"prod-a": 3, "prod-b": 2}, quantities)

	// The anonymous basket is gone
	_, err = f.service.GetBasket(anonymous.ID)
	assert.Error(t, err)
}

func TestBasketService_MergeOnLogin_ClampsAtMaximum(t *testing.T) {
	f := newBasketFixture(t)
	userID := "user-1"

	account, err := f.service.GetOrCreateBasket(&userID)
	assert.NoError(t, err)
	f.addTimes(t, account.ID, "prod-a", 4)

	anonymous, err := f.service.GetOrCreateBasket(nil)
	assert.NoError(t, err)
	f.addTimes(t, anonymous.ID, "prod-a", 2)

	merged, report, err := f.service.MergeOnLogin(userID, anonymous.ID)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"prod-a"}, report.Clamped)
	assert.Empty(t, report.Merged)

	// 4 + 2 clamps to 5, not 6
	assert.Len(t, merged.Items, 1)
	assert.Equal(t, models.MaxItemQuantity, merged.Items[0].Quantity)
}

func TestBasketService_MergeOnLogin_ReattachesAnonymousBasket(t *testing.T) {
	f := newBasketFixture(t)
	userID := "user-1"

	// No account basket; the visitor shopped anonymously
	anonymous, err := f.service.GetOrCreateBasket(nil)
	assert.NoError(t, err)
	f.addTimes(t, anonymous.ID, "prod-b", 2)

	merged, report, err := f.service.MergeOnLogin(userID, anonymous.ID)
	assert.NoError(t, err)
	assert.Nil(t, report) // nothing was merged, the basket changed hands
	assert.Equal(t, anonymous.ID, merged.ID)
	assert.NotNil(t, merged.UserID)
	assert.Equal(t, userID, *merged.UserID)
}

func TestBasketService_MergeOnLogin_NoBaskets(t *testing.T) {
	f := newBasketFixture(t)

	merged, report, err := f.service.MergeOnLogin("user-1", "")
	assert.NoError(t, err)
	assert.Nil(t, merged)
	assert.Nil(t, report)
}

func TestBasketService_MergeOnLogin_AccountBasketOnly(t *testing.T) {
	f := newBasketFixture(t)
	userID := "user-1"

	account, err := f.service.GetOrCreateBasket(&userID)
	assert.NoError(t, err)
	f.addTimes(t, account.ID, "prod-a", 1)

	merged, report, err := f.service.MergeOnLogin(userID, "")
	assert.NoError(t, err)
	assert.Nil(t, report)
	assert.Equal(t, account.ID, merged.ID)
}

func TestBasketService_OneOpenBasketPerUser(t *testing.T) {
	f := newBasketFixture(t)
	userID := "user-1"

	first, err := f.service.GetOrCreateBasket(&userID)
	assert.NoError(t, err)
	second, err := f.service.GetOrCreateBasket(&userID)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
