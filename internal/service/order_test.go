package service

import (
	"context"
	"testing"
	"time"

	"craft-store/internal/cache"
	"craft-store/internal/model"
	"craft-store/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrderFixture(t *testing.T) (OrderService, CartService, *gorm.DB, *cache.OrderViewCache) {
	orderSvc, cartSvc, db, orderCache, _ := newOrderFixtureWithClient(t)
	return orderSvc, cartSvc, db, orderCache
}

func newOrderFixtureWithClient(t *testing.T) (OrderService, CartService, *gorm.DB, *cache.OrderViewCache, *fakePaypalClient) {
	t.Helper()

	db := newTestDB(t)
	orderCache := cache.NewOrderViewCache(5 * time.Minute)

	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	paypal := &fakePaypalClient{}

	orderSvc := NewOrderService(db, paypal, "http://localhost:8080",
		repository.NewOrderRepository(db), cartRepo, productRepo, orderCache)
	cartSvc := NewCartService(cartRepo, productRepo)

	return orderSvc, cartSvc, db, orderCache, paypal
}

func seedProduct(t *testing.T, db *gorm.DB, id, price string) {
	t.Helper()

	require.NoError(t, db.Create(&model.Product{
		ID:        id,
		Name:      "Clay Mug " + id,
		Slug:      "clay-mug-" + id,
		Price:     decimal.RequireFromString(price),
		Currency:  "USD",
		Stock:     10,
		CrafterID: "crafter-1",
	}).Error)
}

func TestCheckout_CreatesUnpaidOrderWithPaymentReference(t *testing.T) {
	orderSvc, cartSvc, db, _ := newOrderFixture(t)
	ctx := context.Background()

	seedProduct(t, db, "p1", "32.00")
	_, err := cartSvc.AddItem(ctx, "user-1", "p1", 2)
	require.NoError(t, err)

	resp, err := orderSvc.Checkout(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.OrderID)
	assert.Equal(t, "https://paypal.test/approve", resp.OrderApprovalURL)

	var order model.Order
	require.NoError(t, db.Preload("OrderItems").First(&order, "id = ?", resp.OrderID).Error)
	assert.False(t, order.IsPaid)
	// the provider order id the webhook locator will match on
	assert.Equal(t, "PP-NEW", order.PaymentResult.PaymentID)
	assert.Equal(t, "64.00", order.TotalPrice.StringFixed(2))
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, int32(2), order.OrderItems[0].Quantity)

	// checkout empties the cart
	cart, err := cartSvc.GetCart(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	orderSvc, _, _, _ := newOrderFixture(t)

	_, err := orderSvc.Checkout(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_RemovedProductRejected(t *testing.T) {
	orderSvc, cartSvc, db, _ := newOrderFixture(t)
	ctx := context.Background()

	seedProduct(t, db, "p1", "12.00")
	_, err := cartSvc.AddItem(ctx, "user-1", "p1", 1)
	require.NoError(t, err)

	// product withdrawn from the catalog after it was carted
	require.NoError(t, db.Delete(&model.Product{}, "id = ?", "p1").Error)

	_, err = orderSvc.Checkout(ctx, "user-1")
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestCaptureApprovedOrder_CapturesWithProvider(t *testing.T) {
	orderSvc, cartSvc, db, _, paypal := newOrderFixtureWithClient(t)
	ctx := context.Background()

	seedProduct(t, db, "p1", "20.00")
	_, err := cartSvc.AddItem(ctx, "user-1", "p1", 1)
	require.NoError(t, err)

	_, err = orderSvc.Checkout(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, orderSvc.CaptureApprovedOrder(ctx, "PP-NEW"))
	assert.Equal(t, []string{"PP-NEW"}, paypal.captured)
}

func TestGetOrder_OwnershipAndCaching(t *testing.T) {
	orderSvc, cartSvc, db, orderCache := newOrderFixture(t)
	ctx := context.Background()

	seedProduct(t, db, "p1", "10.00")
	_, err := cartSvc.AddItem(ctx, "user-1", "p1", 1)
	require.NoError(t, err)

	resp, err := orderSvc.Checkout(ctx, "user-1")
	require.NoError(t, err)

	// another user cannot read it, an admin can
	_, err = orderSvc.GetOrder(ctx, resp.OrderID, "user-2", false)
	assert.ErrorIs(t, err, ErrNotOrderOwner)

	_, err = orderSvc.GetOrder(ctx, resp.OrderID, "user-2", true)
	require.NoError(t, err)

	// the read warmed the cache
	_, cached := orderCache.Get(resp.OrderID)
	assert.True(t, cached)
}

func TestCartService_AddAndRemove(t *testing.T) {
	_, cartSvc, db, _ := newOrderFixture(t)
	ctx := context.Background()

	seedProduct(t, db, "p1", "5.50")
	seedProduct(t, db, "p2", "7.25")

	cart, err := cartSvc.AddItem(ctx, "user-1", "p1", 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	// adding the same product accumulates quantity
	cart, err = cartSvc.AddItem(ctx, "user-1", "p1", 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int32(3), cart.Items[0].Quantity)

	cart, err = cartSvc.AddItem(ctx, "user-1", "p2", 1)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)

	cart, err = cartSvc.RemoveItem(ctx, "user-1", "p1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p2", cart.Items[0].ProductID)

	_, err = cartSvc.AddItem(ctx, "user-1", "p1", 0)
	assert.Error(t, err)
}
