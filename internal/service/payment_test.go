package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/http"
	"testing"
	"time"

	"craft-store/internal/cache"
	"craft-store/internal/client"
	"craft-store/internal/model"
	"craft-store/internal/repository"
	"craft-store/internal/webhook"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakePaypalClient struct {
	verifyErr error
	captured  []string
}

func (f *fakePaypalClient) CreateOrderForApproval(ctx context.Context, amount, currency, serviceBaseUrl string) (*client.CreateOrderResponse, error) {
	return &client.CreateOrderResponse{OrderID: "PP-NEW", ApproveURL: "https://paypal.test/approve"}, nil
}

func (f *fakePaypalClient) CaptureOrder(ctx context.Context, orderID string) error {
	f.captured = append(f.captured, orderID)
	return nil
}

func (f *fakePaypalClient) VerifyWebhookSignature(ctx context.Context, headers http.Header, body []byte) error {
	return f.verifyErr
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Crafter{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.WebhookEvent{},
	))

	return db
}

func newPaymentFixture(t *testing.T, verifyErr error) (PaymentService, *gorm.DB, *cache.OrderViewCache) {
	t.Helper()

	db := newTestDB(t)
	orderCache := cache.NewOrderViewCache(5 * time.Minute)

	svc := NewPaymentService(
		db,
		zap.NewNop().Sugar(),
		&fakePaypalClient{verifyErr: verifyErr},
		webhook.NewPaystackVerifier(""),
		webhook.NewYocoVerifier(""),
		repository.NewOrderRepository(db),
		repository.NewWebhookEventRepository(db),
		orderCache,
		NoopStockAdjuster{},
		NoopReceiptNotifier{},
	)

	return svc, db, orderCache
}

func seedUnpaidOrder(t *testing.T, db *gorm.DB, paymentID string) *model.Order {
	t.Helper()

	order := &model.Order{
		ID:            "order-" + paymentID,
		UserID:        "user-1",
		ItemsPrice:    decimal.RequireFromString("64.00"),
		TotalPrice:    decimal.RequireFromString("64.00"),
		Currency:      "USD",
		PaymentMethod: "paypal",
		PaymentResult: model.PaymentResult{PaymentID: paymentID},
	}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Create(&model.OrderItem{
		OrderID:   order.ID,
		ProductID: "prod-1",
		Name:      "Clay Mug",
		Quantity:  2,
		UnitPrice: decimal.RequireFromString("32.00"),
	}).Error)

	return order
}

func captureEvent(eventID, orderRef string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"event_type": "PAYMENT.CAPTURE.COMPLETED",
		"resource": {
			"id": "CAP-1",
			"status": "COMPLETED",
			"amount": {"currency_code": "USD", "value": "64.00"},
			"payer": {"email_address": "buyer@example.com"},
			"supplementary_data": {"related_ids": {"order_id": %q}}
		}
	}`, eventID, orderRef))
}

func TestHandlePaypalWebhook_InvalidSignatureNoMutation(t *testing.T) {
	svc, db, _ := newPaymentFixture(t, fmt.Errorf("verification status \"FAILURE\""))
	seedUnpaidOrder(t, db, "PP-1")

	err := svc.HandlePaypalWebhook(context.Background(), http.Header{}, captureEvent("WH-1", "PP-1"))
	assert.ErrorIs(t, err, ErrSignatureInvalid)

	var order model.Order
	require.NoError(t, db.First(&order, "id = ?", "order-PP-1").Error)
	assert.False(t, order.IsPaid)
	assert.Nil(t, order.PaidAt)
	assert.Empty(t, order.PaymentResult.PaymentStatus)
}

func TestHandlePaypalWebhook_MarksOrderPaid(t *testing.T) {
	svc, db, _ := newPaymentFixture(t, nil)
	seedUnpaidOrder(t, db, "PP-2")

	err := svc.HandlePaypalWebhook(context.Background(), http.Header{}, captureEvent("WH-2", "PP-2"))
	require.NoError(t, err)

	var order model.Order
	require.NoError(t, db.First(&order, "id = ?", "order-PP-2").Error)
	assert.True(t, order.IsPaid)
	require.NotNil(t, order.PaidAt)
	assert.Equal(t, "COMPLETED", order.PaymentResult.PaymentStatus)
	assert.Equal(t, "buyer@example.com", order.PaymentResult.PaymentEmail)
	assert.Equal(t, "64.00", order.PaymentResult.PricePaid)
	assert.Equal(t, "webhook", order.PaymentResult.VerificationMethod)
	// the external reference set at checkout survives the merge
	assert.Equal(t, "PP-2", order.PaymentResult.PaymentID)
}

func TestHandlePaypalWebhook_RedeliveryIsIdempotent(t *testing.T) {
	svc, db, _ := newPaymentFixture(t, nil)
	seedUnpaidOrder(t, db, "PP-3")

	body := captureEvent("WH-3", "PP-3")
	require.NoError(t, svc.HandlePaypalWebhook(context.Background(), http.Header{}, body))

	var first model.Order
	require.NoError(t, db.First(&first, "id = ?", "order-PP-3").Error)

	require.NoError(t, svc.HandlePaypalWebhook(context.Background(), http.Header{}, body))

	var second model.Order
	require.NoError(t, db.First(&second, "id = ?", "order-PP-3").Error)
	assert.Equal(t, first.PaidAt, second.PaidAt)
	assert.Equal(t, first.PaymentResult, second.PaymentResult)
}

func TestHandlePaypalWebhook_DuplicateCaptureSingleTransition(t *testing.T) {
	svc, db, _ := newPaymentFixture(t, nil)
	seedUnpaidOrder(t, db, "PP-4")

	// two distinct deliveries referencing the same checkout order
	require.NoError(t, svc.HandlePaypalWebhook(context.Background(), http.Header{}, captureEvent("WH-4a", "PP-4")))
	require.NoError(t, svc.HandlePaypalWebhook(context.Background(), http.Header{}, captureEvent("WH-4b", "PP-4")))

	var count int64
	require.NoError(t, db.Model(&model.WebhookEvent{}).Where("provider = ?", "paypal").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var order model.Order
	require.NoError(t, db.First(&order, "id = ?", "order-PP-4").Error)
	assert.True(t, order.IsPaid)
}

func TestHandlePaypalWebhook_MissingOrderIDAcknowledged(t *testing.T) {
	svc, db, _ := newPaymentFixture(t, nil)
	seedUnpaidOrder(t, db, "PP-5")

	body := []byte(`{
		"id": "WH-5",
		"event_type": "PAYMENT.CAPTURE.COMPLETED",
		"resource": {"id": "CAP-5", "status": "COMPLETED"}
	}`)

	require.NoError(t, svc.HandlePaypalWebhook(context.Background(), http.Header{}, body))

	var order model.Order
	require.NoError(t, db.First(&order, "id = ?", "order-PP-5").Error)
	assert.False(t, order.IsPaid)
}

func TestHandlePaypalWebhook_UnknownOrderReferenceAcknowledged(t *testing.T) {
	svc, _, _ := newPaymentFixture(t, nil)

	err := svc.HandlePaypalWebhook(context.Background(), http.Header{}, captureEvent("WH-6", "PP-SANDBOX"))
	assert.NoError(t, err)
}

func TestHandlePaypalWebhook_UnhandledEventKindAcknowledged(t *testing.T) {
	svc, db, _ := newPaymentFixture(t, nil)
	seedUnpaidOrder(t, db, "PP-7")

	body := []byte(`{"id": "WH-7", "event_type": "CUSTOMER.DISPUTE.CREATED", "resource": {}}`)
	require.NoError(t, svc.HandlePaypalWebhook(context.Background(), http.Header{}, body))

	var order model.Order
	require.NoError(t, db.First(&order, "id = ?", "order-PP-7").Error)
	assert.False(t, order.IsPaid)
}

func TestHandlePaypalWebhook_DeniedPaymentLoggedOnly(t *testing.T) {
	svc, db, _ := newPaymentFixture(t, nil)
	seedUnpaidOrder(t, db, "PP-8")

	body := []byte(`{
		"id": "WH-8",
		"event_type": "PAYMENT.CAPTURE.DENIED",
		"resource": {
			"id": "CAP-8",
			"supplementary_data": {"related_ids": {"order_id": "PP-8"}}
		}
	}`)
	require.NoError(t, svc.HandlePaypalWebhook(context.Background(), http.Header{}, body))

	var order model.Order
	require.NoError(t, db.First(&order, "id = ?", "order-PP-8").Error)
	assert.False(t, order.IsPaid)
	assert.Empty(t, order.PaymentResult.PaymentStatus)
}

func TestHandlePaypalWebhook_InvalidatesCachedOrderView(t *testing.T) {
	svc, db, orderCache := newPaymentFixture(t, nil)
	order := seedUnpaidOrder(t, db, "PP-9")

	orderCache.Set(order)
	_, cached := orderCache.Get(order.ID)
	require.True(t, cached)

	require.NoError(t, svc.HandlePaypalWebhook(context.Background(), http.Header{}, captureEvent("WH-9", "PP-9")))

	_, cached = orderCache.Get(order.ID)
	assert.False(t, cached)
}

func TestHandlePaystackWebhook_EnabledPipeline(t *testing.T) {
	db := newTestDB(t)
	orderCache := cache.NewOrderViewCache(5 * time.Minute)

	svc := NewPaymentService(
		db,
		zap.NewNop().Sugar(),
		&fakePaypalClient{},
		webhook.NewPaystackVerifier("sk_test_secret"),
		webhook.NewYocoVerifier(""),
		repository.NewOrderRepository(db),
		repository.NewWebhookEventRepository(db),
		orderCache,
		NoopStockAdjuster{},
		NoopReceiptNotifier{},
	)

	order := &model.Order{
		ID:            "order-ps-1",
		UserID:        "user-1",
		ItemsPrice:    decimal.RequireFromString("6400.50"),
		TotalPrice:    decimal.RequireFromString("6400.50"),
		Currency:      "ZAR",
		PaymentMethod: "paystack",
		PaymentResult: model.PaymentResult{PaymentID: "ref_abc123"},
	}
	require.NoError(t, db.Create(order).Error)

	body := []byte(`{
		"event": "charge.success",
		"data": {
			"reference": "ref_abc123",
			"amount": 640050,
			"currency": "ZAR",
			"status": "success",
			"customer": {"email": "buyer@example.com"}
		}
	}`)

	mac := hmac.New(sha512.New, []byte("sk_test_secret"))
	mac.Write(body)
	headers := http.Header{}
	headers.Set("x-paystack-signature", hex.EncodeToString(mac.Sum(nil)))

	require.NoError(t, svc.HandlePaystackWebhook(context.Background(), headers, body))

	var paid model.Order
	require.NoError(t, db.First(&paid, "id = ?", "order-ps-1").Error)
	assert.True(t, paid.IsPaid)
	assert.Equal(t, "6400.50", paid.PaymentResult.PricePaid)

	// wrong signature never mutates
	headers.Set("x-paystack-signature", "deadbeef")
	err := svc.HandlePaystackWebhook(context.Background(), headers, body)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestHandlePaystackWebhook_DisabledWithoutSecret(t *testing.T) {
	svc, _, _ := newPaymentFixture(t, nil)

	err := svc.HandlePaystackWebhook(context.Background(), http.Header{}, []byte(`{}`))
	assert.ErrorIs(t, err, ErrProviderDisabled)

	err = svc.HandleYocoWebhook(context.Background(), http.Header{}, []byte(`{}`))
	assert.ErrorIs(t, err, ErrProviderDisabled)
}
