package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"craft-store/internal/cache"
	"craft-store/internal/client"
	"craft-store/internal/dto"
	"craft-store/internal/model"
	"craft-store/internal/repository"
	"craft-store/internal/webhook"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrSignatureInvalid rejects a delivery at the boundary; the handler maps
// it to 401 and nothing is processed.
var ErrSignatureInvalid = errors.New("webhook signature invalid")

// ErrProviderDisabled answers deliveries for providers whose secret is not
// configured.
var ErrProviderDisabled = errors.New("payment provider disabled")

// StockAdjuster decrements stock for a paid order's line items. Inventory
// policy is undecided, so the default implementation does nothing.
type StockAdjuster interface {
	AdjustForOrder(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
}

// ReceiptNotifier sends an outbound receipt once an order is paid. No
// notification channel exists yet, so the default implementation does
// nothing.
type ReceiptNotifier interface {
	OrderPaid(ctx context.Context, order *model.Order) error
}

type NoopStockAdjuster struct{}

func (NoopStockAdjuster) AdjustForOrder(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return nil
}

type NoopReceiptNotifier struct{}

func (NoopReceiptNotifier) OrderPaid(ctx context.Context, order *model.Order) error {
	return nil
}

type PaymentService interface {
	HandlePaypalWebhook(ctx context.Context, headers http.Header, body []byte) error
	HandlePaystackWebhook(ctx context.Context, headers http.Header, body []byte) error
	HandleYocoWebhook(ctx context.Context, headers http.Header, body []byte) error
}

type paymentServiceImpl struct {
	db               *gorm.DB
	logger           *zap.SugaredLogger
	paypalClient     client.PaypalClient
	paystackVerifier *webhook.HMACVerifier
	yocoVerifier     *webhook.HMACVerifier
	orderRepo        repository.OrderRepository
	webhookEventRepo repository.WebhookEventRepository
	orderCache       *cache.OrderViewCache
	stock            StockAdjuster
	notifier         ReceiptNotifier
}

func NewPaymentService(
	db *gorm.DB,
	logger *zap.SugaredLogger,
	paypalClient client.PaypalClient,
	paystackVerifier *webhook.HMACVerifier,
	yocoVerifier *webhook.HMACVerifier,
	orderRepo repository.OrderRepository,
	webhookEventRepo repository.WebhookEventRepository,
	orderCache *cache.OrderViewCache,
	stock StockAdjuster,
	notifier ReceiptNotifier,
) PaymentService {
	return &paymentServiceImpl{
		db:               db,
		logger:           logger,
		paypalClient:     paypalClient,
		paystackVerifier: paystackVerifier,
		yocoVerifier:     yocoVerifier,
		orderRepo:        orderRepo,
		webhookEventRepo: webhookEventRepo,
		orderCache:       orderCache,
		stock:            stock,
		notifier:         notifier,
	}
}

func (s *paymentServiceImpl) HandlePaypalWebhook(ctx context.Context, headers http.Header, body []byte) error {
	if err := s.paypalClient.VerifyWebhookSignature(ctx, headers, body); err != nil {
		return fmt.Errorf("%w: %s", ErrSignatureInvalid, err)
	}

	event, err := webhook.NormalizePaypal(body)
	if err != nil {
		// Unprocessable payloads are acknowledged so the provider stops
		// retrying a delivery the store can never act on.
		s.logger.Infow("unprocessable paypal webhook", "error", err)
		return nil
	}

	return s.reconcile(ctx, event)
}

func (s *paymentServiceImpl) HandlePaystackWebhook(ctx context.Context, headers http.Header, body []byte) error {
	if !s.paystackVerifier.Enabled() {
		return ErrProviderDisabled
	}
	if err := s.paystackVerifier.Verify(headers, body); err != nil {
		return fmt.Errorf("%w: %s", ErrSignatureInvalid, err)
	}

	event, err := webhook.NormalizePaystack(body)
	if err != nil {
		s.logger.Infow("unprocessable paystack webhook", "error", err)
		return nil
	}

	return s.reconcile(ctx, event)
}

func (s *paymentServiceImpl) HandleYocoWebhook(ctx context.Context, headers http.Header, body []byte) error {
	if !s.yocoVerifier.Enabled() {
		return ErrProviderDisabled
	}
	if err := s.yocoVerifier.Verify(headers, body); err != nil {
		return fmt.Errorf("%w: %s", ErrSignatureInvalid, err)
	}

	event, err := webhook.NormalizeYoco(body)
	if err != nil {
		s.logger.Infow("unprocessable yoco webhook", "error", err)
		return nil
	}

	return s.reconcile(ctx, event)
}

// reconcile applies the UNPAID → PAID transition for one verified, normalized
// event. Every early return acknowledges the delivery; only unexpected
// database failures surface as errors.
func (s *paymentServiceImpl) reconcile(ctx context.Context, event *dto.PaymentEvent) error {
	log := s.logger.With("provider", event.Provider, "event_id", event.EventID)

	switch event.Kind {
	case dto.EventIgnored:
		log.Infow("unhandled event type, acknowledged")
		return nil
	case dto.EventPaymentDenied:
		// No failed status is persisted for denied payments. Recording one
		// is a product decision that has not been made.
		log.Infow("payment denied, no state change", "order_ref", event.ExternalOrderID)
		return nil
	}

	processed, err := s.webhookEventRepo.Exists(ctx, event.Provider, event.EventID)
	if err != nil {
		return fmt.Errorf("check webhook event: %w", err)
	}
	if processed {
		log.Infow("event already processed")
		return nil
	}

	order, err := s.orderRepo.FindByPaymentID(ctx, event.ExternalOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Expected for sandbox traffic and cancelled orders.
			log.Infow("no order for payment reference", "order_ref", event.ExternalOrderID)
			return nil
		}
		return fmt.Errorf("find order by payment id: %w", err)
	}

	if order.IsPaid {
		log.Infow("order already paid", "order_id", order.ID)
		return nil
	}

	now := time.Now()
	result := &model.PaymentResult{
		PaymentStatus:      "COMPLETED",
		PaymentEmail:       event.PayerEmail,
		PricePaid:          event.Amount,
		PaymentCurrency:    event.Currency,
		VerifiedAt:         &now,
		VerificationMethod: "webhook",
		RawResponse:        string(event.Raw),
	}

	var transitioned bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transitioned, err = s.orderRepo.MarkPaid(ctx, tx, order.ID, result, now)
		if err != nil {
			return fmt.Errorf("mark order paid: %w", err)
		}
		if !transitioned {
			return nil
		}

		items, err := s.orderRepo.GetOrderItems(ctx, tx, order.ID)
		if err != nil {
			return fmt.Errorf("get order items: %w", err)
		}
		if err := s.stock.AdjustForOrder(ctx, tx, items); err != nil {
			return fmt.Errorf("adjust stock: %w", err)
		}

		return s.webhookEventRepo.MarkProcessed(ctx, tx, event.Provider, event.EventID, string(event.Kind))
	})
	if err != nil {
		return err
	}

	if !transitioned {
		// A concurrent delivery won the conditional update.
		log.Infow("order already paid", "order_id", order.ID)
		return nil
	}

	s.orderCache.Invalidate(order.ID)

	if err := s.notifier.OrderPaid(ctx, order); err != nil {
		log.Errorw("receipt notification failed", "order_id", order.ID, "error", err)
	}

	log.Infow("order marked paid", "order_id", order.ID, "amount", event.Amount, "currency", event.Currency)
	return nil
}
