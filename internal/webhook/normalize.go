package webhook

import (
	"encoding/json"
	"fmt"

	"craft-store/internal/dto"
	"craft-store/internal/model"

	"github.com/shopspring/decimal"
)

// ErrNoOrderReference marks a payload that carries no external order id.
// Such deliveries are unprocessable but still acknowledged to the provider.
var ErrNoOrderReference = fmt.Errorf("payload carries no order reference")

// NormalizePaypal maps a raw PayPal event body into the canonical payment
// event. Capture events reference the checkout order through
// supplementary_data.related_ids.order_id; the resource id itself is the
// capture id and never matches a stored order.
func NormalizePaypal(rawBody []byte) (*dto.PaymentEvent, error) {
	var event model.PaypalWebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, fmt.Errorf("decode paypal payload: %w", err)
	}

	normalized := &dto.PaymentEvent{
		Provider:   "paypal",
		EventID:    event.ID,
		Amount:     event.Resource.Amount.Value,
		Currency:   event.Resource.Amount.Currency,
		PayerEmail: event.Resource.Payer.Email,
		Raw:        rawBody,
	}

	switch event.EventType {
	case "PAYMENT.CAPTURE.COMPLETED":
		normalized.Kind = dto.EventPaymentCompleted
	case "PAYMENT.CAPTURE.DENIED":
		normalized.Kind = dto.EventPaymentDenied
	default:
		normalized.Kind = dto.EventIgnored
		return normalized, nil
	}

	normalized.ExternalOrderID = event.Resource.SupplementaryData.RelatedIDs.OrderID
	if normalized.ExternalOrderID == "" {
		return nil, ErrNoOrderReference
	}

	return normalized, nil
}

// NormalizePaystack maps a raw Paystack event body into the canonical
// payment event. Amounts arrive in subunits and are rendered to major units
// for the paid-price record.
func NormalizePaystack(rawBody []byte) (*dto.PaymentEvent, error) {
	var event model.PaystackWebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, fmt.Errorf("decode paystack payload: %w", err)
	}

	normalized := &dto.PaymentEvent{
		Provider:   "paystack",
		EventID:    event.Data.Reference,
		Amount:     subunitsToMajor(event.Data.Amount),
		Currency:   event.Data.Currency,
		PayerEmail: event.Data.Customer.Email,
		Raw:        rawBody,
	}

	switch event.Event {
	case "charge.success":
		normalized.Kind = dto.EventPaymentCompleted
	case "charge.failed":
		normalized.Kind = dto.EventPaymentDenied
	default:
		normalized.Kind = dto.EventIgnored
		return normalized, nil
	}

	normalized.ExternalOrderID = event.Data.Reference
	if normalized.ExternalOrderID == "" {
		return nil, ErrNoOrderReference
	}

	return normalized, nil
}

// NormalizeYoco maps a raw Yoco event body into the canonical payment event.
func NormalizeYoco(rawBody []byte) (*dto.PaymentEvent, error) {
	var event model.YocoWebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, fmt.Errorf("decode yoco payload: %w", err)
	}

	normalized := &dto.PaymentEvent{
		Provider: "yoco",
		EventID:  event.ID,
		Amount:   subunitsToMajor(event.Payload.Amount),
		Currency: event.Payload.Currency,
		Raw:      rawBody,
	}

	switch event.Type {
	case "payment.succeeded":
		normalized.Kind = dto.EventPaymentCompleted
	case "payment.failed":
		normalized.Kind = dto.EventPaymentDenied
	default:
		normalized.Kind = dto.EventIgnored
		return normalized, nil
	}

	normalized.ExternalOrderID = event.Payload.CheckoutID
	if normalized.ExternalOrderID == "" {
		return nil, ErrNoOrderReference
	}

	return normalized, nil
}

func subunitsToMajor(amount int64) string {
	return decimal.NewFromInt(amount).Div(decimal.NewFromInt(100)).StringFixed(2)
}
