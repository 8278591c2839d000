package dto

// EventKind classifies a provider notification after normalization.
type EventKind string

const (
	EventPaymentCompleted EventKind = "payment_completed"
	EventPaymentDenied    EventKind = "payment_denied"
	// EventIgnored covers kinds the store takes no action on; they are
	// acknowledged so the provider stops retrying.
	EventIgnored EventKind = "ignored"
)

// PaymentEvent is the normalized view of one inbound webhook delivery. It
// lives only for the request that produced it.
type PaymentEvent struct {
	Provider        string
	EventID         string
	Kind            EventKind
	ExternalOrderID string
	Amount          string
	Currency        string
	PayerEmail      string
	Raw             []byte
}

type SignUpRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

type CheckoutResponse struct {
	OrderID          string `json:"order_id"`
	OrderApprovalURL string `json:"order_approval_url"`
}

type ProductRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
	// pointer so an absent field is distinguishable from stock 0
	Stock     *int32 `json:"stock"`
	CrafterID string `json:"crafter_id"`
}

type CrafterRequest struct {
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Bio    string `json:"bio"`
	UserID string `json:"user_id"`
}
