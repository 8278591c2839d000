package model

type PaystackCustomer struct {
	Email string `json:"email"`
}

type PaystackData struct {
	Reference string            `json:"reference"`
	Amount    int64             `json:"amount"` // subunits (kobo/cents)
	Currency  string            `json:"currency"`
	Status    string            `json:"status"`
	Customer  PaystackCustomer  `json:"customer"`
	Metadata  map[string]string `json:"metadata"`
}

type PaystackWebhookEvent struct {
	Event string       `json:"event"`
	Data  PaystackData `json:"data"`
}

// Yoco notifications follow the same event/data pattern with their own
// field names; checkoutId is the provider-side order reference.
type YocoPayload struct {
	ID         string            `json:"id"`
	CheckoutID string            `json:"checkoutId"`
	Amount     int64             `json:"amount"` // subunits
	Currency   string            `json:"currency"`
	Status     string            `json:"status"`
	Metadata   map[string]string `json:"metadata"`
}

type YocoWebhookEvent struct {
	ID      string      `json:"id"`
	Type    string      `json:"type"`
	Payload YocoPayload `json:"payload"`
}
