package model

type PaypalPayer struct {
	PayerID string `json:"payer_id"`
	Email   string `json:"email_address"`
}

type PaypalAmount struct {
	Currency string `json:"currency_code"`
	Value    string `json:"value"`
}

type PaypalRelatedIDs struct {
	OrderID string `json:"order_id"`
}

type PaypalSupplementaryData struct {
	RelatedIDs PaypalRelatedIDs `json:"related_ids"`
}

// PaypalResource is the capture resource carried by payment events. For
// PAYMENT.CAPTURE.* events ID is the capture id; the checkout order id
// lives under supplementary_data.related_ids.order_id.
type PaypalResource struct {
	ID                string                  `json:"id"`
	Status            string                  `json:"status"`
	Amount            PaypalAmount            `json:"amount"`
	Payer             PaypalPayer             `json:"payer"`
	SupplementaryData PaypalSupplementaryData `json:"supplementary_data"`
}

type PaypalWebhookEvent struct {
	ID         string         `json:"id"`
	EventType  string         `json:"event_type"`
	CreateTime string         `json:"create_time"`
	Resource   PaypalResource `json:"resource"`
}
