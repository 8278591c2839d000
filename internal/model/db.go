package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleCraft Role = "craft"
)

type User struct {
	ID           string `gorm:"primaryKey;size:36;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	Name         string `gorm:"size:255;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	Role         Role   `gorm:"size:16;index;not null;default:user"`
	// Forces the password-reset gate until the user changes their password.
	RequirePasswordReset bool `gorm:"not null;default:false"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Crafter is the vendor/artisan entity behind a storefront; linkable to a
// user account with role craft.
type Crafter struct {
	ID        string `gorm:"primaryKey;size:36;not null"`
	Name      string `gorm:"size:255;not null"`
	Slug      string `gorm:"size:255;uniqueIndex;not null"`
	Bio       string `gorm:"type:text"`
	UserID    string `gorm:"size:36;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID          string          `gorm:"primaryKey;size:36;not null"`
	Name        string          `gorm:"size:255;not null"`
	Slug        string          `gorm:"size:255;uniqueIndex;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency    string          `gorm:"size:8;not null;default:USD"`
	Stock       int32           `gorm:"not null;default:0"`
	CrafterID   string          `gorm:"size:36;index;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Cart struct {
	ID        string `gorm:"primaryKey;size:36;not null"`
	UserID    string `gorm:"size:36;uniqueIndex;not null"`
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID     uint   `gorm:"primaryKey"`
	CartID string `gorm:"size:36;not null;uniqueIndex:ux_cart_items_cart_product"`
	// FK → product.id
	ProductID string          `gorm:"size:36;not null;uniqueIndex:ux_cart_items_cart_product"`
	Name      string          `gorm:"size:255;not null"`
	Quantity  int32           `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}

// PaymentResult is the free-form record of the last payment confirmation,
// embedded into Order. PaymentID holds the provider's order-level
// identifier and is the key the webhook locator matches on.
type PaymentResult struct {
	PaymentID          string     `gorm:"size:64;index"`
	PaymentStatus      string     `gorm:"size:32"`
	PaymentEmail       string     `gorm:"size:255"`
	PricePaid          string     `gorm:"size:32"`
	PaymentCurrency    string     `gorm:"size:8"`
	VerifiedAt         *time.Time
	VerificationMethod string `gorm:"size:32"`
	RawResponse        string `gorm:"type:text"`
}

type Order struct {
	ID     string `gorm:"primaryKey;size:36;not null"`
	UserID string `gorm:"size:36;index;not null"`

	ItemsPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency   string          `gorm:"size:8;not null"`

	IsPaid      bool `gorm:"not null;default:false"`
	PaidAt      *time.Time
	DeliveredAt *time.Time

	PaymentMethod string        `gorm:"size:32;not null;default:paypal"`
	PaymentResult PaymentResult `gorm:"embedded;embeddedPrefix:payment_"`

	OrderItems []OrderItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type OrderItem struct {
	ID uint `gorm:"primaryKey"`
	// FK → order.id
	OrderID string `gorm:"size:36;index;not null"`
	// FK → product.id
	ProductID string          `gorm:"size:36;index;not null"`
	Name      string          `gorm:"size:255;not null"`
	Quantity  int32           `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}

// WebhookEvent records processed provider deliveries so retries of the same
// event short-circuit. Unique per (provider, event_id).
type WebhookEvent struct {
	ID          uint   `gorm:"primaryKey"`
	Provider    string `gorm:"size:16;not null;uniqueIndex:ux_webhook_events_provider_event"`
	EventID     string `gorm:"size:128;not null;uniqueIndex:ux_webhook_events_provider_event"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
