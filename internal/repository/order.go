package repository

import (
	"context"
	"time"

	"craft-store/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*model.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]*model.Order, error)
	FindAll(ctx context.Context) ([]*model.Order, error)
	MarkPaid(ctx context.Context, tx *gorm.DB, orderID string, result *model.PaymentResult, paidAt time.Time) (bool, error)
	MarkDelivered(ctx context.Context, orderID string, deliveredAt time.Time) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	GetOrderItems(ctx context.Context, tx *gorm.DB, orderID string) ([]*model.OrderItem, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

// FindByPaymentID locates the order whose stored payment-result id equals
// the provider's order-level identifier.
func (r *orderRepoImpl) FindByPaymentID(ctx context.Context, paymentID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("payment_payment_id = ?", paymentID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByUserID(ctx context.Context, userID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) FindAll(ctx context.Context) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

// MarkPaid flips the order to paid with a conditional write keyed on
// is_paid = false, so concurrent duplicate deliveries race on the database
// instead of on a check in application code. Returns false when another
// delivery already won.
func (r *orderRepoImpl) MarkPaid(ctx context.Context, tx *gorm.DB, orderID string, result *model.PaymentResult, paidAt time.Time) (bool, error) {
	updates := map[string]interface{}{
		"is_paid":    true,
		"paid_at":    paidAt,
		"updated_at": time.Now(),
	}
	if result.PaymentStatus != "" {
		updates["payment_payment_status"] = result.PaymentStatus
	}
	if result.PaymentEmail != "" {
		updates["payment_payment_email"] = result.PaymentEmail
	}
	if result.PricePaid != "" {
		updates["payment_price_paid"] = result.PricePaid
	}
	if result.PaymentCurrency != "" {
		updates["payment_payment_currency"] = result.PaymentCurrency
	}
	if result.VerifiedAt != nil {
		updates["payment_verified_at"] = result.VerifiedAt
	}
	if result.VerificationMethod != "" {
		updates["payment_verification_method"] = result.VerificationMethod
	}
	if result.RawResponse != "" {
		updates["payment_raw_response"] = result.RawResponse
	}

	res := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND is_paid = ?", orderID, false).
		Updates(updates)

	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

func (r *orderRepoImpl) MarkDelivered(ctx context.Context, orderID string, deliveredAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND is_paid = ?", orderID, true).
		Updates(map[string]interface{}{
			"delivered_at": deliveredAt,
			"updated_at":   time.Now(),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) GetOrderItems(ctx context.Context, tx *gorm.DB, orderID string) ([]*model.OrderItem, error) {
	var items []*model.OrderItem
	err := tx.WithContext(ctx).Where("order_id = ?", orderID).
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}
