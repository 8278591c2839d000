package repository

import (
	"context"
	"time"

	"craft-store/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*model.Cart, error)
	UpsertItem(ctx context.Context, item *model.CartItem) error
	RemoveItem(ctx context.Context, cartID, productID string) error
	Clear(ctx context.Context, tx *gorm.DB, cartID string) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) GetOrCreate(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&cart).Error

	if err == nil {
		return &cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	cart = model.Cart{ID: uuid.NewString(), UserID: userID}
	if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) UpsertItem(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", item.Quantity),
			"unit_price": item.UnitPrice,
		}),
	}).Create(&item).Error
}

func (r *cartRepoImpl) RemoveItem(ctx context.Context, cartID, productID string) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&model.CartItem{}).Error
}

func (r *cartRepoImpl) Clear(ctx context.Context, tx *gorm.DB, cartID string) error {
	if err := tx.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartItem{}).Error; err != nil {
		return err
	}

	return tx.WithContext(ctx).Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("updated_at", time.Now()).Error
}
