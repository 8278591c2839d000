package repository

import (
	"context"

	"craft-store/internal/model"

	"gorm.io/gorm"
)

type CrafterRepository interface {
	Create(ctx context.Context, crafter *model.Crafter) error
	Update(ctx context.Context, crafter *model.Crafter) error
	FindByID(ctx context.Context, crafterID string) (*model.Crafter, error)
	FindBySlug(ctx context.Context, slug string) (*model.Crafter, error)
	FindByUserID(ctx context.Context, userID string) (*model.Crafter, error)
	FindAll(ctx context.Context) ([]*model.Crafter, error)
}

type crafterRepoImpl struct {
	db *gorm.DB
}

func NewCrafterRepository(db *gorm.DB) CrafterRepository {
	return &crafterRepoImpl{
		db: db,
	}
}

func (r *crafterRepoImpl) Create(ctx context.Context, crafter *model.Crafter) error {
	return r.db.WithContext(ctx).Create(crafter).Error
}

func (r *crafterRepoImpl) Update(ctx context.Context, crafter *model.Crafter) error {
	return r.db.WithContext(ctx).Save(crafter).Error
}

func (r *crafterRepoImpl) FindByID(ctx context.Context, crafterID string) (*model.Crafter, error) {
	var crafter model.Crafter
	err := r.db.WithContext(ctx).
		Where("id = ?", crafterID).
		First(&crafter).Error

	if err != nil {
		return nil, err
	}

	return &crafter, nil
}

func (r *crafterRepoImpl) FindBySlug(ctx context.Context, slug string) (*model.Crafter, error) {
	var crafter model.Crafter
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&crafter).Error

	if err != nil {
		return nil, err
	}

	return &crafter, nil
}

func (r *crafterRepoImpl) FindByUserID(ctx context.Context, userID string) (*model.Crafter, error) {
	var crafter model.Crafter
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&crafter).Error

	if err != nil {
		return nil, err
	}

	return &crafter, nil
}

func (r *crafterRepoImpl) FindAll(ctx context.Context) ([]*model.Crafter, error) {
	var crafters []*model.Crafter
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&crafters).Error

	if err != nil {
		return nil, err
	}

	return crafters, nil
}
