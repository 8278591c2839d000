package service

import (
	"context"
	"errors"
	"fmt"

	"craft-store/internal/dto"
	"craft-store/internal/model"
	"craft-store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrNotOwner rejects crafter mutations on products belonging to another
// storefront.
var ErrNotOwner = errors.New("product belongs to another crafter")

type CatalogService interface {
	ListProducts(ctx context.Context) ([]*model.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	CreateProduct(ctx context.Context, req *dto.ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, productID string, req *dto.ProductRequest, actor *ActorScope) (*model.Product, error)
	DeleteProduct(ctx context.Context, productID string, actor *ActorScope) error
	ListCrafters(ctx context.Context) ([]*model.Crafter, error)
	GetCrafterBySlug(ctx context.Context, slug string) (*model.Crafter, []*model.Product, error)
	CreateCrafter(ctx context.Context, req *dto.CrafterRequest) (*model.Crafter, error)
	CrafterForUser(ctx context.Context, userID string) (*model.Crafter, error)
}

// ActorScope limits a mutation to products of one crafter. A nil scope is
// an admin acting without restriction.
type ActorScope struct {
	CrafterID string
}

type catalogServiceImpl struct {
	productRepo repository.ProductRepository
	crafterRepo repository.CrafterRepository
}

func NewCatalogService(productRepo repository.ProductRepository, crafterRepo repository.CrafterRepository) CatalogService {
	return &catalogServiceImpl{
		productRepo: productRepo,
		crafterRepo: crafterRepo,
	}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *catalogServiceImpl) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return s.productRepo.FindBySlug(ctx, slug)
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, req *dto.ProductRequest) (*model.Product, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	var stock int32
	if req.Stock != nil {
		stock = *req.Stock
	}

	product := &model.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       price,
		Currency:    currency,
		Stock:       stock,
		CrafterID:   req.CrafterID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, productID string, req *dto.ProductRequest, actor *ActorScope) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if actor != nil && product.CrafterID != actor.CrafterID {
		return nil, ErrNotOwner
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Slug != "" {
		product.Slug = req.Slug
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Price != "" {
		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			return nil, fmt.Errorf("parse price: %w", err)
		}
		product.Price = price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, productID string, actor *ActorScope) error {
	if actor != nil {
		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if product.CrafterID != actor.CrafterID {
			return ErrNotOwner
		}
	}

	return s.productRepo.Delete(ctx, productID)
}

func (s *catalogServiceImpl) ListCrafters(ctx context.Context) ([]*model.Crafter, error) {
	return s.crafterRepo.FindAll(ctx)
}

func (s *catalogServiceImpl) GetCrafterBySlug(ctx context.Context, slug string) (*model.Crafter, []*model.Product, error) {
	crafter, err := s.crafterRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	products, err := s.productRepo.FindByCrafterID(ctx, crafter.ID)
	if err != nil {
		return nil, nil, err
	}

	return crafter, products, nil
}

func (s *catalogServiceImpl) CreateCrafter(ctx context.Context, req *dto.CrafterRequest) (*model.Crafter, error) {
	crafter := &model.Crafter{
		ID:     uuid.NewString(),
		Name:   req.Name,
		Slug:   req.Slug,
		Bio:    req.Bio,
		UserID: req.UserID,
	}
	if err := s.crafterRepo.Create(ctx, crafter); err != nil {
		return nil, fmt.Errorf("create crafter: %w", err)
	}

	return crafter, nil
}

func (s *catalogServiceImpl) CrafterForUser(ctx context.Context, userID string) (*model.Crafter, error) {
	crafter, err := s.crafterRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no crafter linked to user %s", userID)
		}
		return nil, err
	}

	return crafter, nil
}
