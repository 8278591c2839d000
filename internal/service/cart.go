package service

import (
	"context"
	"fmt"

	"craft-store/internal/model"
	"craft-store/internal/repository"
)

type CartService interface {
	GetCart(ctx context.Context, userID string) (*model.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int32) (*model.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*model.Cart, error)
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*model.Cart, error) {
	return s.cartRepo.GetOrCreate(ctx, userID)
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID, productID string, quantity int32) (*model.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("item quantity must be positive")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.cartRepo.UpsertItem(ctx, &model.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Name:      product.Name,
		Quantity:  quantity,
		UnitPrice: product.Price,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}

	return s.cartRepo.GetOrCreate(ctx, userID)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, productID string) (*model.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.RemoveItem(ctx, cart.ID, productID); err != nil {
		return nil, fmt.Errorf("remove cart item: %w", err)
	}

	return s.cartRepo.GetOrCreate(ctx, userID)
}
