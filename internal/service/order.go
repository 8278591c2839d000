package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"craft-store/internal/cache"
	"craft-store/internal/client"
	"craft-store/internal/dto"
	"craft-store/internal/model"
	"craft-store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrNotOrderOwner      = errors.New("order belongs to another user")
	ErrProductUnavailable = errors.New("a cart item is no longer available")
)

type OrderService interface {
	// Checkout turns the user's cart into an unpaid order. The PayPal order
	// id returned by the provider is stored as the payment reference the
	// webhook locator later matches on.
	Checkout(ctx context.Context, userID string) (*dto.CheckoutResponse, error)
	// CaptureApprovedOrder captures a provider order the buyer just
	// approved. Marking the local order paid stays with the webhook
	// reconciliation; capture only triggers the provider-side event.
	CaptureApprovedOrder(ctx context.Context, providerOrderID string) error
	GetOrder(ctx context.Context, orderID, userID string, isAdmin bool) (*model.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]*model.Order, error)
	ListAllOrders(ctx context.Context) ([]*model.Order, error)
	MarkDelivered(ctx context.Context, orderID string) error
}

type orderServiceImpl struct {
	db             *gorm.DB
	paypalClient   client.PaypalClient
	serviceBaseUrl string
	orderRepo      repository.OrderRepository
	cartRepo       repository.CartRepository
	productRepo    repository.ProductRepository
	orderCache     *cache.OrderViewCache
}

func NewOrderService(
	db *gorm.DB,
	paypalClient client.PaypalClient,
	serviceBaseUrl string,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderCache *cache.OrderViewCache,
) OrderService {
	return &orderServiceImpl{
		db:             db,
		paypalClient:   paypalClient,
		serviceBaseUrl: serviceBaseUrl,
		orderRepo:      orderRepo,
		cartRepo:       cartRepo,
		productRepo:    productRepo,
		orderCache:     orderCache,
	}
}

func (s *orderServiceImpl) Checkout(ctx context.Context, userID string) (*dto.CheckoutResponse, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// items may have been removed from the catalog since they were carted
	productIDs := make([]string, len(cart.Items))
	for i, item := range cart.Items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("revalidate cart products: %w", err)
	}
	if len(products) != len(cart.Items) {
		return nil, ErrProductUnavailable
	}

	itemsPrice := decimal.Zero
	for _, item := range cart.Items {
		itemsPrice = itemsPrice.Add(item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	totalPrice := itemsPrice

	resp, err := s.paypalClient.CreateOrderForApproval(ctx, totalPrice.StringFixed(2), "USD", s.serviceBaseUrl)
	if err != nil {
		return nil, fmt.Errorf("paypal api create order: %w", err)
	}

	orderID := uuid.NewString()
	orderItems := make([]*model.OrderItem, len(cart.Items))
	for i, item := range cart.Items {
		orderItems[i] = &model.OrderItem{
			OrderID:   orderID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := s.orderRepo.Create(ctx, tx, &model.Order{
			ID:            orderID,
			UserID:        userID,
			ItemsPrice:    itemsPrice,
			TotalPrice:    totalPrice,
			Currency:      "USD",
			PaymentMethod: "paypal",
			PaymentResult: model.PaymentResult{
				PaymentID: resp.OrderID,
			},
		})
		if err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}

		if err := s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
			return fmt.Errorf("store order items in db: %w", err)
		}

		return s.cartRepo.Clear(ctx, tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return &dto.CheckoutResponse{
		OrderID:          orderID,
		OrderApprovalURL: resp.ApproveURL,
	}, nil
}

func (s *orderServiceImpl) CaptureApprovedOrder(ctx context.Context, providerOrderID string) error {
	if err := s.paypalClient.CaptureOrder(ctx, providerOrderID); err != nil {
		return fmt.Errorf("paypal api capture order: %w", err)
	}
	return nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID, userID string, isAdmin bool) (*model.Order, error) {
	if order, ok := s.orderCache.Get(orderID); ok {
		if order.UserID != userID && !isAdmin {
			return nil, ErrNotOrderOwner
		}
		return order, nil
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID && !isAdmin {
		return nil, ErrNotOrderOwner
	}

	s.orderCache.Set(order)
	return order, nil
}

func (s *orderServiceImpl) ListUserOrders(ctx context.Context, userID string) ([]*model.Order, error) {
	return s.orderRepo.FindByUserID(ctx, userID)
}

func (s *orderServiceImpl) ListAllOrders(ctx context.Context) ([]*model.Order, error) {
	return s.orderRepo.FindAll(ctx)
}

func (s *orderServiceImpl) MarkDelivered(ctx context.Context, orderID string) error {
	if err := s.orderRepo.MarkDelivered(ctx, orderID, time.Now()); err != nil {
		return err
	}

	s.orderCache.Invalidate(orderID)
	return nil
}
