package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart = errors.New("cart is empty, cannot create order")
)

// OrderService defines the interface for order business logic
type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID) (*domain.Order, error)
	GetOrderDetails(ctx context.Context, orderID uuid.UUID) (*domain.Order, []*domain.OrderItem, error)
	GetOrderHistory(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// CreateOrder converts the user's cart snapshot into an order. Line prices
// are the products' live unit prices at creation time. The order insert,
// item inserts, and cart clearing commit or roll back as one transaction.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID) (*domain.Order, error) {
	cartItems, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	order := &domain.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	total := decimal.Zero
	items := make([]*domain.OrderItem, 0, len(cartItems))
	for _, cartItem := range cartItems {
		product, err := s.productRepo.FindByID(ctx, cartItem.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", cartItem.ProductID, err)
		}

		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(cartItem.Quantity))))
		items = append(items, &domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: cartItem.ProductID,
			Quantity:  cartItem.Quantity,
			Price:     product.Price,
		})
	}
	order.TotalPrice = total

	if err := s.orderRepo.CreateFromCart(ctx, order, items); err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrderDetails retrieves an order header and its lines
func (s *orderService) GetOrderDetails(ctx context.Context, orderID uuid.UUID) (*domain.Order, []*domain.OrderItem, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.orderRepo.ListItems(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

// GetOrderHistory retrieves a user's orders
func (s *orderService) GetOrderHistory(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// UpdateOrderStatus sets the order status. Status is free text here,
// unlike the product enumeration.
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	return s.orderRepo.UpdateStatus(ctx, orderID, status)
}
