package service

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartService defines the interface for shopping cart business logic
type CartService interface {
	AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error)
	RemoveFromCart(ctx context.Context, userID, productID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
	GetCart(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error)
	CartTotal(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// AddToCart adds quantity to the user's line for the product, creating the
// line on first add. There is no upper bound on quantity and no check that
// the product exists or is available.
func (s *cartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error) {
	item := &domain.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}

	return s.cartRepo.Upsert(ctx, item)
}

// RemoveFromCart deletes the matching line; absent lines are a no-op
func (s *cartService) RemoveFromCart(ctx context.Context, userID, productID uuid.UUID) error {
	return s.cartRepo.Remove(ctx, userID, productID)
}

// ClearCart deletes all lines for the user
func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.Clear(ctx, userID)
}

// GetCart lists the user's cart lines
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error) {
	return s.cartRepo.ListByUser(ctx, userID)
}

// CartTotal sums product.price * quantity over the current cart rows,
// re-fetching each product's live price. A line whose product no longer
// exists fails the whole total with repository.ErrProductNotFound.
func (s *cartService) CartTotal(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("product %s: %w", item.ProductID, err)
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return total, nil
}
