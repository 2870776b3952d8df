package service

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductStatus = errors.New("product status must be one of: available, reserved, sold")
)

// ProductService defines the interface for catalog business logic
type ProductService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	CreateProduct(ctx context.Context, name string, description *string, price decimal.Decimal, status *string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error)
	UpdateProductStatus(ctx context.Context, id uuid.UUID, status string) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// ListProducts retrieves the whole catalog
func (s *productService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.List(ctx)
}

// GetProduct retrieves one product
func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// CreateProduct creates a product. The status defaults to "available"
// and anything outside the enumeration is rejected.
func (s *productService) CreateProduct(ctx context.Context, name string, description *string, price decimal.Decimal, status *string) (*domain.Product, error) {
	productStatus := domain.ProductStatusAvailable
	if status != nil {
		productStatus = domain.ProductStatus(*status)
		if !productStatus.IsValid() {
			return nil, ErrInvalidProductStatus
		}
	}

	product := &domain.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Price:       price,
		Status:      productStatus,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct applies a partial update; only supplied fields change
func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.IsEmpty() {
		return s.productRepo.FindByID(ctx, id)
	}
	return s.productRepo.Patch(ctx, id, patch)
}

// UpdateProductStatus sets the status after enumeration validation
func (s *productService) UpdateProductStatus(ctx context.Context, id uuid.UUID, status string) error {
	productStatus := domain.ProductStatus(status)
	if !productStatus.IsValid() {
		return ErrInvalidProductStatus
	}
	return s.productRepo.UpdateStatus(ctx, id, productStatus)
}

// DeleteProduct removes a product
func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}
