package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func TestCreateOrder_EmptyCart(t *testing.T) {
	cartRepo := newMockCartRepository()
	productRepo := newMockProductRepository()
	orderRepo := newMockOrderRepository(cartRepo)
	service := NewOrderService(orderRepo, cartRepo, productRepo)
	ctx := context.Background()

	_, err := service.CreateOrder(ctx, uuid.New())
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got: %v", err)
	}

	if len(orderRepo.orders) != 0 {
		t.Error("no order rows should exist after a failed creation")
	}
}

func TestProperty_OrderSnapshotsCart(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("order total matches the cart, lines carry unit prices, and the cart is cleared", prop.ForAll(
		func(priceCents []int64, quantities []int) bool {
			cartRepo := newMockCartRepository()
			productRepo := newMockProductRepository()
			orderRepo := newMockOrderRepository(cartRepo)
			cartService := NewCartService(cartRepo, productRepo)
			productService := NewProductService(productRepo)
			orderService := NewOrderService(orderRepo, cartRepo, productRepo)
			ctx := context.Background()

			userID := uuid.New()
			n := len(priceCents)
			if len(quantities) < n {
				n = len(quantities)
			}
			if n == 0 {
				return true
			}

			unitPrices := make(map[uuid.UUID]decimal.Decimal, n)
			lineQty := make(map[uuid.UUID]int, n)
			for i := 0; i < n; i++ {
				price := decimal.NewFromInt(priceCents[i]).Div(decimal.NewFromInt(100))
				product, err := productService.CreateProduct(ctx, "item", nil, price, nil)
				if err != nil {
					t.Logf("FAIL: CreateProduct failed: %v", err)
					return false
				}
				if _, err := cartService.AddToCart(ctx, userID, product.ID, quantities[i]); err != nil {
					t.Logf("FAIL: AddToCart failed: %v", err)
					return false
				}
				unitPrices[product.ID] = price
				lineQty[product.ID] = quantities[i]
			}

			expectedTotal, err := cartService.CartTotal(ctx, userID)
			if err != nil {
				t.Logf("FAIL: CartTotal failed: %v", err)
				return false
			}

			order, err := orderService.CreateOrder(ctx, userID)
			if err != nil {
				t.Logf("FAIL: CreateOrder failed: %v", err)
				return false
			}

			if order.Status != domain.OrderStatusPending {
				t.Logf("FAIL: Expected pending status, got %q", order.Status)
				return false
			}

			if !order.TotalPrice.Equal(expectedTotal) {
				t.Logf("FAIL: Expected total %s, got %s", expectedTotal, order.TotalPrice)
				return false
			}

			// One order line per cart line, each carrying the product's unit
			// price, not the quantity
			_, items, err := orderService.GetOrderDetails(ctx, order.ID)
			if err != nil {
				t.Logf("FAIL: GetOrderDetails failed: %v", err)
				return false
			}
			if len(items) != n {
				t.Logf("FAIL: Expected %d order lines, got %d", n, len(items))
				return false
			}
			for _, item := range items {
				if !item.Price.Equal(unitPrices[item.ProductID]) {
					t.Logf("FAIL: Line price %s does not match unit price %s", item.Price, unitPrices[item.ProductID])
					return false
				}
				if item.Quantity != lineQty[item.ProductID] {
					t.Logf("FAIL: Line quantity %d does not match cart quantity %d", item.Quantity, lineQty[item.ProductID])
					return false
				}
			}

			// The cart is empty once the order exists
			cart, err := cartService.GetCart(ctx, userID)
			if err != nil {
				t.Logf("FAIL: GetCart failed: %v", err)
				return false
			}
			if len(cart) != 0 {
				t.Logf("FAIL: Expected empty cart after order, got %d lines", len(cart))
				return false
			}

			return true
		},
		gen.SliceOfN(4, gen.Int64Range(1, 10_000_00)),
		gen.SliceOfN(4, gen.IntRange(1, 20)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestGetOrderHistory_OnlyOwnOrders(t *testing.T) {
	cartRepo := newMockCartRepository()
	productRepo := newMockProductRepository()
	orderRepo := newMockOrderRepository(cartRepo)
	cartService := NewCartService(cartRepo, productRepo)
	productService := NewProductService(productRepo)
	orderService := NewOrderService(orderRepo, cartRepo, productRepo)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()

	product, err := productService.CreateProduct(ctx, "Desk lamp", nil, decimal.NewFromFloat(24.99), nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for _, userID := range []uuid.UUID{alice, alice, bob} {
		if _, err := cartService.AddToCart(ctx, userID, product.ID, 1); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if _, err := orderService.CreateOrder(ctx, userID); err != nil {
			t.Fatalf("order failed: %v", err)
		}
	}

	orders, err := orderService.GetOrderHistory(ctx, alice)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("expected 2 orders for alice, got %d", len(orders))
	}
	for _, order := range orders {
		if order.UserID != alice {
			t.Errorf("history leaked another user's order %s", order.ID)
		}
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	cartRepo := newMockCartRepository()
	productRepo := newMockProductRepository()
	orderRepo := newMockOrderRepository(cartRepo)
	cartService := NewCartService(cartRepo, productRepo)
	productService := NewProductService(productRepo)
	orderService := NewOrderService(orderRepo, cartRepo, productRepo)
	ctx := context.Background()

	userID := uuid.New()
	product, err := productService.CreateProduct(ctx, "Desk lamp", nil, decimal.NewFromFloat(24.99), nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := cartService.AddToCart(ctx, userID, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	order, err := orderService.CreateOrder(ctx, userID)
	if err != nil {
		t.Fatalf("order failed: %v", err)
	}

	if err := orderService.UpdateOrderStatus(ctx, order.ID, "shipped"); err != nil {
		t.Fatalf("status update failed: %v", err)
	}

	updated, _, err := orderService.GetOrderDetails(ctx, order.ID)
	if err != nil {
		t.Fatalf("details failed: %v", err)
	}
	if updated.Status != "shipped" {
		t.Errorf("expected status shipped, got %q", updated.Status)
	}
}
