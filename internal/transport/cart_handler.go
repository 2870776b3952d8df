package transport

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AddToCartRequest represents the add-to-cart payload
type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// CartTotalResponse carries the computed cart total
type CartTotalResponse struct {
	TotalPrice decimal.Decimal `json:"total_price"`
}

// CartHandler handles HTTP requests for the shopping cart
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes. Every route carries a user_id
// path parameter, so the whole group sits behind auth plus the ownership
// check binding the token subject to that parameter (requireSelf built
// over "user_id").
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware, requireSelf func(http.Handler) http.Handler) {
	r.Route("/cart/{user_id}", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(requireSelf)
		r.Post("/add", h.Add)
		r.Delete("/remove/{product_id}", h.Remove)
		r.Delete("/clear", h.Clear)
		r.Get("/", h.List)
		r.Get("/total", h.Total)
	})
}

// Add handles adding a product to the cart
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(w, r, "user_id")
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Cart add validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, middleware.ErrCodeValidation, "invalid request body")
		return
	}

	item, err := h.cartService.AddToCart(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		h.logger.Error("Failed to add to cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, middleware.ErrCodeDatabase, "failed to add to cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// Remove handles deleting one cart line
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(w, r, "user_id")
	if !ok {
		return
	}
	productID, ok := parseIDParam(w, r, "product_id")
	if !ok {
		return
	}

	if err := h.cartService.RemoveFromCart(r.Context(), userID, productID); err != nil {
		h.logger.Error("Failed to remove from cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, middleware.ErrCodeDatabase, "failed to remove from cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "item removed from cart"})
}

// Clear handles emptying the cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(w, r, "user_id")
	if !ok {
		return
	}

	if err := h.cartService.ClearCart(r.Context(), userID); err != nil {
		h.logger.Error("Failed to clear cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, middleware.ErrCodeDatabase, "failed to clear cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

// List handles listing the cart contents
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(w, r, "user_id")
	if !ok {
		return
	}

	items, err := h.cartService.GetCart(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, middleware.ErrCodeDatabase, "failed to list cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// Total handles computing the cart total from live product prices
func (h *CartHandler) Total(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(w, r, "user_id")
	if !ok {
		return
	}

	total, err := h.cartService.CartTotal(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, middleware.ErrCodeNotFound, "a product in the cart no longer exists")
			return
		}
		h.logger.Error("Failed to compute cart total", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, middleware.ErrCodeDatabase, "failed to compute cart total")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CartTotalResponse{TotalPrice: total})
}
