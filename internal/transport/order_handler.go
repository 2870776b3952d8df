package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderDetailsResponse pairs an order header with its lines
type OrderDetailsResponse struct {
	Order *domain.Order       `json:"order"`
	Items []*domain.OrderItem `json:"items"`
}

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes. The {id} parameter is a user
// id on create/history and an order id on details/status; create/history
// take requireSelf (built over "id"), while details/status verify order
// ownership in the handler after loading the order.
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, requireSelf func(http.Handler) http.Handler) {
	r.Route("/orders/{id}", func(r chi.Router) {
		r.Use(authMiddleware)
		r.With(requireSelf).Post("/create", h.Create)
		r.With(requireSelf).Get("/history", h.History)
		r.Get("/details", h.Details)
		r.Put("/status", h.UpdateStatus)
	})
}

// Create converts the user's cart into an order
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			middleware.RespondWithError(w, http.StatusBadRequest, middleware.ErrCodeValidation, err.Error())
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, middleware.ErrCodeNotFound, "a product in the cart no longer exists")
		default:
			h.logger.Error("Failed to create order", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, middleware.ErrCodeDatabase, "failed to create order")
		}
		return
	}

	h.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", order.UserID.String()),
		zap.String("total_price", order.TotalPrice.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// Details returns an order header with its lines. Only the order's owner
// may read it.
func (h *OrderHandler) Details(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	order, items, err := h.orderService.GetOrderDetails(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, middleware.ErrCodeNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to get order details", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, middleware.ErrCodeDatabase, "failed to get order details")
		return
	}

	if !h.ownsOrder(w, r, order) {
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, OrderDetailsResponse{Order: order, Items: items})
}

// History returns the user's orders
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	orders, err := h.orderService.GetOrderHistory(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get order history", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, middleware.ErrCodeDatabase, "failed to get order history")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// UpdateStatus sets an order's status. The body is a bare JSON string,
// e.g. "shipped". Only the order's owner may change it.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var status string
	if err := json.NewDecoder(r.Body).Decode(&status); err != nil || status == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.ErrCodeValidation, "request body must be a JSON status string")
		return
	}

	order, _, err := h.orderService.GetOrderDetails(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, middleware.ErrCodeNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to load order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, middleware.ErrCodeDatabase, "failed to update order status")
		return
	}

	if !h.ownsOrder(w, r, order) {
		return
	}

	if err := h.orderService.UpdateOrderStatus(r.Context(), orderID, status); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, middleware.ErrCodeNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to update order status", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, middleware.ErrCodeDatabase, "failed to update order status")
		return
	}

	h.logger.Info("Order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("status", status),
	)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "order status updated"})
}

// ownsOrder rejects requests whose token subject is not the order's owner
func (h *OrderHandler) ownsOrder(w http.ResponseWriter, r *http.Request, order *domain.Order) bool {
	subject, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, middleware.ErrCodeAuthentication, "unauthorized")
		return false
	}

	if subject != order.UserID.String() {
		h.logger.Warn("Token subject attempted to access another user's order",
			zap.String("subject", subject),
			zap.String("order_id", order.ID.String()),
		)
		middleware.RespondWithError(w, http.StatusForbidden, middleware.ErrCodeAuthentication, "insufficient permissions")
		return false
	}

	return true
}
