package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/fjod/go_shop/internal/domain"
	"github.com/fjod/go_shop/internal/order"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type OrderReader interface {
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
}

type OrderHandler struct {
	orders OrderReader
}

func NewOrderHandler(orders OrderReader) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "log in to view orders")
		return
	}

	orders, err := h.orders.ListOrdersByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "orders_unavailable", "could not list orders")
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "log in to view orders")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a uuid")
		return
	}

	o, err := h.orders.GetOrderByID(r.Context(), id)
	if errors.Is(err, order.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "order_not_found", "no such order")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "orders_unavailable", "could not fetch order")
		return
	}

	// Orders are visible to their owner only.
	if o.UserID != userID {
		respondError(w, http.StatusNotFound, "order_not_found", "no such order")
		return
	}

	respondJSON(w, http.StatusOK, o)
}
