package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/fjod/go_shop/internal/cart"
	"github.com/fjod/go_shop/internal/catalog"
	"github.com/go-chi/chi/v5"
)

type CartService interface {
	Add(ctx context.Context, sessionID string, productID int64) error
	Increment(ctx context.Context, sessionID string, productID int64) error
	Decrement(ctx context.Context, sessionID string, productID int64) error
	Remove(ctx context.Context, sessionID string, productID int64) error
	View(ctx context.Context, sessionID string) (*cart.View, error)
}

type CartHandler struct {
	cart CartService
}

func NewCartHandler(cart CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.cart.View(r.Context(), getSessionID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not load cart")
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	err := h.cart.Add(r.Context(), getSessionID(r.Context()), productID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "product_not_found", "no such product")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not update cart")
		return
	}

	h.respondWithView(w, r)
}

func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.cart.Increment)
}

func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.cart.Decrement)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.cart.Remove)
}

func (h *CartHandler) mutate(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, sessionID string, productID int64) error) {

	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	if err := op(r.Context(), getSessionID(r.Context()), productID); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not update cart")
		return
	}

	h.respondWithView(w, r)
}

func (h *CartHandler) respondWithView(w http.ResponseWriter, r *http.Request) {
	view, err := h.cart.View(r.Context(), getSessionID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not load cart")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func parseProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return 0, false
	}
	return id, true
}
