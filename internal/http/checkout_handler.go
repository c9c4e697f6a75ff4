package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/fjod/go_shop/internal/checkout"
	"github.com/fjod/go_shop/internal/domain"
	"github.com/fjod/go_shop/internal/order"
)

type CheckoutService interface {
	Checkout(ctx context.Context, sessionID string, userID int64) (*domain.Order, error)
}

type CheckoutHandler struct {
	checkout CheckoutService
}

func NewCheckoutHandler(checkout CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	created, err := h.checkout.Checkout(r.Context(), getSessionID(r.Context()), getUserID(r.Context()))

	switch {
	case err == nil:
		respondJSON(w, http.StatusCreated, created)
	case errors.Is(err, checkout.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "unauthenticated", "log in to check out")
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", "cart is empty")
	case errors.Is(err, order.ErrProductNotFound):
		respondError(w, http.StatusConflict, "product_gone", "a product in the cart no longer exists")
	default:
		log.Printf("checkout failed: %v", err)
		respondError(w, http.StatusInternalServerError, "checkout_failed", "could not complete checkout, please retry")
	}
}
