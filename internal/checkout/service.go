// Package checkout reconciles a session cart into durable order records:
// it validates the cart, recomputes the total in fixed-point decimal, writes
// the order atomically and clears the cart only after the write commits.
package checkout

import (
	"context"
	"fmt"
	"log"

	"github.com/fjod/go_shop/internal/domain"
	"github.com/fjod/go_shop/internal/session"
)

// OrderCreator persists an order with its items as a single atomic unit.
// Satisfied by order.Repository.
type OrderCreator interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
}

type Service struct {
	sessions *session.Manager
	orders   OrderCreator
}

func NewService(sessions *session.Manager, orders OrderCreator) *Service {
	return &Service{
		sessions: sessions,
		orders:   orders,
	}
}

// Checkout converts the session's cart into one Order plus its items.
//
// The session lock is held from reading the cart until it is cleared, so two
// concurrent checkouts from one session serialize: the second observes the
// emptied cart and declines with ErrEmptyCart instead of double-charging.
// On any persistence failure nothing is committed and the cart is left
// unchanged so the user can retry.
func (s *Service) Checkout(ctx context.Context, sessionID string, userID int64) (*domain.Order, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	var created *domain.Order
	err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		if sess.Cart.IsEmpty() {
			return ErrEmptyCart
		}

		order := domain.NewOrderFromCart(userID, sess.Cart)
		if errCreate := s.orders.CreateOrder(ctx, order); errCreate != nil {
			return fmt.Errorf("persist order: %w", errCreate)
		}

		// Order is durable at this point; the cart clears inside the same
		// locked update that read it.
		sess.Cart = domain.Cart{}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("checkout complete order_id=%v user_id=%d total=%s items=%d",
		created.ID, userID, created.Total.StringFixed(2), len(created.Items))
	return created, nil
}
