package session

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/go_shop/internal/domain"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the per-client state: the cart and, once logged in, the owning
// user. A UserID of zero means anonymous.
type Session struct {
	ID        string      `json:"id"`
	UserID    int64       `json:"user_id,omitempty"`
	Cart      domain.Cart `json:"cart"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func New(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		Cart:      domain.Cart{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Store is opaque get/put persistence keyed by session id.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
}
