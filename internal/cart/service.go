package cart

import (
	"context"
	"sort"

	"github.com/fjod/go_shop/internal/domain"
	"github.com/fjod/go_shop/internal/session"
	"github.com/shopspring/decimal"
)

// Catalog is the product lookup the mutator needs. Satisfied by
// catalog.Service.
type Catalog interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

// Service mutates and reads the session-held cart. Every mutation runs under
// the session manager's per-session lock so concurrent requests from one
// session cannot lose updates.
type Service struct {
	sessions *session.Manager
	catalog  Catalog
}

func NewService(sessions *session.Manager, catalog Catalog) *Service {
	return &Service{
		sessions: sessions,
		catalog:  catalog,
	}
}

// Add resolves the product and inserts a snapshot line (or increments an
// existing one). Fails with catalog.ErrProductNotFound for unknown ids.
func (s *Service) Add(ctx context.Context, sessionID string, productID int64) error {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	return s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.Cart.Add(p)
		return nil
	})
}

// Increment bumps an existing line's quantity. Unknown products are a no-op,
// matching the storefront's update-cart semantics.
func (s *Service) Increment(ctx context.Context, sessionID string, productID int64) error {
	return s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.Cart.Increment(productID)
		return nil
	})
}

// Decrement lowers an existing line's quantity, clamping at 1. Unknown
// products are a no-op.
func (s *Service) Decrement(ctx context.Context, sessionID string, productID int64) error {
	return s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.Cart.Decrement(productID)
		return nil
	})
}

// Remove deletes the line regardless of quantity. Idempotent.
func (s *Service) Remove(ctx context.Context, sessionID string, productID int64) error {
	return s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.Cart.Remove(productID)
		return nil
	})
}

type ViewItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"qty"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type View struct {
	Items []ViewItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// View renders the cart from its snapshots alone. No live catalog lookup
// happens here: a product deleted since add-to-cart must never break the
// cart page.
func (s *Service) View(ctx context.Context, sessionID string) (*View, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	view := &View{
		Items: make([]ViewItem, 0, len(sess.Cart)),
		Total: decimal.Zero,
	}
	for _, line := range sess.Cart {
		subtotal := line.Subtotal()
		view.Items = append(view.Items, ViewItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Subtotal:  subtotal,
		})
		view.Total = view.Total.Add(subtotal)
		view.Count += line.Quantity
	}
	sort.Slice(view.Items, func(i, j int) bool { return view.Items[i].ProductID < view.Items[j].ProductID })

	return view, nil
}
