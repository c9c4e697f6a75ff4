package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fjod/go_shop/internal/domain"
	"github.com/fjod/go_shop/internal/order"
	"github.com/fjod/go_shop/internal/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockOrders struct {
	m       sync.Mutex
	created []*domain.Order
	err     error
}

func (m *mockOrders) CreateOrder(_ context.Context, o *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, o)
	return nil
}

func (m *mockOrders) count() int {
	m.m.Lock()
	defer m.m.Unlock()
	return len(m.created)
}

func product(id int64, name, price string) *domain.Product {
	return &domain.Product{ID: id, Name: name, Price: decimal.RequireFromString(price)}
}

func fillCart(t *testing.T, sessions *session.Manager, sessionID string, fill func(domain.Cart)) {
	t.Helper()
	require.NoError(t, sessions.Update(context.Background(), sessionID, func(sess *session.Session) error {
		fill(sess.Cart)
		return nil
	}))
}

func TestCheckout_Success(t *testing.T) {
	sessions := session.NewManager(session.NewMemoryStore())
	orders := &mockOrders{}
	svc := NewService(sessions, orders)
	ctx := context.Background()

	fillCart(t, sessions, "s1", func(c domain.Cart) {
		c.Add(product(1, "Wireless Mouse", "24.99"))
		c.Increment(1)
		c.Add(product(2, "Notebook", "9.99"))
	})

	created, err := svc.Checkout(ctx, "s1", 7)
	require.NoError(t, err)

	require.Equal(t, 1, orders.count())
	assert.Equal(t, int64(7), created.UserID)
	assert.Equal(t, "59.97", created.Total.StringFixed(2))

	require.Len(t, created.Items, 2)
	assert.Equal(t, int64(1), created.Items[0].ProductID)
	assert.Equal(t, 2, created.Items[0].Quantity)
	assert.Equal(t, "24.99", created.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, int64(2), created.Items[1].ProductID)
	assert.Equal(t, 1, created.Items[1].Quantity)
	assert.Equal(t, "9.99", created.Items[1].UnitPrice.StringFixed(2))

	// The session cart is empty after a successful checkout.
	sess, err := sessions.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, sess.Cart.IsEmpty())
}

func TestCheckout_TotalEqualsSumOfItems(t *testing.T) {
	sessions := session.NewManager(session.NewMemoryStore())
	orders := &mockOrders{}
	svc := NewService(sessions, orders)

	fillCart(t, sessions, "s1", func(c domain.Cart) {
		for i := int64(1); i <= 37; i++ {
			c.Add(product(i, "Item", "0.10"))
			c.Increment(i)
			c.Increment(i)
		}
	})

	created, err := svc.Checkout(context.Background(), "s1", 1)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, item := range created.Items {
		sum = sum.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	assert.True(t, created.Total.Equal(sum))
	assert.Equal(t, "11.10", created.Total.StringFixed(2))
}

func TestCheckout_EmptyCartDeclines(t *testing.T) {
	sessions := session.NewManager(session.NewMemoryStore())
	orders := &mockOrders{}
	svc := NewService(sessions, orders)

	_, err := svc.Checkout(context.Background(), "s1", 7)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, orders.count())
}

func TestCheckout_AnonymousDeclines(t *testing.T) {
	sessions := session.NewManager(session.NewMemoryStore())
	orders := &mockOrders{}
	svc := NewService(sessions, orders)

	fillCart(t, sessions, "s1", func(c domain.Cart) {
		c.Add(product(1, "Wireless Mouse", "24.99"))
	})

	_, err := svc.Checkout(context.Background(), "s1", 0)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Zero(t, orders.count())
}

func TestCheckout_PersistenceFailureLeavesCartIntact(t *testing.T) {
	sessions := session.NewManager(session.NewMemoryStore())
	orders := &mockOrders{err: errors.New("connection reset")}
	svc := NewService(sessions, orders)
	ctx := context.Background()

	fillCart(t, sessions, "s1", func(c domain.Cart) {
		c.Add(product(1, "Wireless Mouse", "24.99"))
	})

	_, err := svc.Checkout(ctx, "s1", 7)
	require.Error(t, err)
	assert.Zero(t, orders.count())

	// The cart is unchanged so the user can retry.
	sess, err := sessions.Load(ctx, "s1")
	require.NoError(t, err)
	require.Contains(t, sess.Cart, "1")
	assert.Equal(t, 1, sess.Cart["1"].Quantity)
}

func TestCheckout_DeletedProductAborts(t *testing.T) {
	sessions := session.NewManager(session.NewMemoryStore())
	orders := &mockOrders{err: order.ErrProductNotFound}
	svc := NewService(sessions, orders)
	ctx := context.Background()

	fillCart(t, sessions, "s1", func(c domain.Cart) {
		c.Add(product(1, "Wireless Mouse", "24.99"))
		c.Add(product(2, "Notebook", "9.99"))
	})

	_, err := svc.Checkout(ctx, "s1", 7)
	assert.ErrorIs(t, err, order.ErrProductNotFound)
	assert.Zero(t, orders.count())

	sess, err := sessions.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, sess.Cart, 2, "cart unchanged after aborted checkout")
}

func TestCheckout_ConcurrentDoubleSubmit(t *testing.T) {
	sessions := session.NewManager(session.NewMemoryStore())
	orders := &mockOrders{}
	svc := NewService(sessions, orders)
	ctx := context.Background()

	fillCart(t, sessions, "s1", func(c domain.Cart) {
		c.Add(product(1, "Wireless Mouse", "24.99"))
	})

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Checkout(ctx, "s1", 7)
		}(i)
	}
	wg.Wait()

	// Exactly one checkout succeeds; the other sees an emptied cart.
	assert.Equal(t, 1, orders.count())
	var declines int
	for _, err := range results {
		if errors.Is(err, ErrEmptyCart) {
			declines++
		}
	}
	assert.Equal(t, 1, declines)
}
