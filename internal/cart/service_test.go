package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/fjod/go_shop/internal/catalog"
	"github.com/fjod/go_shop/internal/domain"
	"github.com/fjod/go_shop/internal/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCatalog struct {
	m        sync.RWMutex
	products map[int64]*domain.Product
}

func (m *mockCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockCatalog) setPrice(id int64, price string) {
	m.m.Lock()
	defer m.m.Unlock()
	m.products[id].Price = decimal.RequireFromString(price)
}

func newFixture() (*Service, *mockCatalog, *session.Manager) {
	cat := &mockCatalog{products: map[int64]*domain.Product{
		1: {ID: 1, Name: "Wireless Mouse", Price: decimal.RequireFromString("24.99")},
		2: {ID: 2, Name: "Notebook", Price: decimal.RequireFromString("9.99")},
	}}
	sessions := session.NewManager(session.NewMemoryStore())
	return NewService(sessions, cat), cat, sessions
}

func TestAdd_SnapshotsProduct(t *testing.T) {
	svc, _, sessions := newFixture()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "s1", 1))

	sess, err := sessions.Load(ctx, "s1")
	require.NoError(t, err)
	require.Contains(t, sess.Cart, "1")
	line := sess.Cart["1"]
	assert.Equal(t, "Wireless Mouse", line.Name)
	assert.Equal(t, 1, line.Quantity)
	assert.True(t, line.UnitPrice.Equal(decimal.RequireFromString("24.99")))
}

func TestAdd_UnknownProduct(t *testing.T) {
	svc, _, sessions := newFixture()
	ctx := context.Background()

	err := svc.Add(ctx, "s1", 42)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)

	sess, err := sessions.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, sess.Cart.IsEmpty())
}

func TestAdd_TwiceKeepsOriginalSnapshot(t *testing.T) {
	svc, cat, sessions := newFixture()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "s1", 1))

	// The catalog price changes between the two adds.
	cat.setPrice(1, "99.99")
	require.NoError(t, svc.Add(ctx, "s1", 1))

	sess, err := sessions.Load(ctx, "s1")
	require.NoError(t, err)
	line := sess.Cart["1"]
	assert.Equal(t, 2, line.Quantity)
	assert.True(t, line.UnitPrice.Equal(decimal.RequireFromString("24.99")))
}

func TestIncrementDecrementRemove(t *testing.T) {
	svc, _, sessions := newFixture()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "s1", 1))
	require.NoError(t, svc.Increment(ctx, "s1", 1))
	require.NoError(t, svc.Decrement(ctx, "s1", 1))
	require.NoError(t, svc.Decrement(ctx, "s1", 1)) // clamps at 1

	sess, err := sessions.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Cart["1"].Quantity)

	require.NoError(t, svc.Remove(ctx, "s1", 1))
	require.NoError(t, svc.Remove(ctx, "s1", 1)) // idempotent

	sess, err = sessions.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, sess.Cart.IsEmpty())
}

func TestIncrement_UnknownProductIsNoop(t *testing.T) {
	svc, _, sessions := newFixture()
	ctx := context.Background()

	require.NoError(t, svc.Increment(ctx, "s1", 42))
	require.NoError(t, svc.Decrement(ctx, "s1", 42))

	sess, err := sessions.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, sess.Cart.IsEmpty())
}

func TestView_ComputesSubtotalsAndTotal(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "s1", 1))
	require.NoError(t, svc.Increment(ctx, "s1", 1))
	require.NoError(t, svc.Add(ctx, "s1", 2))

	view, err := svc.View(ctx, "s1")
	require.NoError(t, err)

	require.Len(t, view.Items, 2)
	assert.Equal(t, int64(1), view.Items[0].ProductID)
	assert.Equal(t, "49.98", view.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, int64(2), view.Items[1].ProductID)
	assert.Equal(t, "9.99", view.Items[1].Subtotal.StringFixed(2))
	assert.Equal(t, "59.97", view.Total.StringFixed(2))
	assert.Equal(t, 3, view.Count)
}

func TestView_SurvivesDeletedProduct(t *testing.T) {
	svc, cat, _ := newFixture()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "s1", 1))

	// Product disappears from the catalog after add-to-cart.
	cat.m.Lock()
	delete(cat.products, 1)
	cat.m.Unlock()

	view, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Wireless Mouse", view.Items[0].Name)
	assert.Equal(t, "24.99", view.Total.StringFixed(2))
}

func TestView_EmptyCart(t *testing.T) {
	svc, _, _ := newFixture()

	view, err := svc.View(context.Background(), "empty")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())
	assert.Zero(t, view.Count)
}

func TestAdd_ConcurrentDoubleClick(t *testing.T) {
	svc, _, sessions := newFixture()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.Add(ctx, "s1", 1))
		}()
	}
	wg.Wait()

	sess, err := sessions.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, sess.Cart["1"].Quantity, "no lost update on double add")
}
