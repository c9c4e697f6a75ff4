package session

import (
	"context"
	"errors"
	"sync"
)

// Manager serializes access to each session so that a cart mutation is one
// read-modify-write unit. Two concurrent requests for the same session id
// (a double-clicked add-to-cart, a double-submitted checkout) take the same
// lock and cannot lose updates.
type Manager struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

func (m *Manager) lockFor(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

// Load returns the session, creating and persisting a fresh one if the store
// has no entry for this id.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	l := m.lockFor(id)
	l.Lock()
	defer l.Unlock()

	sess, err := m.store.Get(ctx, id)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}

	sess = New(id)
	if errPut := m.store.Put(ctx, sess); errPut != nil {
		return nil, errPut
	}
	return sess, nil
}

// Update runs fn against the current session state under the session's lock
// and persists the result. If fn returns an error nothing is written and the
// stored session is unchanged.
func (m *Manager) Update(ctx context.Context, id string, fn func(*Session) error) error {
	l := m.lockFor(id)
	l.Lock()
	defer l.Unlock()

	sess, err := m.store.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		sess = New(id)
	} else if err != nil {
		return err
	}

	if errFn := fn(sess); errFn != nil {
		return errFn
	}

	return m.store.Put(ctx, sess)
}

// Destroy removes the session entirely (logout).
func (m *Manager) Destroy(ctx context.Context, id string) error {
	l := m.lockFor(id)
	l.Lock()
	defer l.Unlock()
	return m.store.Delete(ctx, id)
}
