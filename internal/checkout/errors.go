package checkout

import "errors"

var (
	// ErrEmptyCart is a decline, not a failure: the caller redirects to an
	// empty-cart view and nothing is persisted.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

	ErrUnauthenticated = errors.New("checkout requires an authenticated user")
)
