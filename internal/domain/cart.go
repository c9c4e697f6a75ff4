package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// CartLine is one product's entry in a session cart. Name and UnitPrice are
// snapshots taken at add-to-cart time; later catalog changes do not affect
// lines already in the cart.
type CartLine struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"qty"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart maps a product id (in decimal text form) to its line.
// A line's quantity is always >= 1 while the line exists.
type Cart map[string]CartLine

func cartKey(productID int64) string {
	return strconv.FormatInt(productID, 10)
}

// Add inserts a new line with quantity 1, snapshotting the product's current
// name and price, or increments the quantity of an existing line.
func (c Cart) Add(p *Product) {
	key := cartKey(p.ID)
	if line, ok := c[key]; ok {
		line.Quantity++
		c[key] = line
		return
	}
	c[key] = CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  1,
	}
}

// Increment bumps the quantity of an existing line. Returns false if the
// product is not in the cart.
func (c Cart) Increment(productID int64) bool {
	key := cartKey(productID)
	line, ok := c[key]
	if !ok {
		return false
	}
	line.Quantity++
	c[key] = line
	return true
}

// Decrement lowers the quantity of an existing line, clamping at 1. It never
// removes the line; removal is an explicit operation. Returns false if the
// product is not in the cart.
func (c Cart) Decrement(productID int64) bool {
	key := cartKey(productID)
	line, ok := c[key]
	if !ok {
		return false
	}
	if line.Quantity > 1 {
		line.Quantity--
		c[key] = line
	}
	return true
}

// Remove deletes the line if present. Idempotent.
func (c Cart) Remove(productID int64) {
	delete(c, cartKey(productID))
}

// Total sums UnitPrice*Quantity over all lines in fixed-point decimal
// arithmetic. No float conversion happens anywhere on this path.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Count is the total number of units across all lines.
func (c Cart) Count() int {
	n := 0
	for _, line := range c {
		n += line.Quantity
	}
	return n
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

func (c Cart) Clone() Cart {
	clone := make(Cart, len(c))
	for k, v := range c {
		clone[k] = v
	}
	return clone
}
