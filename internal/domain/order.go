package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"product_name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

type Order struct {
	ID        uuid.UUID       `json:"id"`
	UserID    int64           `json:"user_id"`
	Total     decimal.Decimal `json:"total"`
	Items     []OrderItem     `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewOrderFromCart assembles an order from the cart's snapshot lines. The
// total equals the sum of item subtotals by construction. Items are ordered
// by product id so the result is deterministic.
func NewOrderFromCart(userID int64, cart Cart) *Order {
	items := make([]OrderItem, 0, len(cart))
	for _, line := range cart {
		items = append(items, OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	return &Order{
		ID:        uuid.New(),
		UserID:    userID,
		Total:     cart.Total(),
		Items:     items,
		CreatedAt: time.Now().UTC(),
	}
}
