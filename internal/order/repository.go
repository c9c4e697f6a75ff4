package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_shop/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrProductNotFound aborts checkout when a cart references a product
	// deleted since add-to-cart. The whole transaction rolls back.
	ErrProductNotFound = errors.New("product no longer exists")
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateOrder persists the order, its items and an order_created outbox row
// in one transaction. Every referenced product id is re-validated inside the
// transaction; a missing product aborts the whole insert so no partial order
// can remain.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, total, created_at) VALUES ($1, $2, $3, $4)`,
		order.ID, order.UserID, order.Total, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		var exists bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, item.ProductID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check product %d: %w", item.ProductID, err)
		}
		if !exists {
			return fmt.Errorf("product %d: %w", item.ProductID, ErrProductNotFound)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity)
			 VALUES ($1, $2, $3, $4, $5)`,
			order.ID, item.ProductID, item.Name, item.UnitPrice, item.Quantity)
		if err != nil {
			return fmt.Errorf("insert order item for product %d: %w", item.ProductID, err)
		}
	}

	payload, err := json.Marshal(orderCreatedEvent(order))
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO order_events (id, event_type, payload, processed, created_at)
		 VALUES ($1, $2, $3, FALSE, $4)`,
		uuid.New(), "order_created", payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert order event: %w", err)
	}

	if e2 := tx.Commit(); e2 != nil {
		return fmt.Errorf("commit order transaction: %w", e2)
	}
	return nil
}

func orderCreatedEvent(order *domain.Order) map[string]interface{} {
	return map[string]interface{}{
		"order_id":   order.ID,
		"user_id":    order.UserID,
		"total":      order.Total,
		"items":      order.Items,
		"created_at": order.CreatedAt,
	}
}

func (r *Repository) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT id, user_id, total, created_at FROM orders WHERE id = $1`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.Total,
		&order.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	if order.Items, err = r.itemsFor(ctx, id); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) ListOrdersByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	query := `SELECT id, user_id, total, created_at FROM orders
	          WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user id: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(&order.ID, &order.UserID, &order.Total, &order.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, order := range orders {
		if order.Items, err = r.itemsFor(ctx, order.ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *Repository) itemsFor(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `SELECT product_id, product_name, unit_price, quantity
	          FROM order_items WHERE order_id = $1 ORDER BY product_id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(&item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}
