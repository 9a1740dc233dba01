package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ellas-cupcakery/storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// orderColumns whitelists the fields a partial update may touch. Anything
// else in the request is rejected rather than silently dropped into SQL.
var orderColumns = map[string]string{
	"status":         "status",
	"payment_status": "payment_status",
	"points_awarded": "points_awarded",
	"customer_id":    "customer_id",
	"total":          "total",
}

// OrderRepository implements domain.OrderRepository
type OrderRepository struct {
	db DBTX
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts a new order
func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("repository: failed to encode order items: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO orders (id, customer_id, items, status, payment_status, total, points_awarded, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		order.ID, order.CustomerID, items, order.Status, order.PaymentStatus,
		order.Total, order.PointsAwarded, order.Timestamp,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrRecordExists
		}
		return fmt.Errorf("repository: failed to create order %q: %w", order.ID, err)
	}
	return nil
}

// GetOrderByID fetches one order
func (r *OrderRepository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, customer_id, items, status, payment_status, total, points_awarded, created_at
		 FROM orders
		 WHERE id = $1`,
		id,
	)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to get order %q: %w", id, err)
	}
	return order, nil
}

// GetAllOrders fetches the whole orders collection as an id-to-record
// mapping, the shape the store serves to polling surfaces
func (r *OrderRepository) GetAllOrders(ctx context.Context) (map[string]domain.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, customer_id, items, status, payment_status, total, points_awarded, created_at
		 FROM orders`,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to get orders: %w", err)
	}
	defer rows.Close()

	orders := make(map[string]domain.Order)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		orders[order.ID] = *order
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderFields applies a partial, column-whitelisted update
func (r *OrderRepository) UpdateOrderFields(ctx context.Context, id string, updates map[string]any) error {
	assignments, args, err := buildAssignments(orderColumns, updates)
	if err != nil {
		return err
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE orders SET %s WHERE id = $%d`, assignments, len(args))
	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("repository: failed to update order %q: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// GetUnawardedPaidOrders fetches orders whose payment is confirmed but
// whose loyalty points have not been awarded yet
func (r *OrderRepository) GetUnawardedPaidOrders(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, customer_id, items, status, payment_status, total, points_awarded, created_at
		 FROM orders
		 WHERE payment_status = $1 AND points_awarded = FALSE
		 ORDER BY created_at ASC`,
		domain.PaymentPaid,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to get unawarded orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating unawarded orders: %w", err)
	}
	return orders, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	order := &domain.Order{}
	var items []byte

	err := row.Scan(&order.ID, &order.CustomerID, &items, &order.Status,
		&order.PaymentStatus, &order.Total, &order.PointsAwarded, &order.Timestamp)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("failed to decode order items: %w", err)
		}
	}
	return order, nil
}

// buildAssignments turns a whitelisted update mapping into a deterministic
// SET clause with positional arguments
func buildAssignments(columns map[string]string, updates map[string]any) (string, []any, error) {
	keys := make([]string, 0, len(updates))
	for key := range updates {
		if _, ok := columns[key]; !ok {
			return "", nil, fmt.Errorf("%w: %q", ErrNoUpdatableField, key)
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return "", nil, ErrNoUpdatableField
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for i, key := range keys {
		parts = append(parts, fmt.Sprintf("%s = $%d", columns[key], i+1))
		args = append(args, updates[key])
	}
	return strings.Join(parts, ", "), args, nil
}
