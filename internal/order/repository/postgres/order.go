package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/meryemgkrt/food-ordering/internal/order/domain"
	"github.com/meryemgkrt/food-ordering/internal/order/repository"
	"github.com/meryemgkrt/food-ordering/pkg/database"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
// Order items are stored as a JSONB snapshot on the order row: items are
// immutable after checkout, so there is nothing to join or update row-by-row.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts a new order with its item snapshot.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	addressJSON, err := json.Marshal(o.Address)
	if err != nil {
		return fmt.Errorf("marshal address: %w", err)
	}

	query := `
		INSERT INTO orders (id, user_id, customer_name, address, status, items, total_amount, currency, notes, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.pool.Exec(ctx, query,
		o.ID,
		o.UserID,
		o.CustomerName,
		addressJSON,
		int(o.Status),
		itemsJSON,
		o.TotalAmount,
		o.Currency,
		o.Notes,
		o.Version,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, user_id, customer_name, address, status, items, total_amount, currency, notes, version, created_at, updated_at
		FROM orders
		WHERE id = $1`

	o, err := r.scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, err
	}

	return o, nil
}

// List returns orders matching the given filter with the total count.
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIndex))
		args = append(args, *filter.UserID)
		argIndex++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, int(*filter.Status))
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// count(*) OVER() delivers the total alongside the page in one query.
	query := fmt.Sprintf(`
		SELECT id, user_id, customer_name, address, status, items, total_amount, currency, notes, version, created_at, updated_at,
			   count(*) OVER() AS total_count
		FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var totalCount int
	orders := make([]domain.Order, 0)

	for rows.Next() {
		var (
			o           domain.Order
			status      int
			addressJSON []byte
			itemsJSON   []byte
		)

		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.CustomerName,
			&addressJSON,
			&status,
			&itemsJSON,
			&o.TotalAmount,
			&o.Currency,
			&o.Notes,
			&o.Version,
			&o.CreatedAt,
			&o.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}

		o.Status = domain.Status(status)

		if err := json.Unmarshal(addressJSON, &o.Address); err != nil {
			return nil, 0, fmt.Errorf("unmarshal address: %w", err)
		}
		if err := unmarshalItems(itemsJSON, &o.Items); err != nil {
			return nil, 0, err
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, totalCount, nil
}

// UpdateStatusIfVersion sets the order's status with an optimistic version
// check. Zero rows affected means either the order does not exist (NotFound)
// or a concurrent writer already bumped the version (false, nil).
func (r *OrderRepository) UpdateStatusIfVersion(ctx context.Context, id string, status domain.Status, expectedVersion int) (bool, error) {
	query := `
		UPDATE orders
		SET status = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4`

	ct, err := r.pool.Exec(ctx, query, int(status), time.Now().UTC(), id, expectedVersion)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)", id).Scan(&exists); err != nil {
			return false, fmt.Errorf("check order existence: %w", err)
		}
		if !exists {
			return false, apperrors.NotFound("order", id)
		}
		return false, nil
	}

	return true, nil
}

// scanOrder scans a single order row including JSONB columns.
func (r *OrderRepository) scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o           domain.Order
		status      int
		addressJSON []byte
		itemsJSON   []byte
	)

	if err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.CustomerName,
		&addressJSON,
		&status,
		&itemsJSON,
		&o.TotalAmount,
		&o.Currency,
		&o.Notes,
		&o.Version,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}

	o.Status = domain.Status(status)

	if err := json.Unmarshal(addressJSON, &o.Address); err != nil {
		return nil, fmt.Errorf("unmarshal address: %w", err)
	}
	if err := unmarshalItems(itemsJSON, &o.Items); err != nil {
		return nil, err
	}

	return &o, nil
}

func unmarshalItems(data []byte, items *[]domain.OrderItem) error {
	if len(data) == 0 || string(data) == "null" {
		*items = []domain.OrderItem{}
		return nil
	}
	if err := json.Unmarshal(data, items); err != nil {
		return fmt.Errorf("unmarshal order items: %w", err)
	}
	if *items == nil {
		*items = []domain.OrderItem{}
	}
	return nil
}
