package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/meryemgkrt/food-ordering/internal/catalog/domain"
	"github.com/meryemgkrt/food-ordering/internal/catalog/repository"
	"github.com/meryemgkrt/food-ordering/pkg/database"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
)

// productColumns is the standard SELECT column list for products.
const productColumns = `id, title, description, prices, category_id, image, extras, created_at, updated_at`

// ProductRepository implements repository.ProductRepository using PostgreSQL.
// Prices and extras are stored as JSONB columns.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	pricesJSON, extrasJSON, err := marshalProductFields(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, title, description, prices, category_id, image, extras, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		pricesJSON,
		p.CategoryID,
		p.Image,
		extrasJSON,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	var (
		p          domain.Product
		pricesJSON []byte
		extrasJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&pricesJSON,
		&p.CategoryID,
		&p.Image,
		&extrasJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	if err := unmarshalProductFields(&p, pricesJSON, extrasJSON); err != nil {
		return nil, err
	}

	return &p, nil
}

// List returns products matching the given filter with the total count.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argIndex))
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Use count(*) OVER() for total count in a single query.
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM products
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		productColumns, whereClause, argIndex, argIndex+1,
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
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		products   []domain.Product
		totalCount int
	)

	for rows.Next() {
		var (
			p          domain.Product
			pricesJSON []byte
			extrasJSON []byte
		)

		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&pricesJSON,
			&p.CategoryID,
			&p.Image,
			&extrasJSON,
			&p.CreatedAt,
			&p.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}

		if err := unmarshalProductFields(&p, pricesJSON, extrasJSON); err != nil {
			return nil, 0, err
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, totalCount, nil
}

// Update modifies an existing product in the database.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	pricesJSON, extrasJSON, err := marshalProductFields(p)
	if err != nil {
		return err
	}

	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET title = $1, description = $2, prices = $3, category_id = $4,
		    image = $5, extras = $6, updated_at = $7
		WHERE id = $8`

	ct, err := r.pool.Exec(ctx, query,
		p.Title,
		p.Description,
		pricesJSON,
		p.CategoryID,
		p.Image,
		extrasJSON,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// Delete removes a product from the database by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// CountByCategory returns how many products reference the given category.
func (r *ProductRepository) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM products WHERE category_id = $1`, categoryID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count products by category: %w", err)
	}
	return count, nil
}

func marshalProductFields(p *domain.Product) (pricesJSON, extrasJSON []byte, err error) {
	pricesJSON, err = json.Marshal(p.Prices)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal prices: %w", err)
	}

	extras := p.Extras
	if extras == nil {
		extras = []domain.ExtraOption{}
	}
	extrasJSON, err = json.Marshal(extras)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal extras: %w", err)
	}

	return pricesJSON, extrasJSON, nil
}

func unmarshalProductFields(p *domain.Product, pricesJSON, extrasJSON []byte) error {
	if pricesJSON != nil {
		if err := json.Unmarshal(pricesJSON, &p.Prices); err != nil {
			return fmt.Errorf("unmarshal prices: %w", err)
		}
	}
	if extrasJSON != nil {
		if err := json.Unmarshal(extrasJSON, &p.Extras); err != nil {
			return fmt.Errorf("unmarshal extras: %w", err)
		}
	}
	return nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
