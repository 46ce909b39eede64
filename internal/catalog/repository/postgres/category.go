package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meryemgkrt/food-ordering/internal/catalog/domain"
	"github.com/meryemgkrt/food-ordering/pkg/database"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
)

// CategoryRepository implements category persistence using PostgreSQL.
type CategoryRepository struct {
	pool database.DBTX
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool database.DBTX) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create inserts a new category into the database.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	query := `
		INSERT INTO categories (id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, c.ID, c.Title, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("category", "title", c.Title)
		}
		return fmt.Errorf("insert category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by its ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category

	err := r.pool.QueryRow(ctx,
		`SELECT id, title, created_at, updated_at FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("category", id)
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}

	return &c, nil
}

// ListAll returns all categories ordered by title.
func (r *CategoryRepository) ListAll(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, created_at, updated_at FROM categories ORDER BY title`,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category

	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	if categories == nil {
		categories = []domain.Category{}
	}

	return categories, nil
}

// Delete removes a category from the database by its ID.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("category", id)
	}

	return nil
}
