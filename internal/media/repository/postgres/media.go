package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meryemgkrt/food-ordering/internal/media/domain"
	"github.com/meryemgkrt/food-ordering/pkg/database"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
)

const mediaColumns = "id, file_name, content_type, size_bytes, url, storage_key, uploaded_by, created_at"

// MediaRepository implements repository.MediaRepository using PostgreSQL.
type MediaRepository struct {
	pool database.DBTX
}

// NewMediaRepository creates a new PostgreSQL-backed media repository.
func NewMediaRepository(pool database.DBTX) *MediaRepository {
	return &MediaRepository{pool: pool}
}

// Create inserts a new media record.
func (r *MediaRepository) Create(ctx context.Context, m *domain.Media) error {
	query := `
		INSERT INTO media (` + mediaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		m.ID,
		m.FileName,
		m.ContentType,
		m.SizeBytes,
		m.URL,
		m.StorageKey,
		m.UploadedBy,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert media: %w", err)
	}

	return nil
}

// GetByID retrieves a media record by its ID.
func (r *MediaRepository) GetByID(ctx context.Context, id string) (*domain.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE id = $1`

	var m domain.Media
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.FileName,
		&m.ContentType,
		&m.SizeBytes,
		&m.URL,
		&m.StorageKey,
		&m.UploadedBy,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("media", id)
		}
		return nil, fmt.Errorf("query media: %w", err)
	}

	return &m, nil
}

// Delete removes a media record by its ID.
func (r *MediaRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("media", id)
	}

	return nil
}
