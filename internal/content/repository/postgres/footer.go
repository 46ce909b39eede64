package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meryemgkrt/food-ordering/internal/content/domain"
	"github.com/meryemgkrt/food-ordering/pkg/database"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
)

// FooterRepository implements footer persistence using PostgreSQL. The footer
// table holds at most one row; Save upserts it.
type FooterRepository struct {
	pool database.DBTX
}

// NewFooterRepository creates a new PostgreSQL-backed footer repository.
func NewFooterRepository(pool database.DBTX) *FooterRepository {
	return &FooterRepository{pool: pool}
}

// Get retrieves the footer row.
func (r *FooterRepository) Get(ctx context.Context) (*domain.Footer, error) {
	query := `
		SELECT id, location, email, phone_number, description, social_media, opening_hours, updated_at
		FROM footer
		LIMIT 1`

	var (
		f                domain.Footer
		socialMediaJSON  []byte
		openingHoursJSON []byte
	)

	err := r.pool.QueryRow(ctx, query).Scan(
		&f.ID,
		&f.Location,
		&f.Email,
		&f.PhoneNumber,
		&f.Desc,
		&socialMediaJSON,
		&openingHoursJSON,
		&f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan footer: %w", err)
	}

	if socialMediaJSON != nil {
		if err := json.Unmarshal(socialMediaJSON, &f.SocialMedia); err != nil {
			return nil, fmt.Errorf("unmarshal social media: %w", err)
		}
	}
	if openingHoursJSON != nil {
		if err := json.Unmarshal(openingHoursJSON, &f.OpeningHours); err != nil {
			return nil, fmt.Errorf("unmarshal opening hours: %w", err)
		}
	}

	return &f, nil
}

// Save upserts the footer row.
func (r *FooterRepository) Save(ctx context.Context, f *domain.Footer) error {
	socialMedia := f.SocialMedia
	if socialMedia == nil {
		socialMedia = []domain.SocialLink{}
	}
	socialMediaJSON, err := json.Marshal(socialMedia)
	if err != nil {
		return fmt.Errorf("marshal social media: %w", err)
	}

	openingHoursJSON, err := json.Marshal(f.OpeningHours)
	if err != nil {
		return fmt.Errorf("marshal opening hours: %w", err)
	}

	query := `
		INSERT INTO footer (id, location, email, phone_number, description, social_media, opening_hours, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET location = EXCLUDED.location, email = EXCLUDED.email,
		    phone_number = EXCLUDED.phone_number, description = EXCLUDED.description,
		    social_media = EXCLUDED.social_media, opening_hours = EXCLUDED.opening_hours,
		    updated_at = EXCLUDED.updated_at`

	_, err = r.pool.Exec(ctx, query,
		f.ID,
		f.Location,
		f.Email,
		f.PhoneNumber,
		f.Desc,
		socialMediaJSON,
		openingHoursJSON,
		f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save footer: %w", err)
	}

	return nil
}
