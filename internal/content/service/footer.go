package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meryemgkrt/food-ordering/internal/content/domain"
	"github.com/meryemgkrt/food-ordering/internal/content/repository"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
)

// FooterService implements the business logic for footer content.
type FooterService struct {
	repo   repository.FooterRepository
	logger *slog.Logger
}

// NewFooterService creates a new footer service.
func NewFooterService(repo repository.FooterRepository, logger *slog.Logger) *FooterService {
	return &FooterService{
		repo:   repo,
		logger: logger,
	}
}

// UpdateFooterInput holds the replacement footer content.
type UpdateFooterInput struct {
	Location     string
	Email        string
	PhoneNumber  string
	Desc         string
	SocialMedia  []domain.SocialLink
	OpeningHours domain.OpeningHours
}

// GetFooter returns the footer content, creating the default row when none
// exists yet.
func (s *FooterService) GetFooter(ctx context.Context) (*domain.Footer, error) {
	footer, err := s.repo.Get(ctx)
	if err == nil {
		return footer, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get footer: %w", err)
	}

	footer = domain.DefaultFooter()
	footer.ID = uuid.New().String()
	footer.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, footer); err != nil {
		return nil, fmt.Errorf("create default footer: %w", err)
	}

	s.logger.InfoContext(ctx, "default footer created",
		slog.String("footer_id", footer.ID),
	)

	return footer, nil
}

// UpdateFooter replaces the footer content. Admin only.
func (s *FooterService) UpdateFooter(ctx context.Context, input UpdateFooterInput) (*domain.Footer, error) {
	for _, link := range input.SocialMedia {
		if !domain.IsValidPlatform(link.Platform) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported social platform %q", link.Platform))
		}
		if link.URL == "" {
			return nil, apperrors.InvalidInput("social link url is required")
		}
	}

	footer, err := s.GetFooter(ctx)
	if err != nil {
		return nil, err
	}

	footer.Location = input.Location
	footer.Email = input.Email
	footer.PhoneNumber = input.PhoneNumber
	footer.Desc = input.Desc
	footer.SocialMedia = input.SocialMedia
	footer.OpeningHours = input.OpeningHours
	footer.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, footer); err != nil {
		return nil, fmt.Errorf("update footer: %w", err)
	}

	s.logger.InfoContext(ctx, "footer updated",
		slog.String("footer_id", footer.ID),
	)

	return footer, nil
}
