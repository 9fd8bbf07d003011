package variant

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-gorden/internal/common"
	"github.com/noah-isme/backend-gorden/internal/obs"
)

// ErrProductNotFound is returned by repositories when the product is absent.
var ErrProductNotFound = errors.New("variant: product not found")

// Repo persists option definitions and the generated variant set.
type Repo interface {
	OptionsByProduct(ctx context.Context, productID uuid.UUID) ([]OptionDefinition, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]Variant, error)
	ReplaceForProduct(ctx context.Context, productID uuid.UUID, options []OptionDefinition, variants []Variant) ([]Variant, error)
}

// RegenerateResult carries the persisted matrix plus operator warnings.
type RegenerateResult struct {
	Options  []OptionDefinition `json:"options"`
	Variants []Variant          `json:"variants"`
	Warnings []string           `json:"warnings,omitempty"`
}

// Service orchestrates matrix regeneration and cached listing.
type Service struct {
	repo     Repo
	cache    *Cache
	validate *validator.Validate
	logger   zerolog.Logger
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Repo   Repo
	Cache  *Cache
	Logger zerolog.Logger
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Repo == nil {
		return nil, errors.New("variant: repo is required")
	}
	return &Service{
		repo:     cfg.Repo,
		cache:    cfg.Cache,
		validate: validator.New(),
		logger:   cfg.Logger,
	}, nil
}

// Regenerate validates the edited option definitions, expands the matrix
// while preserving prior prices, and replaces the persisted set. Price
// warnings are returned alongside the result, never as errors.
func (s *Service) Regenerate(ctx context.Context, productID uuid.UUID, options []OptionDefinition) (RegenerateResult, error) {
	for _, opt := range options {
		if err := s.validate.StructCtx(ctx, opt); err != nil {
			return RegenerateResult{}, common.BadRequest("INVALID_OPTIONS", err.Error(), err)
		}
	}
	if err := ValidateOptions(options); err != nil {
		return RegenerateResult{}, common.BadRequest("INVALID_OPTIONS", err.Error(), err)
	}

	previous, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return RegenerateResult{}, fmt.Errorf("load previous variants: %w", err)
	}
	generated := Generate(options, previous)

	saved, err := s.repo.ReplaceForProduct(ctx, productID, options, generated)
	if err != nil {
		return RegenerateResult{}, fmt.Errorf("replace variants: %w", err)
	}
	obs.AddVariantsGenerated(len(saved))

	if err := s.cache.Invalidate(ctx, productID.String()); err != nil {
		s.logger.Warn().Err(err).Str("product_id", productID.String()).Msg("invalidate variant cache")
	}

	carried := 0
	for _, v := range saved {
		if v.ID != "" {
			carried++
		}
	}
	s.logger.Info().
		Str("product_id", productID.String()).
		Int("variants", len(saved)).
		Int("carried", carried).
		Msg("variant matrix regenerated")

	return RegenerateResult{Options: options, Variants: saved, Warnings: PriceWarnings(saved)}, nil
}

// List returns the variant table for a product, deduplicated defensively
// because persisted rows may pre-date normalization. Results are cached.
func (s *Service) List(ctx context.Context, productID uuid.UUID) ([]Variant, error) {
	if cached, ok, err := s.cache.Get(ctx, productID.String()); err != nil {
		s.logger.Warn().Err(err).Str("product_id", productID.String()).Msg("read variant cache")
	} else if ok {
		return cached, nil
	}

	stored, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	deduped := Deduplicate(stored)
	obs.AddVariantDedupDropped(len(stored) - len(deduped))

	if err := s.cache.Set(ctx, productID.String(), deduped); err != nil {
		s.logger.Warn().Err(err).Str("product_id", productID.String()).Msg("write variant cache")
	}
	return deduped, nil
}

// Options returns the stored option definitions for a product.
func (s *Service) Options(ctx context.Context, productID uuid.UUID) ([]OptionDefinition, error) {
	return s.repo.OptionsByProduct(ctx, productID)
}
