package service

import (
	"context"

	"github.com/storyloop/storyloop-server/internal/domain"
	apperrors "github.com/storyloop/storyloop-server/internal/errors"
	"github.com/storyloop/storyloop-server/internal/id"
	"github.com/storyloop/storyloop-server/internal/logger"
	"github.com/storyloop/storyloop-server/internal/normalize"
	"github.com/storyloop/storyloop-server/internal/store"
	"github.com/storyloop/storyloop-server/internal/validation"
)

// OverrideService manages the curated override tables.
type OverrideService struct {
	store     *store.Store
	logger    *logger.Logger
	validator *validation.Validator
}

// NewOverrideService creates a new override service.
func NewOverrideService(st *store.Store, log *logger.Logger) *OverrideService {
	return &OverrideService{
		store:     st,
		logger:    log,
		validator: validation.New(),
	}
}

// ListOverrides returns all overrides, oldest first.
func (s *OverrideService) ListOverrides(ctx context.Context) ([]domain.Override, error) {
	return s.store.ListOverrides(ctx)
}

// GetOverride returns one override.
func (s *OverrideService) GetOverride(ctx context.Context, overrideID string) (*domain.Override, error) {
	o, err := s.store.Overrides.Get(ctx, overrideID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundf("override %s not found", overrideID)
		}
		return nil, err
	}
	return o, nil
}

// CreateOverrideRequest contains fields for creating an override.
type CreateOverrideRequest struct {
	Kind          string `json:"kind" validate:"required,oneof=age classic"`
	ISBN          string `json:"isbn,omitempty" validate:"omitempty,min=10,max=17"`
	TitlePattern  string `json:"title_pattern,omitempty" validate:"max=500"`
	ForcedAgeTier string `json:"forced_age_tier,omitempty"`
	ForcedBin     string `json:"forced_bin,omitempty"`
}

// CreateOverride adds a new override rule.
func (s *OverrideService) CreateOverride(ctx context.Context, req CreateOverrideRequest) (*domain.Override, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	override := domain.Override{
		Kind:          domain.OverrideKind(req.Kind),
		TitlePattern:  normalize.Text(req.TitlePattern),
		ForcedAgeTier: domain.AgeTier(req.ForcedAgeTier),
		ForcedBin:     domain.Bin(req.ForcedBin),
		Active:        true,
	}

	if req.ISBN != "" {
		isbn, ok := normalize.ISBN(req.ISBN)
		if !ok {
			return nil, apperrors.InvalidISBNf("invalid ISBN %q", req.ISBN)
		}
		override.ISBN = isbn
	}

	switch override.Kind {
	case domain.OverrideAge:
		if override.ISBN == "" {
			return nil, apperrors.Validation("age overrides require an ISBN")
		}
		if !override.ForcedAgeTier.Valid() {
			return nil, apperrors.Validationf("age overrides require a valid forced age tier, got %q", req.ForcedAgeTier)
		}
	case domain.OverrideClassic:
		if override.ISBN == "" && override.TitlePattern == "" {
			return nil, apperrors.Validation("classic overrides require an ISBN or a title pattern")
		}
		if !override.ForcedBin.Valid() {
			return nil, apperrors.Validationf("classic overrides require a valid forced bin, got %q", req.ForcedBin)
		}
		if override.ForcedAgeTier != "" && !override.ForcedAgeTier.Valid() {
			return nil, apperrors.Validationf("unknown forced age tier %q", req.ForcedAgeTier)
		}
	}

	overrideID, err := id.Generate("ovr")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "generate override id")
	}
	override.ID = overrideID
	override.InitTimestamps()

	if err := s.store.Overrides.Create(ctx, overrideID, &override); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("override created", "id", overrideID, "kind", override.Kind)
	}
	return &override, nil
}

// SetOverrideActive enables or disables an override without deleting it.
func (s *OverrideService) SetOverrideActive(ctx context.Context, overrideID string, active bool) (*domain.Override, error) {
	override, err := s.GetOverride(ctx, overrideID)
	if err != nil {
		return nil, err
	}

	override.Active = active
	override.Touch()
	if err := s.store.Overrides.Update(ctx, overrideID, override); err != nil {
		return nil, err
	}
	return override, nil
}

// DeleteOverride removes an override permanently.
func (s *OverrideService) DeleteOverride(ctx context.Context, overrideID string) error {
	if _, err := s.GetOverride(ctx, overrideID); err != nil {
		return err
	}
	return s.store.Overrides.Delete(ctx, overrideID)
}
