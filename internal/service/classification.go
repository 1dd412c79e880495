package service

import (
	"context"

	"github.com/storyloop/storyloop-server/internal/classify"
	"github.com/storyloop/storyloop-server/internal/domain"
	"github.com/storyloop/storyloop-server/internal/logger"
	"github.com/storyloop/storyloop-server/internal/store"
	"github.com/storyloop/storyloop-server/internal/validation"
)

// ClassificationService runs the triage engine against the stored rule tables.
type ClassificationService struct {
	store     *store.Store
	engine    *classify.Engine
	logger    *logger.Logger
	validator *validation.Validator
}

// NewClassificationService creates a new classification service.
func NewClassificationService(st *store.Store, engine *classify.Engine, log *logger.Logger) *ClassificationService {
	return &ClassificationService{
		store:     st,
		engine:    engine,
		logger:    log,
		validator: validation.New(),
	}
}

// Classify scores book metadata against the active rules and overrides.
func (s *ClassificationService) Classify(ctx context.Context, meta domain.BookMetadata) (domain.ClassificationResult, error) {
	rules, err := s.store.ListKeywordRules(ctx)
	if err != nil {
		return domain.ClassificationResult{}, err
	}
	overrides, err := s.store.ListOverrides(ctx)
	if err != nil {
		return domain.ClassificationResult{}, err
	}

	result := s.engine.Classify(meta, rules, overrides)
	if s.logger != nil {
		s.logger.Debug("classified book",
			"isbn", meta.ISBN,
			"tier", result.SuggestedAgeTier,
			"bin", result.SuggestedBin,
			"confidence", result.Confidence,
			"needs_review", result.NeedsReview,
		)
	}
	return result, nil
}

// SuggestTopic scores book metadata against the topic taxonomy.
func (s *ClassificationService) SuggestTopic(ctx context.Context, meta domain.BookMetadata) (domain.TopicSuggestion, error) {
	rules, err := s.store.ListTopicRules(ctx)
	if err != nil {
		return domain.TopicSuggestion{}, err
	}
	return s.engine.SuggestTopic(meta, rules), nil
}

// PreviewRequest carries the metadata fields accepted by the classify preview
// endpoint. ISBN is optional; a preview can run on manual metadata alone.
type PreviewRequest struct {
	ISBN        string `json:"isbn,omitempty" validate:"omitempty,min=10,max=17"`
	Title       string `json:"title" validate:"required,min=1,max=500"`
	Subtitle    string `json:"subtitle,omitempty" validate:"max=500"`
	Subjects    string `json:"subjects,omitempty" validate:"max=2000"`
	Summary     string `json:"summary,omitempty" validate:"max=10000"`
	ReadingAge  string `json:"reading_age,omitempty" validate:"max=100"`
	Format      string `json:"format,omitempty" validate:"max=100"`
	AgeRangeMin int    `json:"age_range_min,omitempty" validate:"gte=0,lte=18"`
	AgeRangeMax int    `json:"age_range_max,omitempty" validate:"gte=0,lte=18"`
	HasAgeRange bool   `json:"has_age_range,omitempty"`
}

// Preview runs the full engine on caller-supplied metadata without touching
// any batch. Operators use it to tune the rule tables.
func (s *ClassificationService) Preview(ctx context.Context, req PreviewRequest) (domain.ClassificationResult, domain.TopicSuggestion, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.ClassificationResult{}, domain.TopicSuggestion{}, err
	}

	meta := domain.BookMetadata{
		ISBN:        req.ISBN,
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Subjects:    req.Subjects,
		Summary:     req.Summary,
		ReadingAge:  req.ReadingAge,
		Format:      req.Format,
		AgeRangeMin: req.AgeRangeMin,
		AgeRangeMax: req.AgeRangeMax,
		HasAgeRange: req.HasAgeRange,
	}

	result, err := s.Classify(ctx, meta)
	if err != nil {
		return domain.ClassificationResult{}, domain.TopicSuggestion{}, err
	}
	topic, err := s.SuggestTopic(ctx, meta)
	if err != nil {
		return domain.ClassificationResult{}, domain.TopicSuggestion{}, err
	}
	return result, topic, nil
}
