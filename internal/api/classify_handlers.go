package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/storyloop/storyloop-server/internal/domain"
	"github.com/storyloop/storyloop-server/internal/service"
)

func (s *Server) registerClassifyRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "previewClassification",
		Method:      http.MethodPost,
		Path:        "/api/v1/classify/preview",
		Summary:     "Preview classification",
		Description: "Runs the triage engine on supplied metadata without touching any batch",
		Tags:        []string{"Classification"},
	}, s.handlePreviewClassification)

	huma.Register(s.api, huma.Operation{
		OperationID: "listShelvingReference",
		Method:      http.MethodGet,
		Path:        "/api/v1/classify/reference",
		Summary:     "List shelving reference data",
		Description: "Returns the fixed age tiers and storage bins",
		Tags:        []string{"Classification"},
	}, s.handleListShelvingReference)
}

// === DTOs ===

type PreviewClassificationRequest struct {
	ISBN        string `json:"isbn,omitempty" doc:"Optional ISBN for override matching"`
	Title       string `json:"title" doc:"Book title"`
	Subtitle    string `json:"subtitle,omitempty" doc:"Subtitle"`
	Subjects    string `json:"subjects,omitempty" doc:"Subject headings"`
	Summary     string `json:"summary,omitempty" doc:"Summary text"`
	ReadingAge  string `json:"reading_age,omitempty" doc:"Publisher reading age text"`
	Format      string `json:"format,omitempty" doc:"Physical format"`
	AgeRangeMin int    `json:"age_range_min,omitempty" doc:"Structured age range lower bound"`
	AgeRangeMax int    `json:"age_range_max,omitempty" doc:"Structured age range upper bound"`
	HasAgeRange bool   `json:"has_age_range,omitempty" doc:"Whether the structured age range is set"`
}

type PreviewClassificationInput struct {
	Body PreviewClassificationRequest
}

type ClassificationResponse struct {
	SuggestedAgeTier string  `json:"suggested_age_tier" doc:"Suggested age tier"`
	SuggestedBin     string  `json:"suggested_bin,omitempty" doc:"Suggested storage bin"`
	Confidence       float64 `json:"confidence" doc:"Combined confidence in [0,1]"`
	Reason           string  `json:"reason" doc:"Human-readable scoring summary"`
	NeedsReview      bool    `json:"needs_review" doc:"Whether the suggestion needs operator review"`
	EngineVersion    string  `json:"engine_version" doc:"Classifier version tag"`
}

type TopicSuggestionResponse struct {
	Topic         string   `json:"topic,omitempty" doc:"Winning topic"`
	WinnerScore   float64  `json:"winner_score" doc:"Winning topic score"`
	RunnerUpScore float64  `json:"runner_up_score" doc:"Runner-up topic score"`
	TotalScore    float64  `json:"total_score" doc:"Total score across topics"`
	Confidence    float64  `json:"confidence" doc:"Topic confidence in [0,100]"`
	Action        string   `json:"action" doc:"AUTO_APPROVE or REQUIRE_REVIEW"`
	Reasons       []string `json:"reasons,omitempty" doc:"Review-gate reasons"`
}

type PreviewClassificationResponse struct {
	Classification ClassificationResponse  `json:"classification" doc:"Tier and bin suggestion"`
	Topic          TopicSuggestionResponse `json:"topic" doc:"Topic suggestion"`
}

type PreviewClassificationOutput struct {
	Body PreviewClassificationResponse
}

type AgeTierReference struct {
	Tier   string `json:"tier" doc:"Tier code, also the SKU prefix"`
	Label  string `json:"label" doc:"Display label"`
	MinAge int    `json:"min_age" doc:"Inclusive lower age bound"`
	MaxAge int    `json:"max_age" doc:"Inclusive upper age bound"`
}

type ShelvingReferenceResponse struct {
	AgeTiers []AgeTierReference `json:"age_tiers" doc:"Fixed age tiers, youngest first"`
	Bins     []string           `json:"bins" doc:"Fixed storage bins"`
}

type ShelvingReferenceOutput struct {
	Body ShelvingReferenceResponse
}

// === Handlers ===

func (s *Server) handlePreviewClassification(ctx context.Context, input *PreviewClassificationInput) (*PreviewClassificationOutput, error) {
	result, topic, err := s.services.Classification.Preview(ctx, service.PreviewRequest{
		ISBN:        input.Body.ISBN,
		Title:       input.Body.Title,
		Subtitle:    input.Body.Subtitle,
		Subjects:    input.Body.Subjects,
		Summary:     input.Body.Summary,
		ReadingAge:  input.Body.ReadingAge,
		Format:      input.Body.Format,
		AgeRangeMin: input.Body.AgeRangeMin,
		AgeRangeMax: input.Body.AgeRangeMax,
		HasAgeRange: input.Body.HasAgeRange,
	})
	if err != nil {
		return nil, err
	}

	return &PreviewClassificationOutput{Body: PreviewClassificationResponse{
		Classification: ClassificationResponse{
			SuggestedAgeTier: string(result.SuggestedAgeTier),
			SuggestedBin:     string(result.SuggestedBin),
			Confidence:       result.Confidence,
			Reason:           result.Reason,
			NeedsReview:      result.NeedsReview,
			EngineVersion:    result.EngineVersion,
		},
		Topic: TopicSuggestionResponse{
			Topic:         topic.Topic,
			WinnerScore:   topic.WinnerScore,
			RunnerUpScore: topic.RunnerUpScore,
			TotalScore:    topic.TotalScore,
			Confidence:    topic.Confidence,
			Action:        string(topic.Action),
			Reasons:       topic.Reasons,
		},
	}}, nil
}

func (s *Server) handleListShelvingReference(_ context.Context, _ *struct{}) (*ShelvingReferenceOutput, error) {
	specs := domain.AgeTierSpecs()
	tiers := make([]AgeTierReference, len(specs))
	for i, spec := range specs {
		tiers[i] = AgeTierReference{
			Tier:   string(spec.Tier),
			Label:  spec.Label,
			MinAge: spec.MinAge,
			MaxAge: spec.MaxAge,
		}
	}

	bins := domain.Bins()
	binNames := make([]string, len(bins))
	for i, b := range bins {
		binNames[i] = string(b)
	}

	return &ShelvingReferenceOutput{Body: ShelvingReferenceResponse{
		AgeTiers: tiers,
		Bins:     binNames,
	}}, nil
}
