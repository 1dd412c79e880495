package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/storyloop/storyloop-server/internal/domain"
	"github.com/storyloop/storyloop-server/internal/service"
)

func (s *Server) registerOverrideRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listOverrides",
		Method:      http.MethodGet,
		Path:        "/api/v1/overrides",
		Summary:     "List overrides",
		Description: "Returns all override rules, oldest first",
		Tags:        []string{"Overrides"},
	}, s.handleListOverrides)

	huma.Register(s.api, huma.Operation{
		OperationID: "createOverride",
		Method:      http.MethodPost,
		Path:        "/api/v1/overrides",
		Summary:     "Create override",
		Description: "Adds an age or classic override rule",
		Tags:        []string{"Overrides"},
	}, s.handleCreateOverride)

	huma.Register(s.api, huma.Operation{
		OperationID: "getOverride",
		Method:      http.MethodGet,
		Path:        "/api/v1/overrides/{id}",
		Summary:     "Get override",
		Description: "Returns an override rule by ID",
		Tags:        []string{"Overrides"},
	}, s.handleGetOverride)

	huma.Register(s.api, huma.Operation{
		OperationID: "setOverrideActive",
		Method:      http.MethodPatch,
		Path:        "/api/v1/overrides/{id}",
		Summary:     "Enable or disable override",
		Description: "Toggles an override rule without deleting it",
		Tags:        []string{"Overrides"},
	}, s.handleSetOverrideActive)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteOverride",
		Method:      http.MethodDelete,
		Path:        "/api/v1/overrides/{id}",
		Summary:     "Delete override",
		Description: "Removes an override rule permanently",
		Tags:        []string{"Overrides"},
	}, s.handleDeleteOverride)
}

// === DTOs ===

type OverrideResponse struct {
	ID            string    `json:"id" doc:"Override ID"`
	Kind          string    `json:"kind" doc:"Override kind: age or classic"`
	ISBN          string    `json:"isbn,omitempty" doc:"Matched ISBN"`
	TitlePattern  string    `json:"title_pattern,omitempty" doc:"Normalized title substring"`
	ForcedAgeTier string    `json:"forced_age_tier,omitempty" doc:"Tier forced by this rule"`
	ForcedBin     string    `json:"forced_bin,omitempty" doc:"Bin forced by this rule"`
	Active        bool      `json:"active" doc:"Whether the rule is applied"`
	CreatedAt     time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt     time.Time `json:"updated_at" doc:"Last update time"`
}

type OverrideOutput struct {
	Body OverrideResponse
}

type ListOverridesResponse struct {
	Overrides []OverrideResponse `json:"overrides" doc:"List of overrides"`
}

type ListOverridesOutput struct {
	Body ListOverridesResponse
}

type CreateOverrideRequest struct {
	Kind          string `json:"kind" doc:"Override kind: age or classic"`
	ISBN          string `json:"isbn,omitempty" doc:"ISBN to match"`
	TitlePattern  string `json:"title_pattern,omitempty" doc:"Title substring to match (classic only)"`
	ForcedAgeTier string `json:"forced_age_tier,omitempty" doc:"Tier to force"`
	ForcedBin     string `json:"forced_bin,omitempty" doc:"Bin to force (classic only)"`
}

type CreateOverrideInput struct {
	Body CreateOverrideRequest
}

type GetOverrideInput struct {
	ID string `path:"id" doc:"Override ID"`
}

type SetOverrideActiveRequest struct {
	Active bool `json:"active" doc:"Whether the rule should be applied"`
}

type SetOverrideActiveInput struct {
	ID   string `path:"id" doc:"Override ID"`
	Body SetOverrideActiveRequest
}

// === Handlers ===

func (s *Server) handleListOverrides(ctx context.Context, _ *struct{}) (*ListOverridesOutput, error) {
	overrides, err := s.services.Override.ListOverrides(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]OverrideResponse, len(overrides))
	for i := range overrides {
		resp[i] = mapOverrideResponse(&overrides[i])
	}
	return &ListOverridesOutput{Body: ListOverridesResponse{Overrides: resp}}, nil
}

func (s *Server) handleCreateOverride(ctx context.Context, input *CreateOverrideInput) (*OverrideOutput, error) {
	override, err := s.services.Override.CreateOverride(ctx, service.CreateOverrideRequest{
		Kind:          input.Body.Kind,
		ISBN:          input.Body.ISBN,
		TitlePattern:  input.Body.TitlePattern,
		ForcedAgeTier: input.Body.ForcedAgeTier,
		ForcedBin:     input.Body.ForcedBin,
	})
	if err != nil {
		return nil, err
	}
	return &OverrideOutput{Body: mapOverrideResponse(override)}, nil
}

func (s *Server) handleGetOverride(ctx context.Context, input *GetOverrideInput) (*OverrideOutput, error) {
	override, err := s.services.Override.GetOverride(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &OverrideOutput{Body: mapOverrideResponse(override)}, nil
}

func (s *Server) handleSetOverrideActive(ctx context.Context, input *SetOverrideActiveInput) (*OverrideOutput, error) {
	override, err := s.services.Override.SetOverrideActive(ctx, input.ID, input.Body.Active)
	if err != nil {
		return nil, err
	}
	return &OverrideOutput{Body: mapOverrideResponse(override)}, nil
}

func (s *Server) handleDeleteOverride(ctx context.Context, input *GetOverrideInput) (*struct{}, error) {
	if err := s.services.Override.DeleteOverride(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func mapOverrideResponse(o *domain.Override) OverrideResponse {
	return OverrideResponse{
		ID:            o.ID,
		Kind:          string(o.Kind),
		ISBN:          o.ISBN,
		TitlePattern:  o.TitlePattern,
		ForcedAgeTier: string(o.ForcedAgeTier),
		ForcedBin:     string(o.ForcedBin),
		Active:        o.Active,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
