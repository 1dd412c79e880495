package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/storyloop/storyloop-server/internal/domain"
)

func (s *Server) registerInventoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTitles",
		Method:      http.MethodGet,
		Path:        "/api/v1/titles",
		Summary:     "List titles",
		Description: "Returns all titles in inventory",
		Tags:        []string{"Inventory"},
	}, s.handleListTitles)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTitle",
		Method:      http.MethodGet,
		Path:        "/api/v1/titles/{id}",
		Summary:     "Get title",
		Description: "Returns a title with its copies",
		Tags:        []string{"Inventory"},
	}, s.handleGetTitle)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPendingLabels",
		Method:      http.MethodGet,
		Path:        "/api/v1/labels/pending",
		Summary:     "List pending labels",
		Description: "Returns copies waiting on a shelf label, in intake order",
		Tags:        []string{"Inventory"},
	}, s.handleListPendingLabels)

	huma.Register(s.api, huma.Operation{
		OperationID: "markLabelPrinted",
		Method:      http.MethodPost,
		Path:        "/api/v1/labels/{copyID}/printed",
		Summary:     "Mark label printed",
		Description: "Clears the pending flag once a copy's label is printed",
		Tags:        []string{"Inventory"},
	}, s.handleMarkLabelPrinted)
}

// === DTOs ===

type TitleResponse struct {
	ID        string    `json:"id" doc:"Title ID"`
	ISBN      string    `json:"isbn" doc:"Normalized ISBN"`
	Name      string    `json:"name" doc:"Title name"`
	Author    string    `json:"author,omitempty" doc:"Primary author"`
	Summary   string    `json:"summary,omitempty" doc:"Summary text"`
	CoverURL  string    `json:"cover_url,omitempty" doc:"Cover image URL"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

type CopyResponse struct {
	ID           string    `json:"id" doc:"Copy ID"`
	TitleID      string    `json:"title_id" doc:"Owning title ID"`
	SKU          string    `json:"sku" doc:"Allocated SKU"`
	AgeTier      string    `json:"age_tier" doc:"Shelved age tier"`
	Bin          string    `json:"bin" doc:"Shelved storage bin"`
	LabelPending bool      `json:"label_pending" doc:"Whether a shelf label still needs printing"`
	CreatedAt    time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt    time.Time `json:"updated_at" doc:"Last update time"`
}

type ListTitlesResponse struct {
	Titles []TitleResponse `json:"titles" doc:"List of titles"`
}

type ListTitlesOutput struct {
	Body ListTitlesResponse
}

type TitleViewResponse struct {
	Title  TitleResponse  `json:"title" doc:"The title"`
	Copies []CopyResponse `json:"copies" doc:"Copies of the title"`
}

type TitleViewOutput struct {
	Body TitleViewResponse
}

type GetTitleInput struct {
	ID string `path:"id" doc:"Title ID"`
}

type ListPendingLabelsResponse struct {
	Copies []CopyResponse `json:"copies" doc:"Copies waiting on labels"`
}

type ListPendingLabelsOutput struct {
	Body ListPendingLabelsResponse
}

type MarkLabelPrintedInput struct {
	CopyID string `path:"copyID" doc:"Copy ID"`
}

type CopyOutput struct {
	Body CopyResponse
}

// === Handlers ===

func (s *Server) handleListTitles(ctx context.Context, _ *struct{}) (*ListTitlesOutput, error) {
	titles, err := s.services.Inventory.ListTitles(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]TitleResponse, len(titles))
	for i, title := range titles {
		resp[i] = mapTitleResponse(title)
	}
	return &ListTitlesOutput{Body: ListTitlesResponse{Titles: resp}}, nil
}

func (s *Server) handleGetTitle(ctx context.Context, input *GetTitleInput) (*TitleViewOutput, error) {
	view, err := s.services.Inventory.GetTitle(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	copies := make([]CopyResponse, len(view.Copies))
	for i, c := range view.Copies {
		copies[i] = mapCopyResponse(c)
	}
	return &TitleViewOutput{Body: TitleViewResponse{
		Title:  mapTitleResponse(view.Title),
		Copies: copies,
	}}, nil
}

func (s *Server) handleListPendingLabels(ctx context.Context, _ *struct{}) (*ListPendingLabelsOutput, error) {
	pending, err := s.services.Inventory.ListPendingLabels(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]CopyResponse, len(pending))
	for i, c := range pending {
		resp[i] = mapCopyResponse(c)
	}
	return &ListPendingLabelsOutput{Body: ListPendingLabelsResponse{Copies: resp}}, nil
}

func (s *Server) handleMarkLabelPrinted(ctx context.Context, input *MarkLabelPrintedInput) (*CopyOutput, error) {
	printed, err := s.services.Inventory.MarkLabelPrinted(ctx, input.CopyID)
	if err != nil {
		return nil, err
	}
	return &CopyOutput{Body: mapCopyResponse(printed)}, nil
}

func mapTitleResponse(t *domain.Title) TitleResponse {
	return TitleResponse{
		ID:        t.ID,
		ISBN:      t.ISBN,
		Name:      t.Name,
		Author:    t.Author,
		Summary:   t.Summary,
		CoverURL:  t.CoverURL,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func mapCopyResponse(c *domain.Copy) CopyResponse {
	return CopyResponse{
		ID:           c.ID,
		TitleID:      c.TitleID,
		SKU:          c.SKU,
		AgeTier:      string(c.AgeTier),
		Bin:          string(c.Bin),
		LabelPending: c.LabelPending,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
