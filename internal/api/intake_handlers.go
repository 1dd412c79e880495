package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/storyloop/storyloop-server/internal/domain"
	"github.com/storyloop/storyloop-server/internal/service"
)

func (s *Server) registerIntakeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "startBatch",
		Method:      http.MethodPost,
		Path:        "/api/v1/intake/batches",
		Summary:     "Start intake batch",
		Description: "Opens a new intake batch, or returns the currently open one",
		Tags:        []string{"Intake"},
	}, s.handleStartBatch)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBatches",
		Method:      http.MethodGet,
		Path:        "/api/v1/intake/batches",
		Summary:     "List intake batches",
		Description: "Returns all intake batches, newest first",
		Tags:        []string{"Intake"},
	}, s.handleListBatches)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBatch",
		Method:      http.MethodGet,
		Path:        "/api/v1/intake/batches/{batchID}",
		Summary:     "Get intake batch",
		Description: "Returns a batch with its items in scan order",
		Tags:        []string{"Intake"},
	}, s.handleGetBatch)

	huma.Register(s.api, huma.Operation{
		OperationID: "scanItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/intake/batches/{batchID}/items",
		Summary:     "Scan item into batch",
		Description: "Adds a scanned ISBN to an open batch with classification suggestions",
		Tags:        []string{"Intake"},
	}, s.handleScanItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBatchItem",
		Method:      http.MethodPatch,
		Path:        "/api/v1/intake/batches/{batchID}/items/{itemID}",
		Summary:     "Update batch item",
		Description: "Edits the final tier, bin, action, or quantity of a batch item",
		Tags:        []string{"Intake"},
	}, s.handleUpdateBatchItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeBatchItem",
		Method:      http.MethodDelete,
		Path:        "/api/v1/intake/batches/{batchID}/items/{itemID}",
		Summary:     "Remove batch item",
		Description: "Removes an item from an open batch",
		Tags:        []string{"Intake"},
	}, s.handleRemoveBatchItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "commitBatch",
		Method:      http.MethodPost,
		Path:        "/api/v1/intake/batches/{batchID}/commit",
		Summary:     "Commit intake batch",
		Description: "Applies every batch item to inventory and closes the batch",
		Tags:        []string{"Intake"},
	}, s.handleCommitBatch)

	huma.Register(s.api, huma.Operation{
		OperationID: "cancelBatch",
		Method:      http.MethodPost,
		Path:        "/api/v1/intake/batches/{batchID}/cancel",
		Summary:     "Cancel intake batch",
		Description: "Discards an open batch without touching inventory",
		Tags:        []string{"Intake"},
	}, s.handleCancelBatch)
}

// === DTOs ===

type BatchResponse struct {
	ID        string    `json:"id" doc:"Batch ID"`
	Status    string    `json:"status" doc:"Batch status: open, committed, or cancelled"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

type BatchOutput struct {
	Body BatchResponse
}

type ListBatchesResponse struct {
	Batches []BatchResponse `json:"batches" doc:"List of batches"`
}

type ListBatchesOutput struct {
	Body ListBatchesResponse
}

type BookMetadataResponse struct {
	Title      string `json:"title" doc:"Book title"`
	Subtitle   string `json:"subtitle,omitempty" doc:"Subtitle"`
	Author     string `json:"author,omitempty" doc:"Primary author"`
	Subjects   string `json:"subjects,omitempty" doc:"Subject headings"`
	Summary    string `json:"summary,omitempty" doc:"Summary or excerpt"`
	ReadingAge string `json:"reading_age,omitempty" doc:"Publisher reading age text"`
	Format     string `json:"format,omitempty" doc:"Physical format"`
	CoverURL   string `json:"cover_url,omitempty" doc:"Cover image URL"`
}

type BatchItemResponse struct {
	ID               string               `json:"id" doc:"Item ID"`
	BatchID          string               `json:"batch_id" doc:"Owning batch ID"`
	ISBN             string               `json:"isbn" doc:"Normalized ISBN"`
	Position         int                  `json:"position" doc:"Scan order within the batch"`
	Metadata         BookMetadataResponse `json:"metadata" doc:"Looked-up book metadata"`
	SuggestedAgeTier string               `json:"suggested_age_tier,omitempty" doc:"Suggested age tier"`
	SuggestedBin     string               `json:"suggested_bin,omitempty" doc:"Suggested storage bin"`
	FinalAgeTier     string               `json:"final_age_tier,omitempty" doc:"Final age tier for commit"`
	FinalBin         string               `json:"final_bin,omitempty" doc:"Final storage bin for commit"`
	Action           string               `json:"action" doc:"Commit action: create, increase_qty, new_copy, or skip"`
	Qty              int                  `json:"qty" doc:"Number of copies"`
	ExistingTitleID  string               `json:"existing_title_id,omitempty" doc:"Matched existing title ID"`
	Error            string               `json:"error,omitempty" doc:"Last commit error for this item"`
	CreatedAt        time.Time            `json:"created_at" doc:"Creation time"`
	UpdatedAt        time.Time            `json:"updated_at" doc:"Last update time"`
}

type BatchItemOutput struct {
	Body BatchItemResponse
}

type BatchViewResponse struct {
	Batch BatchResponse       `json:"batch" doc:"The batch"`
	Items []BatchItemResponse `json:"items" doc:"Items in scan order"`
}

type BatchViewOutput struct {
	Body BatchViewResponse
}

type ScanItemRequest struct {
	ISBN string `json:"isbn" doc:"ISBN-10 or ISBN-13, hyphens allowed"`
	Qty  int    `json:"qty,omitempty" doc:"Number of copies (default 1)"`
}

type ScanItemInput struct {
	BatchID string `path:"batchID" doc:"Batch ID"`
	Body    ScanItemRequest
}

type GetBatchInput struct {
	BatchID string `path:"batchID" doc:"Batch ID"`
}

type UpdateBatchItemRequest struct {
	ISBN         string `json:"isbn,omitempty" doc:"Corrected ISBN, re-normalized"`
	FinalAgeTier string `json:"final_age_tier,omitempty" doc:"New final age tier"`
	FinalBin     string `json:"final_bin,omitempty" doc:"New final storage bin"`
	Action       string `json:"action,omitempty" doc:"New commit action"`
	Qty          int    `json:"qty,omitempty" doc:"New quantity"`
}

type UpdateBatchItemInput struct {
	BatchID string `path:"batchID" doc:"Batch ID"`
	ItemID  string `path:"itemID" doc:"Item ID"`
	Body    UpdateBatchItemRequest
}

type RemoveBatchItemInput struct {
	BatchID string `path:"batchID" doc:"Batch ID"`
	ItemID  string `path:"itemID" doc:"Item ID"`
}

type ItemCommitErrorResponse struct {
	ItemID  string `json:"item_id" doc:"Failed item ID"`
	ISBN    string `json:"isbn" doc:"Failed item ISBN"`
	Message string `json:"message" doc:"Failure reason"`
}

type CommitSummaryResponse struct {
	BatchID string                    `json:"batch_id" doc:"Committed batch ID"`
	Created int                       `json:"created" doc:"New titles created"`
	Updated int                       `json:"updated" doc:"Existing titles restocked"`
	Skipped int                       `json:"skipped" doc:"Items skipped"`
	Failed  int                       `json:"failed" doc:"Items that failed"`
	Errors  []ItemCommitErrorResponse `json:"errors,omitempty" doc:"Per-item failures"`
}

type CommitSummaryOutput struct {
	Body CommitSummaryResponse
}

// === Handlers ===

func (s *Server) handleStartBatch(ctx context.Context, _ *struct{}) (*BatchOutput, error) {
	batch, err := s.services.Intake.StartBatch(ctx)
	if err != nil {
		return nil, err
	}
	return &BatchOutput{Body: mapBatchResponse(batch)}, nil
}

func (s *Server) handleListBatches(ctx context.Context, _ *struct{}) (*ListBatchesOutput, error) {
	batches, err := s.services.Intake.ListBatches(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]BatchResponse, len(batches))
	for i, b := range batches {
		resp[i] = mapBatchResponse(b)
	}
	return &ListBatchesOutput{Body: ListBatchesResponse{Batches: resp}}, nil
}

func (s *Server) handleGetBatch(ctx context.Context, input *GetBatchInput) (*BatchViewOutput, error) {
	view, err := s.services.Intake.GetBatch(ctx, input.BatchID)
	if err != nil {
		return nil, err
	}

	items := make([]BatchItemResponse, len(view.Items))
	for i, item := range view.Items {
		items[i] = mapBatchItemResponse(item)
	}
	return &BatchViewOutput{Body: BatchViewResponse{
		Batch: mapBatchResponse(view.Batch),
		Items: items,
	}}, nil
}

func (s *Server) handleScanItem(ctx context.Context, input *ScanItemInput) (*BatchItemOutput, error) {
	item, err := s.services.Intake.Scan(ctx, input.BatchID, service.ScanRequest{
		ISBN: input.Body.ISBN,
		Qty:  input.Body.Qty,
	})
	if err != nil {
		return nil, err
	}
	return &BatchItemOutput{Body: mapBatchItemResponse(item)}, nil
}

func (s *Server) handleUpdateBatchItem(ctx context.Context, input *UpdateBatchItemInput) (*BatchItemOutput, error) {
	item, err := s.services.Intake.UpdateItem(ctx, input.BatchID, input.ItemID, service.UpdateItemRequest{
		ISBN:         input.Body.ISBN,
		FinalAgeTier: input.Body.FinalAgeTier,
		FinalBin:     input.Body.FinalBin,
		Action:       input.Body.Action,
		Qty:          input.Body.Qty,
	})
	if err != nil {
		return nil, err
	}
	return &BatchItemOutput{Body: mapBatchItemResponse(item)}, nil
}

func (s *Server) handleRemoveBatchItem(ctx context.Context, input *RemoveBatchItemInput) (*struct{}, error) {
	if err := s.services.Intake.RemoveItem(ctx, input.BatchID, input.ItemID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleCommitBatch(ctx context.Context, input *GetBatchInput) (*CommitSummaryOutput, error) {
	summary, err := s.services.Intake.CommitBatch(ctx, input.BatchID)
	if err != nil {
		return nil, err
	}

	errs := make([]ItemCommitErrorResponse, len(summary.Errors))
	for i, e := range summary.Errors {
		errs[i] = ItemCommitErrorResponse{ItemID: e.ItemID, ISBN: e.ISBN, Message: e.Error}
	}
	return &CommitSummaryOutput{Body: CommitSummaryResponse{
		BatchID: summary.BatchID,
		Created: summary.Created,
		Updated: summary.Updated,
		Skipped: summary.Skipped,
		Failed:  summary.Failed,
		Errors:  errs,
	}}, nil
}

func (s *Server) handleCancelBatch(ctx context.Context, input *GetBatchInput) (*BatchOutput, error) {
	batch, err := s.services.Intake.CancelBatch(ctx, input.BatchID)
	if err != nil {
		return nil, err
	}
	return &BatchOutput{Body: mapBatchResponse(batch)}, nil
}

// === Mappers ===

func mapBatchResponse(b *domain.IntakeBatch) BatchResponse {
	return BatchResponse{
		ID:        b.ID,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func mapBatchItemResponse(item *domain.IntakeBatchItem) BatchItemResponse {
	return BatchItemResponse{
		ID:       item.ID,
		BatchID:  item.BatchID,
		ISBN:     item.ISBN,
		Position: item.Position,
		Metadata: BookMetadataResponse{
			Title:      item.Metadata.Title,
			Subtitle:   item.Metadata.Subtitle,
			Author:     item.Metadata.Author,
			Subjects:   item.Metadata.Subjects,
			Summary:    item.Metadata.Summary,
			ReadingAge: item.Metadata.ReadingAge,
			Format:     item.Metadata.Format,
			CoverURL:   item.Metadata.CoverURL,
		},
		SuggestedAgeTier: string(item.SuggestedAgeTier),
		SuggestedBin:     string(item.SuggestedBin),
		FinalAgeTier:     string(item.FinalAgeTier),
		FinalBin:         string(item.FinalBin),
		Action:           string(item.Action),
		Qty:              item.Qty,
		ExistingTitleID:  item.ExistingTitleID,
		Error:            item.Error,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
}
