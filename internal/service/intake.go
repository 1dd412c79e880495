package service

import (
	"context"
	"fmt"

	"github.com/storyloop/storyloop-server/internal/classify"
	"github.com/storyloop/storyloop-server/internal/domain"
	apperrors "github.com/storyloop/storyloop-server/internal/errors"
	"github.com/storyloop/storyloop-server/internal/id"
	"github.com/storyloop/storyloop-server/internal/logger"
	"github.com/storyloop/storyloop-server/internal/normalize"
	"github.com/storyloop/storyloop-server/internal/store"
	"github.com/storyloop/storyloop-server/internal/validation"
)

// MetadataClient looks up book metadata by normalized ISBN.
// Lookups are best-effort; intake degrades to placeholder metadata on failure.
type MetadataClient interface {
	Lookup(ctx context.Context, isbn string) (domain.BookMetadata, error)
}

// IntakeService runs the scan-edit-commit workflow for receiving books.
type IntakeService struct {
	store      *store.Store
	classifier *ClassificationService
	sku        *SkuService
	metadata   MetadataClient // nil disables external lookups
	logger     *logger.Logger
	validator  *validation.Validator
	batchCap   int
}

// NewIntakeService creates a new intake service. metadata may be nil.
func NewIntakeService(st *store.Store, classifier *ClassificationService, sku *SkuService, metadata MetadataClient, log *logger.Logger, batchCap int) *IntakeService {
	if batchCap < 1 {
		batchCap = domain.BatchItemCap
	}
	return &IntakeService{
		store:      st,
		classifier: classifier,
		sku:        sku,
		metadata:   metadata,
		logger:     log,
		validator:  validation.New(),
		batchCap:   batchCap,
	}
}

// BatchView is a batch together with its items in scan order.
type BatchView struct {
	Batch *domain.IntakeBatch       `json:"batch"`
	Items []*domain.IntakeBatchItem `json:"items"`
}

// StartBatch returns the open batch, creating one if none is open.
// At most one batch is open at a time; starting intake twice is idempotent.
func (s *IntakeService) StartBatch(ctx context.Context) (*domain.IntakeBatch, error) {
	existing, err := s.store.FindOpenBatch(ctx)
	if err == nil {
		return existing, nil
	}
	if !apperrors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	batchID, err := id.Generate("batch")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "generate batch id")
	}

	batch := &domain.IntakeBatch{Status: domain.BatchOpen}
	batch.ID = batchID
	batch.InitTimestamps()

	if err := s.store.Batches.Create(ctx, batchID, batch); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info("intake batch opened", "batch_id", batchID)
	}
	return batch, nil
}

// GetBatch returns one batch with its items.
func (s *IntakeService) GetBatch(ctx context.Context, batchID string) (*BatchView, error) {
	batch, err := s.store.Batches.Get(ctx, batchID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundf("batch %s not found", batchID)
		}
		return nil, err
	}

	items, err := s.store.ListBatchItems(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return &BatchView{Batch: batch, Items: items}, nil
}

// ListBatches returns all batches, newest first.
func (s *IntakeService) ListBatches(ctx context.Context) ([]*domain.IntakeBatch, error) {
	return s.store.ListBatches(ctx)
}

// openBatch loads a batch and fails unless it still accepts changes.
func (s *IntakeService) openBatch(ctx context.Context, batchID string) (*domain.IntakeBatch, error) {
	batch, err := s.store.Batches.Get(ctx, batchID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundf("batch %s not found", batchID)
		}
		return nil, err
	}
	if !batch.IsOpen() {
		return nil, apperrors.BatchNotOpen(fmt.Sprintf("batch %s is %s", batchID, batch.Status))
	}
	return batch, nil
}

// ScanRequest carries one scanned ISBN.
type ScanRequest struct {
	ISBN string `json:"isbn" validate:"required,min=10,max=17"`
	Qty  int    `json:"qty,omitempty" validate:"omitempty,gte=1,lte=99"`
}

// Scan adds one scanned book to an open batch.
//
// The ISBN is normalized and validated, rejected if already present in the
// batch, and refused once the batch cap is reached. Metadata comes from the
// lookup client when available; classification suggestions are filled in
// immediately so the operator reviews a pre-triaged item.
func (s *IntakeService) Scan(ctx context.Context, batchID string, req ScanRequest) (*domain.IntakeBatchItem, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	isbn, ok := normalize.ISBN(req.ISBN)
	if !ok {
		return nil, apperrors.InvalidISBNf("%q is not a valid ISBN-10 or ISBN-13", req.ISBN)
	}

	batch, err := s.openBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	scanned, err := s.store.ListBatchItems(ctx, batch.ID)
	if err != nil {
		return nil, err
	}
	if len(scanned) >= s.batchCap {
		return nil, apperrors.BatchFull(fmt.Sprintf("batch %s already holds %d items", batch.ID, len(scanned)))
	}

	// Positions only grow: a slot freed by RemoveItem is never reused, so
	// scan order survives removals.
	position := 0
	for _, other := range scanned {
		if other.ISBN == isbn {
			return nil, apperrors.DuplicateInBatch(fmt.Sprintf("ISBN %s already scanned in batch %s", isbn, batch.ID))
		}
		if other.Position >= position {
			position = other.Position + 1
		}
	}

	meta := s.lookupMetadata(ctx, isbn)

	item := &domain.IntakeBatchItem{
		BatchID:  batch.ID,
		ISBN:     isbn,
		Metadata: meta,
		Action:   domain.ActionCreate,
		Qty:      max(req.Qty, 1),
		Position: position,
	}

	// A title already in inventory flips the default action to adding stock.
	if existing, err := s.store.GetTitleByISBN(ctx, isbn); err == nil {
		item.Action = domain.ActionIncreaseQty
		item.ExistingTitleID = existing.ID
	} else if !apperrors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	// Scan-time triage: the cheap tier heuristic plus the full bin scorer.
	// The final values start from the suggestions; the operator adjusts them
	// before commit.
	item.SuggestedAgeTier = classify.QuickTier(meta.Title, meta.Summary)
	if result, err := s.classifier.Classify(ctx, meta); err == nil {
		item.SuggestedBin = result.SuggestedBin
	} else {
		return nil, err
	}
	item.FinalAgeTier = item.SuggestedAgeTier
	item.FinalBin = item.SuggestedBin

	itemID, err := id.Generate("item")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "generate item id")
	}
	item.ID = itemID
	item.InitTimestamps()

	if err := s.store.BatchItems.Create(ctx, itemID, item); err != nil {
		if apperrors.Is(err, store.ErrAlreadyExists) {
			return nil, apperrors.DuplicateInBatch(fmt.Sprintf("ISBN %s already scanned in batch %s", isbn, batch.ID))
		}
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("book scanned",
			"batch_id", batch.ID,
			"isbn", isbn,
			"position", item.Position,
			"suggested_tier", item.SuggestedAgeTier,
			"suggested_bin", item.SuggestedBin,
		)
	}
	return item, nil
}

// lookupMetadata fetches metadata for a scan, degrading to a placeholder the
// operator can correct by hand.
func (s *IntakeService) lookupMetadata(ctx context.Context, isbn string) domain.BookMetadata {
	if s.metadata != nil {
		meta, err := s.metadata.Lookup(ctx, isbn)
		if err == nil {
			meta.ISBN = isbn
			return meta
		}
		if s.logger != nil {
			s.logger.WithError(err).Warn("metadata lookup failed, using placeholder", "isbn", isbn)
		}
	}
	return domain.BookMetadata{
		ISBN:  isbn,
		Title: "Unknown Title (" + isbn + ")",
	}
}

// UpdateItemRequest carries the operator's corrections to one batch item.
// Empty fields are left unchanged.
type UpdateItemRequest struct {
	ISBN         string `json:"isbn,omitempty" validate:"omitempty,min=10,max=17"`
	FinalAgeTier string `json:"final_age_tier,omitempty"`
	FinalBin     string `json:"final_bin,omitempty"`
	Action       string `json:"action,omitempty"`
	Qty          int    `json:"qty,omitempty" validate:"omitempty,gte=1,lte=99"`
}

// UpdateItem applies operator edits to an item in an open batch.
func (s *IntakeService) UpdateItem(ctx context.Context, batchID, itemID string, req UpdateItemRequest) (*domain.IntakeBatchItem, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.openBatch(ctx, batchID); err != nil {
		return nil, err
	}

	item, err := s.store.BatchItems.Get(ctx, itemID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundf("item %s not found", itemID)
		}
		return nil, err
	}
	if item.BatchID != batchID {
		return nil, apperrors.NotFoundf("item %s not found in batch %s", itemID, batchID)
	}

	// Fixing a mis-keyed ISBN re-runs normalization and the duplicate check.
	if req.ISBN != "" {
		isbn, ok := normalize.ISBN(req.ISBN)
		if !ok {
			return nil, apperrors.InvalidISBNf("%q is not a valid ISBN-10 or ISBN-13", req.ISBN)
		}
		if isbn != item.ISBN {
			dup, err := s.store.BatchHasISBN(ctx, batchID, isbn)
			if err != nil {
				return nil, err
			}
			if dup {
				return nil, apperrors.DuplicateInBatch(fmt.Sprintf("ISBN %s already scanned in batch %s", isbn, batchID))
			}
			item.ISBN = isbn
		}
	}
	if req.FinalAgeTier != "" {
		tier := domain.AgeTier(req.FinalAgeTier)
		if !tier.Valid() {
			return nil, apperrors.Validationf("unknown age tier %q", req.FinalAgeTier)
		}
		item.FinalAgeTier = tier
	}
	if req.FinalBin != "" {
		bin := domain.Bin(req.FinalBin)
		if !bin.Valid() {
			return nil, apperrors.Validationf("unknown bin %q", req.FinalBin)
		}
		item.FinalBin = bin
	}
	if req.Action != "" {
		action := domain.ItemAction(req.Action)
		if !action.Valid() {
			return nil, apperrors.Validationf("unknown action %q", req.Action)
		}
		item.Action = action
	}
	if req.Qty > 0 {
		item.Qty = req.Qty
	}

	item.Touch()
	if err := s.store.BatchItems.Update(ctx, itemID, item); err != nil {
		if apperrors.Is(err, store.ErrAlreadyExists) {
			return nil, apperrors.DuplicateInBatch(fmt.Sprintf("ISBN %s already scanned in batch %s", item.ISBN, batchID))
		}
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes a mis-scanned item from an open batch.
func (s *IntakeService) RemoveItem(ctx context.Context, batchID, itemID string) error {
	if _, err := s.openBatch(ctx, batchID); err != nil {
		return err
	}

	item, err := s.store.BatchItems.Get(ctx, itemID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return apperrors.NotFoundf("item %s not found", itemID)
		}
		return err
	}
	if item.BatchID != batchID {
		return apperrors.NotFoundf("item %s not found in batch %s", itemID, batchID)
	}
	return s.store.BatchItems.Delete(ctx, itemID)
}

// CancelBatch abandons an open batch. Scanned items stay recorded for audit
// but never reach inventory.
func (s *IntakeService) CancelBatch(ctx context.Context, batchID string) (*domain.IntakeBatch, error) {
	batch, err := s.openBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	batch.Status = domain.BatchCancelled
	batch.Touch()
	if err := s.store.Batches.Update(ctx, batch.ID, batch); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info("intake batch cancelled", "batch_id", batch.ID)
	}
	return batch, nil
}
