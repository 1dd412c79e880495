package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/storyloop/storyloop-server/internal/domain"
	apperrors "github.com/storyloop/storyloop-server/internal/errors"
	"github.com/storyloop/storyloop-server/internal/id"
	"github.com/storyloop/storyloop-server/internal/store"
)

// CommitBatch turns an open batch into inventory.
//
// Validation runs first: every non-skipped item must carry final tier and bin
// values, and a failure leaves the batch open and untouched. Processing then
// runs item by item with error isolation: one item's failure is recorded on
// the item and counted, never aborting its siblings. The batch always reaches
// committed once processing starts.
func (s *IntakeService) CommitBatch(ctx context.Context, batchID string) (*domain.CommitSummary, error) {
	batch, err := s.openBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	items, err := s.store.ListBatchItems(ctx, batch.ID)
	if err != nil {
		return nil, err
	}

	if err := validateCommit(items); err != nil {
		return nil, err
	}

	summary := &domain.CommitSummary{BatchID: batch.ID}
	for _, item := range items {
		s.commitItem(ctx, item, summary)
	}

	batch.Status = domain.BatchCommitted
	batch.Touch()
	if err := s.store.Batches.Update(ctx, batch.ID, batch); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("intake batch committed",
			"batch_id", batch.ID,
			"created", summary.Created,
			"updated", summary.Updated,
			"skipped", summary.Skipped,
			"failed", summary.Failed,
		)
	}
	return summary, nil
}

// validateCommit checks that every item is commit-ready before any inventory
// mutation happens.
func validateCommit(items []*domain.IntakeBatchItem) error {
	var incomplete []string
	for _, item := range items {
		if !item.ReadyToCommit() {
			incomplete = append(incomplete, item.ISBN)
		}
	}
	if len(incomplete) > 0 {
		return apperrors.Validationf(
			"cannot commit: %d item(s) missing final tier or bin (%s)",
			len(incomplete), strings.Join(incomplete, ", "),
		)
	}
	return nil
}

// commitItem processes one item, recording any failure on the item itself.
func (s *IntakeService) commitItem(ctx context.Context, item *domain.IntakeBatchItem, summary *domain.CommitSummary) {
	if item.Action == domain.ActionSkip {
		summary.Skipped++
		return
	}

	created, err := s.applyItem(ctx, item)
	if err != nil {
		summary.Failed++
		summary.Errors = append(summary.Errors, domain.ItemCommitError{
			ItemID: item.ID,
			ISBN:   item.ISBN,
			Error:  err.Error(),
		})

		item.Error = err.Error()
		item.Touch()
		if updateErr := s.store.BatchItems.Update(ctx, item.ID, item); updateErr != nil && s.logger != nil {
			s.logger.WithError(updateErr).Error("failed to record item commit error", "item_id", item.ID)
		}
		return
	}

	if created {
		summary.Created++
	} else {
		summary.Updated++
	}
}

// applyItem mutates inventory for one item. Returns whether a new title was
// created (as opposed to stock added to an existing one).
func (s *IntakeService) applyItem(ctx context.Context, item *domain.IntakeBatchItem) (bool, error) {
	title, createdTitle, err := s.resolveTitle(ctx, item)
	if err != nil {
		return false, err
	}

	qty := max(item.Qty, 1)
	for range qty {
		sku, err := s.sku.Allocate(ctx, item.FinalAgeTier)
		if err != nil {
			return createdTitle, fmt.Errorf("allocate sku: %w", err)
		}

		copyID, err := id.Generate("copy")
		if err != nil {
			return createdTitle, fmt.Errorf("generate copy id: %w", err)
		}

		bookCopy := &domain.Copy{
			TitleID:      title.ID,
			SKU:          sku,
			AgeTier:      item.FinalAgeTier,
			Bin:          item.FinalBin,
			LabelPending: true,
		}
		bookCopy.ID = copyID
		bookCopy.InitTimestamps()

		if err := s.store.Copies.Create(ctx, copyID, bookCopy); err != nil {
			return createdTitle, fmt.Errorf("store copy: %w", err)
		}
	}
	return createdTitle, nil
}

// resolveTitle finds or creates the inventory title an item commits into.
//
// A create action against an ISBN that entered inventory since the scan falls
// back to adding stock instead of failing the item.
func (s *IntakeService) resolveTitle(ctx context.Context, item *domain.IntakeBatchItem) (*domain.Title, bool, error) {
	if item.ExistingTitleID != "" {
		title, err := s.store.Titles.Get(ctx, item.ExistingTitleID)
		if err == nil {
			return title, false, nil
		}
		if !apperrors.Is(err, store.ErrNotFound) {
			return nil, false, err
		}
		// Referenced title vanished; fall through to ISBN resolution.
	}

	title, err := s.store.GetTitleByISBN(ctx, item.ISBN)
	if err == nil {
		return title, false, nil
	}
	if !apperrors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	if item.Action != domain.ActionCreate {
		return nil, false, fmt.Errorf("no existing title for ISBN %s", item.ISBN)
	}

	titleID, err := id.Generate("title")
	if err != nil {
		return nil, false, fmt.Errorf("generate title id: %w", err)
	}

	title = &domain.Title{
		ISBN:     item.ISBN,
		Name:     item.Metadata.Title,
		Author:   item.Metadata.Author,
		Summary:  item.Metadata.Summary,
		CoverURL: item.Metadata.CoverURL,
	}
	if title.Name == "" {
		title.Name = "Unknown Title (" + item.ISBN + ")"
	}
	title.ID = titleID
	title.InitTimestamps()

	if err := s.store.Titles.Create(ctx, titleID, title); err != nil {
		return nil, false, fmt.Errorf("store title: %w", err)
	}
	return title, true, nil
}
