package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyloop/storyloop-server/internal/domain"
	apperrors "github.com/storyloop/storyloop-server/internal/errors"
	"github.com/storyloop/storyloop-server/internal/service"
)

func TestCommitEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)

	item, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9781111111111"})
	require.NoError(t, err)
	require.Equal(t, domain.AgeTierHatch, item.FinalAgeTier)
	require.Equal(t, domain.BinLife, item.FinalBin)

	summary, err := env.intake.CommitBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Zero(t, summary.Failed)

	// Batch reached its terminal state.
	view, err := env.intake.GetBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BatchCommitted, view.Batch.Status)

	// Inventory holds the title with one labeled-pending copy.
	title, err := env.store.GetTitleByISBN(ctx, "9781111111111")
	require.NoError(t, err)
	assert.Equal(t, "Baby's First Zoo", title.Name)

	copies, err := env.store.ListCopiesByTitle(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, copies, 1)
	assert.Equal(t, "BN-HATCH-0001", copies[0].SKU)
	assert.Equal(t, domain.AgeTierHatch, copies[0].AgeTier)
	assert.Equal(t, domain.BinLife, copies[0].Bin)
	assert.True(t, copies[0].LabelPending)
}

func TestCommitValidationLeavesBatchOpen(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)

	// No metadata, no bin keywords: the item arrives with no final bin.
	item, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9789999999999"})
	require.NoError(t, err)
	require.Empty(t, item.FinalBin)

	_, err = env.intake.CommitBatch(ctx, batch.ID)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	// Validation failure mutates nothing: batch still open, no inventory.
	view, err := env.intake.GetBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BatchOpen, view.Batch.Status)

	titles, err := env.store.ListTitles(ctx)
	require.NoError(t, err)
	assert.Empty(t, titles)

	// Fixing the item unblocks the commit.
	_, err = env.intake.UpdateItem(ctx, batch.ID, item.ID, service.UpdateItemRequest{FinalBin: "EARLY"})
	require.NoError(t, err)

	summary, err := env.intake.CommitBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
}

func TestCommitSkippedItemsTouchNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)

	item, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9789999999999"})
	require.NoError(t, err)

	// A skipped item needs no final values.
	_, err = env.intake.UpdateItem(ctx, batch.ID, item.ID, service.UpdateItemRequest{Action: "skip"})
	require.NoError(t, err)

	summary, err := env.intake.CommitBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Zero(t, summary.Created)

	titles, err := env.store.ListTitles(ctx)
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestCommitQtyAllocatesDistinctSKUs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)

	item, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9781111111111", Qty: 3})
	require.NoError(t, err)
	require.Equal(t, 3, item.Qty)

	_, err = env.intake.CommitBatch(ctx, batch.ID)
	require.NoError(t, err)

	title, err := env.store.GetTitleByISBN(ctx, "9781111111111")
	require.NoError(t, err)
	copies, err := env.store.ListCopiesByTitle(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, copies, 3)

	skus := make(map[string]bool)
	for _, c := range copies {
		skus[c.SKU] = true
	}
	assert.Len(t, skus, 3)
	assert.Contains(t, skus, "BN-HATCH-0001")
	assert.Contains(t, skus, "BN-HATCH-0003")
}

func TestCommitIncreaseQtyAddsCopyToExistingTitle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	title := &domain.Title{ISBN: "9781111111111", Name: "Baby's First Zoo"}
	title.ID = "title_existing"
	title.InitTimestamps()
	require.NoError(t, env.store.Titles.Create(ctx, title.ID, title))

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)

	item, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9781111111111"})
	require.NoError(t, err)
	require.Equal(t, domain.ActionIncreaseQty, item.Action)

	summary, err := env.intake.CommitBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
	assert.Zero(t, summary.Created)

	copies, err := env.store.ListCopiesByTitle(ctx, "title_existing")
	require.NoError(t, err)
	assert.Len(t, copies, 1)
}

func TestCommitIsolatesItemFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)

	good, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9781111111111"})
	require.NoError(t, err)

	// Force a doomed item: stock for a title that does not exist.
	bad, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9782222222222"})
	require.NoError(t, err)
	_, err = env.intake.UpdateItem(ctx, batch.ID, bad.ID, service.UpdateItemRequest{
		Action:   "increase_qty",
		FinalBin: "STEM",
	})
	require.NoError(t, err)

	summary, err := env.intake.CommitBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, bad.ID, summary.Errors[0].ItemID)
	assert.Equal(t, "9782222222222", summary.Errors[0].ISBN)

	// The failure is recorded on the item and the batch still commits.
	view, err := env.intake.GetBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BatchCommitted, view.Batch.Status)
	for _, item := range view.Items {
		if item.ID == bad.ID {
			assert.NotEmpty(t, item.Error)
		}
	}

	// The good sibling reached inventory.
	_, err = env.store.GetTitleByISBN(ctx, good.ISBN)
	require.NoError(t, err)
}

func TestCommitClosedBatchFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)
	_, err = env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9781111111111"})
	require.NoError(t, err)

	_, err = env.intake.CommitBatch(ctx, batch.ID)
	require.NoError(t, err)

	_, err = env.intake.CommitBatch(ctx, batch.ID)
	require.ErrorIs(t, err, apperrors.ErrBatchNotOpen)
}

func TestCommitFeedsLabelQueue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)
	_, err = env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9781111111111"})
	require.NoError(t, err)
	_, err = env.intake.CommitBatch(ctx, batch.ID)
	require.NoError(t, err)

	pending, err := env.inventory.ListPendingLabels(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	printed, err := env.inventory.MarkLabelPrinted(ctx, pending[0].ID)
	require.NoError(t, err)
	assert.False(t, printed.LabelPending)

	pending, err = env.inventory.ListPendingLabels(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
