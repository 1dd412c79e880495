package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyloop/storyloop-server/internal/classify"
	"github.com/storyloop/storyloop-server/internal/config"
	"github.com/storyloop/storyloop-server/internal/domain"
	apperrors "github.com/storyloop/storyloop-server/internal/errors"
	"github.com/storyloop/storyloop-server/internal/service"
	"github.com/storyloop/storyloop-server/internal/store"
)

// stubMetadata serves canned lookups; unknown ISBNs fail like a network miss.
type stubMetadata struct {
	books map[string]domain.BookMetadata
}

func (m *stubMetadata) Lookup(_ context.Context, isbn string) (domain.BookMetadata, error) {
	if meta, ok := m.books[isbn]; ok {
		return meta, nil
	}
	return domain.BookMetadata{}, assert.AnError
}

type testEnv struct {
	store      *store.Store
	intake     *service.IntakeService
	classifier *service.ClassificationService
	sku        *service.SkuService
	inventory  *service.InventoryService
	overrides  *service.OverrideService
	metadata   *stubMetadata
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "intake-service-test-*")
	require.NoError(t, err)

	st, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	})

	require.NoError(t, st.SeedDefaultRules(context.Background()))

	engine := classify.NewEngine(classify.Options{})
	classifier := service.NewClassificationService(st, engine, nil)
	sku := service.NewSkuService(st, nil, config.DefaultCounterRetries)
	metadata := &stubMetadata{books: map[string]domain.BookMetadata{
		"9781111111111": {
			Title:   "Baby's First Zoo",
			Summary: "a board book for toddlers",
		},
		"9782222222222": {
			Title:    "Robot Friends",
			Subjects: "science",
			Summary:  "two robots learn about friendship",
		},
	}}
	intake := service.NewIntakeService(st, classifier, sku, metadata, nil, domain.BatchItemCap)

	return &testEnv{
		store:      st,
		intake:     intake,
		classifier: classifier,
		sku:        sku,
		inventory:  service.NewInventoryService(st, nil),
		overrides:  service.NewOverrideService(st, nil),
		metadata:   metadata,
	}
}

func TestStartBatchReusesOpenBatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.BatchOpen, first.Status)

	second, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestStartBatchAfterTerminalStateOpensNew(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)

	_, err = env.intake.CancelBatch(ctx, first.ID)
	require.NoError(t, err)

	second, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestScanRejectsInvalidISBN(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)

	for _, isbn := range []string{"12345", "not-an-isbn", "97811111111112345"} {
		_, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: isbn})
		require.Error(t, err, "isbn %q", isbn)
	}

	_, err = env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "123456789X"})
	require.ErrorIs(t, err, apperrors.ErrInvalidISBN)
}

func TestScanNormalizesISBN(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)

	item, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "978-1111111111"})
	require.NoError(t, err)
	assert.Equal(t, "9781111111111", item.ISBN)
}

func TestScanRejectsDuplicateISBN(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)

	_, err = env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9781111111111"})
	require.NoError(t, err)

	// Same book, different hyphenation: still a duplicate.
	_, err = env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "978-1-11-111111-1"})
	require.ErrorIs(t, err, apperrors.ErrDuplicateInBatch)
}

func TestScanEnforcesBatchCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	engine := classify.NewEngine(classify.Options{})
	classifier := service.NewClassificationService(env.store, engine, nil)
	sku := service.NewSkuService(env.store, nil, config.DefaultCounterRetries)
	small := service.NewIntakeService(env.store, classifier, sku, env.metadata, nil, 2)

	batch, err := small.StartBatch(ctx)
	require.NoError(t, err)

	_, err = small.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9781111111111"})
	require.NoError(t, err)
	_, err = small.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9782222222222"})
	require.NoError(t, err)

	_, err = small.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9783333333333"})
	require.ErrorIs(t, err, apperrors.ErrBatchFull)
}

func TestScanFillsSuggestionsAndDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)

	item, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9781111111111"})
	require.NoError(t, err)

	// "board book for toddlers" trips the tier heuristic; "zoo" in the title
	// trips the bin keyword table.
	assert.Equal(t, domain.AgeTierHatch, item.SuggestedAgeTier)
	assert.Equal(t, domain.BinLife, item.SuggestedBin)
	assert.Equal(t, item.SuggestedAgeTier, item.FinalAgeTier)
	assert.Equal(t, item.SuggestedBin, item.FinalBin)
	assert.Equal(t, domain.ActionCreate, item.Action)
	assert.Equal(t, 1, item.Qty)
	assert.Equal(t, 0, item.Position)
	assert.Equal(t, "Baby's First Zoo", item.Metadata.Title)
}

func TestScanUnknownMetadataGetsPlaceholder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)

	item, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9789999999999"})
	require.NoError(t, err)
	assert.Equal(t, "Unknown Title (9789999999999)", item.Metadata.Title)
	assert.Equal(t, domain.AgeTierNest, item.SuggestedAgeTier)
	assert.Empty(t, item.SuggestedBin)
}

func TestScanExistingTitleDefaultsToIncreaseQty(t *testing.T) {
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
	assert.Equal(t, domain.ActionIncreaseQty, item.Action)
	assert.Equal(t, "title_existing", item.ExistingTitleID)
}

func TestScanClosedBatchFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)
	_, err = env.intake.CancelBatch(ctx, batch.ID)
	require.NoError(t, err)

	_, err = env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9781111111111"})
	require.ErrorIs(t, err, apperrors.ErrBatchNotOpen)
}

func TestUpdateItemAppliesEdits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)
	item, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9781111111111"})
	require.NoError(t, err)

	updated, err := env.intake.UpdateItem(ctx, batch.ID, item.ID, service.UpdateItemRequest{
		FinalAgeTier: "NEST",
		FinalBin:     "PICTURE",
		Qty:          3,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AgeTierNest, updated.FinalAgeTier)
	assert.Equal(t, domain.BinPicture, updated.FinalBin)
	assert.Equal(t, 3, updated.Qty)

	// Suggestions are never rewritten by edits.
	assert.Equal(t, domain.AgeTierHatch, updated.SuggestedAgeTier)
}

func TestUpdateItemRejectsUnknownValues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)
	item, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9781111111111"})
	require.NoError(t, err)

	_, err = env.intake.UpdateItem(ctx, batch.ID, item.ID, service.UpdateItemRequest{FinalBin: "BASEMENT"})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = env.intake.UpdateItem(ctx, batch.ID, item.ID, service.UpdateItemRequest{Action: "explode"})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = env.intake.UpdateItem(ctx, batch.ID, "item_missing", service.UpdateItemRequest{Qty: 2})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateItemCorrectsISBN(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)
	item, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9781111111111"})
	require.NoError(t, err)

	// A mis-keyed scan gets fixed in place; the new ISBN is normalized.
	updated, err := env.intake.UpdateItem(ctx, batch.ID, item.ID, service.UpdateItemRequest{
		ISBN: "978-2222222222",
	})
	require.NoError(t, err)
	assert.Equal(t, "9782222222222", updated.ISBN)

	// The old ISBN is free again.
	_, err = env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9781111111111"})
	require.NoError(t, err)

	_, err = env.intake.UpdateItem(ctx, batch.ID, item.ID, service.UpdateItemRequest{ISBN: "123456789X"})
	require.ErrorIs(t, err, apperrors.ErrInvalidISBN)
}

func TestUpdateItemISBNRejectsDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)
	_, err = env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9781111111111"})
	require.NoError(t, err)
	second, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9782222222222"})
	require.NoError(t, err)

	_, err = env.intake.UpdateItem(ctx, batch.ID, second.ID, service.UpdateItemRequest{
		ISBN: "978-1-11-111111-1",
	})
	require.ErrorIs(t, err, apperrors.ErrDuplicateInBatch)
}

func TestRemoveItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)
	item, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9781111111111"})
	require.NoError(t, err)

	require.NoError(t, env.intake.RemoveItem(ctx, batch.ID, item.ID))

	view, err := env.intake.GetBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	// The ISBN is free to scan again.
	_, err = env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9781111111111"})
	require.NoError(t, err)
}

func TestScanAfterRemoveKeepsScanOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)

	first, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9781111111111"})
	require.NoError(t, err)
	second, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9782222222222"})
	require.NoError(t, err)

	require.NoError(t, env.intake.RemoveItem(ctx, batch.ID, first.ID))

	// The freed slot is not reused: the next scan still lands after the
	// surviving item.
	third, err := env.intake.Scan(ctx, batch.ID, service.ScanRequest{ISBN: "9783333333333"})
	require.NoError(t, err)
	require.NotEqual(t, second.Position, third.Position)
	assert.Greater(t, third.Position, second.Position)

	view, err := env.intake.GetBatch(ctx, batch.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, second.ID, view.Items[0].ID)
	assert.Equal(t, third.ID, view.Items[1].ID)
}

func TestCancelBatchIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch, err := env.intake.StartBatch(ctx)
	require.NoError(t, err)

	cancelled, err := env.intake.CancelBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BatchCancelled, cancelled.Status)

	_, err = env.intake.CancelBatch(ctx, batch.ID)
	require.ErrorIs(t, err, apperrors.ErrBatchNotOpen)
}
