package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/storyloop/storyloop-server/internal/store"
)

type testRecord struct {
	ID     string `json:"id"`
	Parent string `json:"parent"`
	Code   string `json:"code"`
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "intake-store-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	})
	return s
}

func TestEntityCreateAndGet(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[testRecord](s, "test:")

	rec := &testRecord{ID: "1", Code: "alpha"}
	require.NoError(t, entity.Create(context.Background(), "1", rec))

	got, err := entity.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "alpha", got.Code)
}

func TestEntityCreateAlreadyExists(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[testRecord](s, "test:")

	rec := &testRecord{ID: "1"}
	require.NoError(t, entity.Create(context.Background(), "1", rec))

	err := entity.Create(context.Background(), "1", rec)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestEntityGetNotFound(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[testRecord](s, "test:")

	got, err := entity.Get(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Nil(t, got)
}

func TestEntityUniqueIndexConflict(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[testRecord](s, "test:").
		WithIndex("code", func(r *testRecord) []string {
			return []string{r.Code}
		})

	require.NoError(t, entity.Create(context.Background(), "1", &testRecord{ID: "1", Code: "dup"}))

	err := entity.Create(context.Background(), "2", &testRecord{ID: "2", Code: "dup"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestEntityGetByIndex(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[testRecord](s, "test:").
		WithIndex("code", func(r *testRecord) []string {
			return []string{r.Code}
		})

	require.NoError(t, entity.Create(context.Background(), "1", &testRecord{ID: "1", Code: "alpha"}))

	got, err := entity.GetByIndex(context.Background(), "code", "alpha")
	require.NoError(t, err)
	require.Equal(t, "1", got.ID)

	_, err = entity.GetByIndex(context.Background(), "code", "beta")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntityListByIndex(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[testRecord](s, "test:").
		WithIndex("parent", func(r *testRecord) []string {
			return []string{r.Parent + ":" + r.ID}
		})

	require.NoError(t, entity.Create(context.Background(), "1", &testRecord{ID: "1", Parent: "p1"}))
	require.NoError(t, entity.Create(context.Background(), "2", &testRecord{ID: "2", Parent: "p1"}))
	require.NoError(t, entity.Create(context.Background(), "3", &testRecord{ID: "3", Parent: "p2"}))

	got, err := entity.ListByIndex(context.Background(), "parent", "p1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = entity.ListByIndex(context.Background(), "parent", "p2")
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = entity.ListByIndex(context.Background(), "parent", "p3")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestEntityUpdateRewritesIndexes(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[testRecord](s, "test:").
		WithIndex("code", func(r *testRecord) []string {
			return []string{r.Code}
		})

	require.NoError(t, entity.Create(context.Background(), "1", &testRecord{ID: "1", Code: "before"}))
	require.NoError(t, entity.Update(context.Background(), "1", &testRecord{ID: "1", Code: "after"}))

	_, err := entity.GetByIndex(context.Background(), "code", "before")
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := entity.GetByIndex(context.Background(), "code", "after")
	require.NoError(t, err)
	require.Equal(t, "1", got.ID)
}

func TestEntityUpdateNotFound(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[testRecord](s, "test:")

	err := entity.Update(context.Background(), "missing", &testRecord{ID: "missing"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntityDeleteIsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[testRecord](s, "test:").
		WithIndex("code", func(r *testRecord) []string {
			return []string{r.Code}
		})

	require.NoError(t, entity.Create(context.Background(), "1", &testRecord{ID: "1", Code: "gone"}))
	require.NoError(t, entity.Delete(context.Background(), "1"))
	require.NoError(t, entity.Delete(context.Background(), "1"))

	_, err := entity.Get(context.Background(), "1")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Index entry must be gone too, freeing the key for reuse.
	require.NoError(t, entity.Create(context.Background(), "2", &testRecord{ID: "2", Code: "gone"}))
}

func TestEntityList(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[testRecord](s, "test:").
		WithIndex("code", func(r *testRecord) []string {
			return []string{r.Code}
		})

	require.NoError(t, entity.Create(context.Background(), "1", &testRecord{ID: "1", Code: "a"}))
	require.NoError(t, entity.Create(context.Background(), "2", &testRecord{ID: "2", Code: "b"}))

	var seen []string
	for rec, err := range entity.List(context.Background()) {
		require.NoError(t, err)
		seen = append(seen, rec.ID)
	}
	// Index entries must not leak into the listing.
	require.ElementsMatch(t, []string{"1", "2"}, seen)
}
