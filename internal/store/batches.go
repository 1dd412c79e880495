package store

import (
	"context"
	"sort"

	"github.com/storyloop/storyloop-server/internal/domain"
)

// FindOpenBatch returns the currently open intake batch, or ErrNotFound when
// none is open. The service keeps the open bucket at one batch; should a
// start-transition race ever leave two, the most recently created one wins
// so every reader converges on the same batch.
func (s *Store) FindOpenBatch(ctx context.Context) (*domain.IntakeBatch, error) {
	batches, err := s.Batches.ListByIndex(ctx, "status", string(domain.BatchOpen))
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return nil, ErrNotFound
	}
	sort.Slice(batches, func(i, j int) bool {
		return batches[i].CreatedAt.After(batches[j].CreatedAt)
	})
	return batches[0], nil
}

// ListBatchItems returns a batch's items in scan order.
func (s *Store) ListBatchItems(ctx context.Context, batchID string) ([]*domain.IntakeBatchItem, error) {
	items, err := s.BatchItems.ListByIndex(ctx, "batch", batchID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// BatchHasISBN reports whether the batch already contains a scan of the given
// normalized ISBN.
func (s *Store) BatchHasISBN(ctx context.Context, batchID, isbn string) (bool, error) {
	items, err := s.ListBatchItems(ctx, batchID)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item.ISBN == isbn {
			return true, nil
		}
	}
	return false, nil
}

// ListBatches returns all batches, newest first.
func (s *Store) ListBatches(ctx context.Context) ([]*domain.IntakeBatch, error) {
	var batches []*domain.IntakeBatch
	for b, err := range s.Batches.List(ctx) {
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	sort.Slice(batches, func(i, j int) bool {
		return batches[i].CreatedAt.After(batches[j].CreatedAt)
	})
	return batches, nil
}
