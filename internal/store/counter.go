package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/storyloop/storyloop-server/internal/domain"
)

const skuCounterPrefix = "skucounter:"

// firstSKUNumber is where a tier's sequence starts when no counter row exists.
const firstSKUNumber = 1

// PeekSKUCounter reads the next unclaimed SKU number for a tier without
// claiming it. A missing counter reads as the start of the sequence.
func (s *Store) PeekSKUCounter(ctx context.Context, tier domain.AgeTier) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	next := firstSKUNumber
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(skuCounterPrefix + string(tier)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var c domain.SkuCounter
			if err := json.Unmarshal(val, &c); err != nil {
				return fmt.Errorf("unmarshal sku counter: %w", err)
			}
			next = c.NextNumber
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// ClaimSKUNumber advances the tier's counter past expected, but only if the
// counter still reads expected. A concurrent allocation that got there first
// surfaces as ErrCounterConflict; the caller re-reads and retries.
func (s *Store) ClaimSKUNumber(ctx context.Context, tier domain.AgeTier, expected int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(skuCounterPrefix + string(tier))

	err := s.db.Update(func(txn *badger.Txn) error {
		current := firstSKUNumber
		item, err := txn.Get(key)
		if err == nil {
			if err := item.Value(func(val []byte) error {
				var c domain.SkuCounter
				if err := json.Unmarshal(val, &c); err != nil {
					return fmt.Errorf("unmarshal sku counter: %w", err)
				}
				current = c.NextNumber
				return nil
			}); err != nil {
				return err
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if current != expected {
			return ErrCounterConflict
		}

		data, err := json.Marshal(domain.SkuCounter{AgeTier: tier, NextNumber: expected + 1})
		if err != nil {
			return fmt.Errorf("marshal sku counter: %w", err)
		}
		return txn.Set(key, data)
	})

	// Badger's optimistic concurrency reports a lost race at commit time;
	// fold it into the same retryable error.
	if errors.Is(err, badger.ErrConflict) {
		return ErrCounterConflict
	}
	return err
}
