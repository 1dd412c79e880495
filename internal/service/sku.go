package service

import (
	"context"
	"fmt"

	"github.com/storyloop/storyloop-server/internal/domain"
	apperrors "github.com/storyloop/storyloop-server/internal/errors"
	"github.com/storyloop/storyloop-server/internal/logger"
	"github.com/storyloop/storyloop-server/internal/store"
)

// skuFormat renders a SKU from the tier prefix and sequence number.
// Numbers are zero-padded to four digits but keep growing past 9999.
const skuFormat = "BN-%s-%04d"

// SkuService allocates collision-safe shelf SKUs, one sequence per age tier.
type SkuService struct {
	store   *store.Store
	logger  *logger.Logger
	retries int
}

// NewSkuService creates a new SKU allocator. retries bounds how many counter
// conflicts one allocation will absorb before giving up.
func NewSkuService(st *store.Store, log *logger.Logger, retries int) *SkuService {
	if retries < 1 {
		retries = 1
	}
	return &SkuService{store: st, logger: log, retries: retries}
}

// Allocate claims the next SKU for a tier.
//
// The claim is an optimistic conditional increment: read the counter, then
// advance it only if unchanged. A lost race re-reads and retries up to the
// configured bound; two successful allocations can never return the same SKU.
func (s *SkuService) Allocate(ctx context.Context, tier domain.AgeTier) (string, error) {
	if !tier.Valid() {
		return "", apperrors.Validationf("unknown age tier %q", tier)
	}

	var lastErr error
	for attempt := 0; attempt < s.retries; attempt++ {
		n, err := s.store.PeekSKUCounter(ctx, tier)
		if err != nil {
			return "", apperrors.Wrap(err, apperrors.CodeInternal, "read sku counter")
		}

		err = s.store.ClaimSKUNumber(ctx, tier, n)
		if err == nil {
			return FormatSKU(tier, n), nil
		}
		if !apperrors.Is(err, store.ErrCounterConflict) {
			return "", apperrors.Wrap(err, apperrors.CodeInternal, "claim sku number")
		}

		lastErr = err
		if s.logger != nil {
			s.logger.Debug("sku counter conflict, retrying", "tier", tier, "attempt", attempt+1)
		}
	}

	return "", apperrors.CounterConflict(
		fmt.Sprintf("could not allocate SKU for tier %s after %d attempts", tier, s.retries),
	).WithCause(lastErr)
}

// NextFromShelfCount derives the next sequence number from the number of
// copies already shelved in the tier, without touching the counter.
//
// This is the simpler allocation strategy: correct while receiving is
// single-threaded, and useful for reconciling a counter against the shelf.
// Allocation itself always goes through Allocate, because two concurrent
// receivers counting the same shelf would mint the same number.
func (s *SkuService) NextFromShelfCount(ctx context.Context, tier domain.AgeTier) (string, error) {
	if !tier.Valid() {
		return "", apperrors.Validationf("unknown age tier %q", tier)
	}

	count, err := s.store.CountCopiesByTier(ctx, tier)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInternal, "count shelved copies")
	}
	return FormatSKU(tier, count+1), nil
}

// FormatSKU renders the canonical SKU string for a tier and sequence number.
func FormatSKU(tier domain.AgeTier, n int) string {
	return fmt.Sprintf(skuFormat, tier.SkuPrefix(), n)
}
