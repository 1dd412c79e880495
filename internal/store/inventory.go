package store

import (
	"context"
	"errors"
	"sort"

	"github.com/storyloop/storyloop-server/internal/domain"
)

// GetTitleByISBN resolves a raw (possibly hyphenated) ISBN to a title.
// Returns ErrNotFound when no title carries that ISBN.
func (s *Store) GetTitleByISBN(ctx context.Context, isbn string) (*domain.Title, error) {
	return s.Titles.GetByIndex(ctx, "isbn", isbn)
}

// TitleExists reports whether a title with the given ISBN is in inventory.
func (s *Store) TitleExists(ctx context.Context, isbn string) (bool, error) {
	_, err := s.GetTitleByISBN(ctx, isbn)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListCopiesByTitle returns all copies of one title.
func (s *Store) ListCopiesByTitle(ctx context.Context, titleID string) ([]*domain.Copy, error) {
	return s.Copies.ListByIndex(ctx, "title", titleID)
}

// ListPendingLabelCopies returns every copy still waiting on a shelf label,
// oldest first so the print queue follows intake order.
func (s *Store) ListPendingLabelCopies(ctx context.Context) ([]*domain.Copy, error) {
	copies, err := s.Copies.ListByIndex(ctx, "label", "pending")
	if err != nil {
		return nil, err
	}
	sort.Slice(copies, func(i, j int) bool {
		return copies[i].CreatedAt.Before(copies[j].CreatedAt)
	})
	return copies, nil
}

// CountCopiesByTier counts shelved copies in one age tier.
func (s *Store) CountCopiesByTier(ctx context.Context, tier domain.AgeTier) (int, error) {
	count := 0
	for c, err := range s.Copies.List(ctx) {
		if err != nil {
			return 0, err
		}
		if c.AgeTier == tier {
			count++
		}
	}
	return count, nil
}

// ListTitles returns all titles in inventory.
func (s *Store) ListTitles(ctx context.Context) ([]*domain.Title, error) {
	var titles []*domain.Title
	for t, err := range s.Titles.List(ctx) {
		if err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}
	sort.Slice(titles, func(i, j int) bool {
		return titles[i].Name < titles[j].Name
	})
	return titles, nil
}
