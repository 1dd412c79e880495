package service

import (
	"context"

	"github.com/storyloop/storyloop-server/internal/domain"
	apperrors "github.com/storyloop/storyloop-server/internal/errors"
	"github.com/storyloop/storyloop-server/internal/logger"
	"github.com/storyloop/storyloop-server/internal/store"
)

// InventoryService reads committed inventory and runs the label print queue.
type InventoryService struct {
	store  *store.Store
	logger *logger.Logger
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(st *store.Store, log *logger.Logger) *InventoryService {
	return &InventoryService{store: st, logger: log}
}

// TitleView is a title together with its copies.
type TitleView struct {
	Title  *domain.Title  `json:"title"`
	Copies []*domain.Copy `json:"copies"`
}

// ListTitles returns all titles in inventory.
func (s *InventoryService) ListTitles(ctx context.Context) ([]*domain.Title, error) {
	return s.store.ListTitles(ctx)
}

// GetTitle returns one title with its copies.
func (s *InventoryService) GetTitle(ctx context.Context, titleID string) (*TitleView, error) {
	title, err := s.store.Titles.Get(ctx, titleID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundf("title %s not found", titleID)
		}
		return nil, err
	}

	copies, err := s.store.ListCopiesByTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}
	return &TitleView{Title: title, Copies: copies}, nil
}

// ListPendingLabels returns every copy waiting on a shelf label, in intake
// order.
func (s *InventoryService) ListPendingLabels(ctx context.Context) ([]*domain.Copy, error) {
	return s.store.ListPendingLabelCopies(ctx)
}

// MarkLabelPrinted clears the pending flag once a copy's label is printed.
func (s *InventoryService) MarkLabelPrinted(ctx context.Context, copyID string) (*domain.Copy, error) {
	bookCopy, err := s.store.Copies.Get(ctx, copyID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundf("copy %s not found", copyID)
		}
		return nil, err
	}

	if !bookCopy.LabelPending {
		return bookCopy, nil // already printed; idempotent
	}

	bookCopy.LabelPending = false
	bookCopy.Touch()
	if err := s.store.Copies.Update(ctx, copyID, bookCopy); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("label printed", "copy_id", copyID, "sku", bookCopy.SKU)
	}
	return bookCopy, nil
}
