// Package store persists intake state in an embedded Badger database:
// inventory titles and copies, intake batches and their items, the
// classification rule tables, and the per-tier SKU counters.
package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/storyloop/storyloop-server/internal/domain"
	"github.com/storyloop/storyloop-server/internal/logger"
	"github.com/storyloop/storyloop-server/internal/normalize"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *logger.Logger

	Titles       *Entity[domain.Title]
	Copies       *Entity[domain.Copy]
	Batches      *Entity[domain.IntakeBatch]
	BatchItems   *Entity[domain.IntakeBatchItem]
	Overrides    *Entity[domain.Override]
	KeywordRules *Entity[domain.KeywordRule]
	TopicRules   *Entity[domain.TopicRule]
}

// New opens the database at path and wires up the entity tables.
func New(path string, log *logger.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Badger's internal logging is too chatty
	opts.SyncWrites = true       // scans must survive a crash
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	s := &Store{db: db, logger: log}
	s.initTitles()
	s.initCopies()
	s.initBatches()
	s.initBatchItems()
	s.initRules()

	if log != nil {
		log.Info("database opened", "path", path)
	}
	return s, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing database")
	}
	return s.db.Close()
}

// initTitles indexes titles uniquely by normalized ISBN so intake can resolve
// a scan to an existing title in one lookup.
func (s *Store) initTitles() {
	s.Titles = NewEntity[domain.Title](s, "title:").
		WithIndexTransform("isbn",
			func(t *domain.Title) []string {
				return []string{t.ISBN}
			},
			func(raw string) string {
				isbn, _ := normalize.ISBN(raw)
				return isbn
			},
		)
}

// initCopies indexes copies by owning title and, while a label print is
// outstanding, under the shared "pending" bucket.
func (s *Store) initCopies() {
	s.Copies = NewEntity[domain.Copy](s, "copy:").
		WithIndex("title", func(c *domain.Copy) []string {
			return []string{c.TitleID + ":" + c.ID}
		}).
		WithIndex("label", func(c *domain.Copy) []string {
			if !c.LabelPending {
				return nil
			}
			return []string{"pending:" + c.ID}
		})
}

// initBatches indexes batches by status; the open bucket holds at most one.
func (s *Store) initBatches() {
	s.Batches = NewEntity[domain.IntakeBatch](s, "batch:").
		WithIndex("status", func(b *domain.IntakeBatch) []string {
			return []string{string(b.Status) + ":" + b.ID}
		})
}

// initBatchItems indexes items by batch, plus a uniqueness guard on
// (batch, ISBN) so a duplicate scan is rejected at the storage layer too.
func (s *Store) initBatchItems() {
	s.BatchItems = NewEntity[domain.IntakeBatchItem](s, "bitem:").
		WithIndex("batch", func(i *domain.IntakeBatchItem) []string {
			return []string{i.BatchID + ":" + i.ID}
		}).
		WithIndex("batch_isbn", func(i *domain.IntakeBatchItem) []string {
			return []string{i.BatchID + "#" + i.ISBN}
		})
}

func (s *Store) initRules() {
	s.Overrides = NewEntity[domain.Override](s, "override:")
	s.KeywordRules = NewEntity[domain.KeywordRule](s, "kwrule:")
	s.TopicRules = NewEntity[domain.TopicRule](s, "toprule:")
}
