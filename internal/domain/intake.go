package domain

// BatchStatus is the lifecycle state of an intake batch.
type BatchStatus string

// Batch states. committed and cancelled are terminal; once a batch leaves
// open it is immutable.
const (
	BatchOpen      BatchStatus = "open"
	BatchCommitted BatchStatus = "committed"
	BatchCancelled BatchStatus = "cancelled"
)

// BatchItemCap is the maximum number of items in one intake batch.
// Scanning is refused once the cap is reached.
const BatchItemCap = 20

// IntakeBatch is a bounded, stateful session of scanned-but-not-yet-committed
// book receipts. At most one batch is open at a time; starting intake reuses
// the existing open batch.
type IntakeBatch struct {
	Record
	Status BatchStatus `json:"status"`
}

// IsOpen reports whether the batch accepts scans and edits.
func (b *IntakeBatch) IsOpen() bool {
	return b.Status == BatchOpen
}

// ItemAction determines what the commit processor does with an item.
type ItemAction string

// Item actions. increase_qty and new_copy both add a copy to an existing
// title; the distinction is kept for the audit trail. skip leaves inventory
// untouched.
const (
	ActionCreate      ItemAction = "create"
	ActionIncreaseQty ItemAction = "increase_qty"
	ActionNewCopy     ItemAction = "new_copy"
	ActionSkip        ItemAction = "skip"
)

// Valid reports whether a is a known item action.
func (a ItemAction) Valid() bool {
	switch a {
	case ActionCreate, ActionIncreaseQty, ActionNewCopy, ActionSkip:
		return true
	}
	return false
}

// IntakeBatchItem is one scanned book within a batch. Suggested values come
// from the classifier at scan time; final values are what the operator
// confirms and what commit uses. Position preserves scan order.
type IntakeBatchItem struct {
	Record
	BatchID          string       `json:"batch_id"`
	ISBN             string       `json:"isbn"` // normalized digits
	Metadata         BookMetadata `json:"metadata"`
	SuggestedAgeTier AgeTier      `json:"suggested_age_tier,omitempty"`
	SuggestedBin     Bin          `json:"suggested_bin,omitempty"`
	FinalAgeTier     AgeTier      `json:"final_age_tier,omitempty"`
	FinalBin         Bin          `json:"final_bin,omitempty"`
	Action           ItemAction   `json:"action"`
	Qty              int          `json:"qty"`
	Position         int          `json:"position"`
	ExistingTitleID  string       `json:"existing_title_id,omitempty"`
	Error            string       `json:"error,omitempty"` // recorded per-item commit failure
}

// ReadyToCommit reports whether the item has the final fields commit needs.
// Skipped items are always ready.
func (i *IntakeBatchItem) ReadyToCommit() bool {
	if i.Action == ActionSkip {
		return true
	}
	return i.FinalAgeTier != "" && i.FinalBin != ""
}

// ItemCommitError records one per-item failure during commit.
type ItemCommitError struct {
	ItemID string `json:"item_id"`
	ISBN   string `json:"isbn"`
	Error  string `json:"error"`
}

// CommitSummary aggregates the outcome of committing a batch. Per-item
// failures are counted here and recorded on the items; they never abort
// sibling items or the batch transition.
type CommitSummary struct {
	BatchID string            `json:"batch_id"`
	Created int               `json:"created"`
	Updated int               `json:"updated"`
	Skipped int               `json:"skipped"`
	Failed  int               `json:"failed"`
	Errors  []ItemCommitError `json:"errors,omitempty"`
}
