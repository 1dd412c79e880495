package domain

// Title is one book title in inventory, deduped by normalized ISBN.
type Title struct {
	Record
	ISBN     string `json:"isbn"` // normalized digits, unique
	Name     string `json:"name"`
	Author   string `json:"author,omitempty"`
	Summary  string `json:"summary,omitempty"`
	CoverURL string `json:"cover_url,omitempty"`
}

// Copy is one physical copy of a title, identified by its SKU and bound to a
// storage bin. LabelPending marks copies awaiting a shelf label print.
type Copy struct {
	Record
	TitleID      string  `json:"title_id"`
	SKU          string  `json:"sku"`
	AgeTier      AgeTier `json:"age_tier"`
	Bin          Bin     `json:"bin"`
	LabelPending bool    `json:"label_pending"`
}

// SkuCounter is the per-tier SKU sequence. One row per tier, monotonically
// increasing, mutated only through the store's conditional increment.
type SkuCounter struct {
	AgeTier    AgeTier `json:"age_tier"`
	NextNumber int     `json:"next_number"`
}
