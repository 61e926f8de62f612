package models

// UnknownBrand replaces an empty brand when a product is recorded in history.
const UnknownBrand = "Unknown Brand"

// HistoryItem is a truncated snapshot of a product taken when it was viewed.
type HistoryItem struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	Brand     string  `json:"brand"`
	Price     float64 `json:"price"`
	Thumbnail string  `json:"thumbnail"`
}

// SnapshotOf builds the history entry for p.
func SnapshotOf(p Product) HistoryItem {
	brand := p.Brand
	if brand == "" {
		brand = UnknownBrand
	}
	return HistoryItem{
		ID:        p.ID,
		Title:     p.Title,
		Brand:     brand,
		Price:     p.Price,
		Thumbnail: p.Thumbnail,
	}
}
