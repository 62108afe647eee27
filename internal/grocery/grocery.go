package grocery

import "strings"

// Item is one aggregated grocery need. Two items with the same normalized
// name are the same logical entity and are merged, never duplicated, within
// one aggregation run.
type Item struct {
	Name  string  `json:"name"`
	Grams float64 `json:"grams"`
	Count int     `json:"count"`
}

// List is the outcome of one aggregation pass. Items is sorted by display
// name ascending, case-insensitively. Missing holds one "date: item name"
// entry, in encounter order, for every planned item that lacked a component
// breakdown.
type List struct {
	Items   []Item   `json:"items"`
	Missing []string `json:"missing"`
}

// NormalizeName returns the deduplication and reconciliation key for an
// ingredient or pantry name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
