package pricing

import (
	"math"
	"strings"

	"mealweek/internal/grocery"
)

// Entry binds a name substring to a price per gram. Table order matters:
// the first matching entry wins, so more specific substrings must come
// before more general ones ("peanut butter" before "peanut").
type Entry struct {
	Pattern string
	PerGram float64
}

// Table is an ordered price lookup.
type Table []Entry

// DefaultPerGram is the fallback price for names no table entry matches,
// roughly $4 per kilogram.
const DefaultPerGram = 0.004

// DefaultTable prices common household staples.
var DefaultTable = Table{
	{"chicken breast", 0.009},
	{"chicken", 0.007},
	{"peanut butter", 0.010},
	{"peanut", 0.008},
	{"olive oil", 0.012},
	{"salmon", 0.015},
	{"beef", 0.012},
	{"pork", 0.008},
	{"egg", 0.006},
	{"greek yogurt", 0.005},
	{"yogurt", 0.004},
	{"cheese", 0.011},
	{"butter", 0.009},
	{"milk", 0.0015},
	{"brown rice", 0.0025},
	{"rice", 0.002},
	{"pasta", 0.0025},
	{"oat", 0.003},
	{"bread", 0.004},
	{"potato", 0.0018},
	{"tomato", 0.0035},
	{"onion", 0.002},
	{"carrot", 0.002},
	{"spinach", 0.006},
	{"broccoli", 0.004},
	{"apple", 0.003},
	{"banana", 0.002},
	{"lentil", 0.003},
	{"bean", 0.003},
}

// PerGram resolves the unit price for an item name: the price of the first
// entry whose pattern is contained, case-insensitively, in the name, else
// DefaultPerGram.
func (t Table) PerGram(name string) float64 {
	lower := strings.ToLower(name)
	for _, e := range t {
		if strings.Contains(lower, strings.ToLower(e.Pattern)) {
			return e.PerGram
		}
	}
	return DefaultPerGram
}

// EstimateCost prices a needs list. Grams are floored at zero and rounded
// to the nearest integer per item; the total is rounded to two decimals
// once at the end.
func EstimateCost(items []grocery.Item, table Table) float64 {
	var total float64
	for _, it := range items {
		grams := math.Round(math.Max(0, it.Grams))
		total += grams * table.PerGram(it.Name)
	}
	return math.Round(total*100) / 100
}
