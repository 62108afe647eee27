package pantry

import "mealweek/internal/grocery"

// ReconcileResult splits a needs list into what the pantry already covers
// and what still has to be bought.
type ReconcileResult struct {
	Need []grocery.Item `json:"need"`
	Have []grocery.Item `json:"have"`
}

// Reconcile nets a grocery needs list against pantry inventory. It is a
// pure computation: pantry state is never mutated here.
//
// For every input item with a pantry match, the have grams and need grams
// sum exactly to the item's grams; pantry surplus beyond the need is not
// reported anywhere. Items without a pantry match pass through to Need
// unchanged. Duplicate pantry names resolve last-write-wins, though the
// pantry is assumed name-unique in practice.
func Reconcile(items []grocery.Item, pantryItems []Item) ReconcileResult {
	lookup := make(map[string]Item, len(pantryItems))
	for _, p := range pantryItems {
		lookup[grocery.NormalizeName(p.Name)] = p
	}

	res := ReconcileResult{Need: []grocery.Item{}, Have: []grocery.Item{}}
	for _, it := range items {
		p, ok := lookup[grocery.NormalizeName(it.Name)]
		if !ok {
			res.Need = append(res.Need, it)
			continue
		}

		var pantryGrams float64
		if p.Grams != nil {
			pantryGrams = *p.Grams
		}
		needed := it.Grams

		if pantryGrams >= needed {
			res.Have = append(res.Have, grocery.Item{Name: it.Name, Grams: needed})
			continue
		}
		res.Have = append(res.Have, grocery.Item{Name: it.Name, Grams: pantryGrams})
		res.Need = append(res.Need, grocery.Item{Name: it.Name, Grams: needed - pantryGrams})
	}
	return res
}
