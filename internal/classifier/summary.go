package classifier

import (
	"github.com/Veraticus/spice-rules/internal/model"
	"github.com/Veraticus/spice-rules/internal/rules"
)

// CategoryTotal aggregates categorized transactions for one category.
type CategoryTotal struct {
	Category string
	Count    int
	Total    float64
}

// Summarize totals txns per category. Categories known to the rule set come
// first in rule set order, followed by any others in first-seen order, with
// rules.Uncategorized always last. Categories without transactions are omitted.
func (c *Classifier) Summarize(txns []model.CategorizedTransaction) []CategoryTotal {
	byName := make(map[string]*CategoryTotal)
	var extra []string

	for _, txn := range txns {
		t, ok := byName[txn.Category]
		if !ok {
			t = &CategoryTotal{Category: txn.Category}
			byName[txn.Category] = t
			if txn.Category != rules.Uncategorized && !c.set.Has(txn.Category) {
				extra = append(extra, txn.Category)
			}
		}
		t.Count++
		t.Total += txn.Amount
	}

	order := append(c.set.Names(), extra...)
	order = append(order, rules.Uncategorized)

	out := make([]CategoryTotal, 0, len(byName))
	for _, name := range order {
		if t, ok := byName[name]; ok {
			out = append(out, *t)
			delete(byName, name)
		}
	}
	return out
}
