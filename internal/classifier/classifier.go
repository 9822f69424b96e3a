// Package classifier assigns categories to transaction descriptions using an
// ordered rule set. The first matching rule wins.
package classifier

import (
	"context"
	"strings"

	"github.com/Veraticus/spice-rules/internal/model"
	"github.com/Veraticus/spice-rules/internal/rules"
)

// Classify returns the category of the first rule in set that matches
// description, or rules.Uncategorized. Categories are tried in order and,
// within a category, rules in order.
func Classify(description string, set *rules.RuleSet) string {
	return explain(description, set).Category
}

// Match describes which rule decided a classification.
type Match struct {
	Category  string
	Rule      rules.Rule
	RuleIndex int
	Matched   bool
}

func explain(description string, set *rules.RuleSet) Match {
	lowered := strings.ToLower(description)

	result := Match{Category: rules.Uncategorized, RuleIndex: -1}
	set.Each(func(category string, index int, r rules.Rule) bool {
		if !r.Match(description, lowered) {
			return true
		}
		result = Match{
			Category:  category,
			Rule:      r,
			RuleIndex: index,
			Matched:   true,
		}
		return false
	})

	return result
}

// Classifier binds a rule set built at startup. It holds no mutable state and
// is safe for concurrent use.
type Classifier struct {
	set *rules.RuleSet
}

// New creates a classifier over set. A nil set classifies everything as
// rules.Uncategorized.
func New(set *rules.RuleSet) *Classifier {
	return &Classifier{set: set}
}

// RuleSet returns the rule set the classifier was built with.
func (c *Classifier) RuleSet() *rules.RuleSet {
	return c.set
}

// GetCategory returns the category for description.
func (c *Classifier) GetCategory(description string) string {
	return Classify(description, c.set)
}

// Explain reports the category for description together with the rule that
// produced it. Matched is false when the result is rules.Uncategorized.
func (c *Classifier) Explain(description string) Match {
	return explain(description, c.set)
}

// Categorize returns a categorized copy of txn.
func (c *Classifier) Categorize(txn model.Transaction) model.CategorizedTransaction {
	return txn.WithCategory(c.GetCategory(txn.Description))
}

// CategorizeAll categorizes txns in order. It stops early if ctx is canceled.
func (c *Classifier) CategorizeAll(ctx context.Context, txns []model.Transaction) ([]model.CategorizedTransaction, error) {
	return c.CategorizeEach(ctx, txns, nil)
}

// CategorizeEach is CategorizeAll with a callback invoked after every
// transaction, used to drive progress output. onEach may be nil.
func (c *Classifier) CategorizeEach(ctx context.Context, txns []model.Transaction, onEach func(model.CategorizedTransaction)) ([]model.CategorizedTransaction, error) {
	out := make([]model.CategorizedTransaction, 0, len(txns))
	for _, txn := range txns {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		ct := c.Categorize(txn)
		out = append(out, ct)
		if onEach != nil {
			onEach(ct)
		}
	}
	return out, nil
}
