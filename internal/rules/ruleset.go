package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Uncategorized is returned when no rule matches a description.
const Uncategorized = "Uncategorized"

// Rule set errors.
var (
	ErrEmptyCategoryName = errors.New("category name cannot be empty")
	ErrDuplicateCategory = errors.New("duplicate category")
)

// Category is a named, ordered list of rules.
type Category struct {
	Name  string
	Rules []Rule
}

// RuleSet is an ordered mapping from category name to rules. Categories are
// tried in the order given and, within a category, rules in listed order.
// A RuleSet is immutable once built and safe for concurrent use.
type RuleSet struct {
	categories []Category
}

// NewRuleSet builds a rule set from categories in priority order.
func NewRuleSet(categories ...Category) (*RuleSet, error) {
	seen := make(map[string]struct{}, len(categories))
	copied := make([]Category, 0, len(categories))

	for i, c := range categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("category at index %d: %w", i, ErrEmptyCategoryName)
		}
		if _, ok := seen[c.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCategory, c.Name)
		}
		seen[c.Name] = struct{}{}

		copied = append(copied, Category{
			Name:  c.Name,
			Rules: append([]Rule(nil), c.Rules...),
		})
	}

	return &RuleSet{categories: copied}, nil
}

// MustRuleSet is like NewRuleSet but panics on error.
func MustRuleSet(categories ...Category) *RuleSet {
	rs, err := NewRuleSet(categories...)
	if err != nil {
		panic(err)
	}
	return rs
}

// Len returns the number of categories.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.categories)
}

// RuleCount returns the total number of rules across all categories.
func (rs *RuleSet) RuleCount() int {
	if rs == nil {
		return 0
	}
	n := 0
	for _, c := range rs.categories {
		n += len(c.Rules)
	}
	return n
}

// Names returns category names in evaluation order.
func (rs *RuleSet) Names() []string {
	if rs == nil {
		return nil
	}
	names := make([]string, len(rs.categories))
	for i, c := range rs.categories {
		names[i] = c.Name
	}
	return names
}

// Categories returns a copy of the categories in evaluation order.
func (rs *RuleSet) Categories() []Category {
	if rs == nil {
		return nil
	}
	out := make([]Category, len(rs.categories))
	for i, c := range rs.categories {
		out[i] = Category{Name: c.Name, Rules: append([]Rule(nil), c.Rules...)}
	}
	return out
}

// Each calls fn for every rule in evaluation order until fn returns false.
// It does not copy and is the hot path used by the classifier.
func (rs *RuleSet) Each(fn func(category string, index int, r Rule) bool) {
	if rs == nil {
		return
	}
	for _, c := range rs.categories {
		for i, r := range c.Rules {
			if !fn(c.Name, i, r) {
				return
			}
		}
	}
}

// Has reports whether a category with the given name exists.
func (rs *RuleSet) Has(name string) bool {
	if rs == nil {
		return false
	}
	for _, c := range rs.categories {
		if c.Name == name {
			return true
		}
	}
	return false
}
