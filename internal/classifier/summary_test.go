package classifier

import (
	"testing"

	"github.com/Veraticus/spice-rules/internal/model"
	"github.com/Veraticus/spice-rules/internal/rules"
	"github.com/stretchr/testify/assert"
)

func TestClassifier_Summarize(t *testing.T) {
	c := New(rules.Default())

	txns := []model.CategorizedTransaction{
		{ID: "1", Category: rules.Uncategorized, Amount: -5},
		{ID: "2", Category: "Groceries", Amount: -40},
		{ID: "3", Category: "Food", Amount: -12.5},
		{ID: "4", Category: "Groceries", Amount: -10},
		{ID: "5", Category: "Legacy", Amount: -1},
	}

	got := c.Summarize(txns)

	assert.Equal(t, []CategoryTotal{
		{Category: "Food", Count: 1, Total: -12.5},
		{Category: "Groceries", Count: 2, Total: -50},
		{Category: "Legacy", Count: 1, Total: -1},
		{Category: rules.Uncategorized, Count: 1, Total: -5},
	}, got)

	assert.Empty(t, c.Summarize(nil))
}
