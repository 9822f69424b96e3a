package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteral_Matches(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		description string
		want        bool
	}{
		{name: "exact", text: "CHIPOTLE", description: "CHIPOTLE", want: true},
		{name: "lowercase description", text: "CHIPOTLE", description: "chipotle mexican grill", want: true},
		{name: "mixed case rule", text: "Trader Joe's", description: "TRADER JOE'S #12", want: true},
		{name: "substring inside word", text: "CAR", description: "CARDI'S FURNITURE", want: true},
		{name: "no match", text: "SAFEWAY", description: "WELLS FARGO TRANSFER", want: false},
		{name: "empty description", text: "SAFEWAY", description: "", want: false},
		{name: "regex metacharacters are literal", text: ".COM", description: "NETFLIXCOM", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Literal(tt.text)
			require.NoError(t, err)
			assert.Equal(t, KindLiteral, r.Kind())
			assert.False(t, r.CaseSensitive())
			assert.Equal(t, tt.want, r.Matches(tt.description))
		})
	}
}

func TestLiteral_Empty(t *testing.T) {
	_, err := Literal("")
	assert.True(t, errors.Is(err, ErrEmptyLiteral))
	assert.Panics(t, func() { MustLiteral("") })
}

func TestPattern_Matches(t *testing.T) {
	tests := []struct {
		name          string
		expr          string
		description   string
		caseSensitive bool
		want          bool
	}{
		{name: "word boundary hit", expr: `\bAWS\b`, description: "AMAZON AWS INVOICE", want: true},
		{name: "word boundary miss", expr: `\bAWS\b`, description: "AWESOME PRODUCT", want: false},
		{name: "insensitive lowercase input", expr: `\bAWS\b`, description: "amazon aws invoice", want: true},
		{name: "sensitive rejects lowercase", expr: `\bAWS\b`, description: "amazon aws invoice", caseSensitive: true, want: false},
		{name: "sensitive accepts exact case", expr: `\bAWS\b`, description: "AMAZON AWS INVOICE", caseSensitive: true, want: true},
		{name: "empty description", expr: `^$`, description: "", caseSensitive: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Pattern(tt.expr, tt.caseSensitive)
			require.NoError(t, err)
			assert.Equal(t, KindPattern, r.Kind())
			assert.Equal(t, tt.caseSensitive, r.CaseSensitive())
			assert.Equal(t, tt.expr, r.Text())
			assert.Equal(t, tt.want, r.Matches(tt.description))
		})
	}
}

func TestPattern_UsesOriginalDescription(t *testing.T) {
	// A case-sensitive pattern must see the original text, not the lowered copy
	// that literal rules use.
	r := MustPattern(`^Payroll`, true)
	assert.True(t, r.Match("Payroll ACME", "payroll acme"))
	assert.False(t, r.Match("payroll acme", "payroll acme"))
}

func TestParsePattern_Flags(t *testing.T) {
	r, err := ParsePattern(`^coffee$`, "mi")
	require.NoError(t, err)
	assert.Equal(t, "im", r.Flags())
	assert.False(t, r.CaseSensitive())
	assert.True(t, r.Matches("LUNCH\nCOFFEE"))
	assert.Equal(t, "/^coffee$/im", r.String())

	_, err = ParsePattern(`x`, "g")
	assert.True(t, errors.Is(err, ErrUnknownFlag))
}

func TestParsePattern_LeadingInlineFlags(t *testing.T) {
	tests := []struct {
		name          string
		expr          string
		flags         string
		wantText      string
		wantFlags     string
		caseSensitive bool
	}{
		{name: "inline i", expr: "(?i)aws", wantText: "aws", wantFlags: "i"},
		{name: "inline and explicit", expr: "(?i)aws", flags: "i", wantText: "aws", wantFlags: "i"},
		{name: "inline s merged", expr: "(?s)a.b", flags: "i", wantText: "a.b", wantFlags: "is"},
		{name: "scoped group left alone", expr: "(?i:aws)", wantText: "(?i:aws)", caseSensitive: true},
		{name: "unsupported flag left alone", expr: "(?U)a+", wantText: "(?U)a+", caseSensitive: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParsePattern(tt.expr, tt.flags)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, r.Text())
			assert.Equal(t, tt.wantFlags, r.Flags())
			assert.Equal(t, tt.caseSensitive, r.CaseSensitive())
		})
	}

	r, err := ParsePattern("(?i)aws", "")
	require.NoError(t, err)
	assert.True(t, r.Matches("AMAZON AWS INVOICE"))
	assert.True(t, r.Matches("aws"))
	assert.Equal(t, "/aws/i", r.String())
}

func TestPattern_Invalid(t *testing.T) {
	_, err := Pattern(`(unclosed`, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPattern))
	assert.Contains(t, err.Error(), "(unclosed")

	assert.Panics(t, func() { MustPattern(`[`, true) })
}

func TestRule_ZeroValue(t *testing.T) {
	var r Rule
	assert.False(t, r.Matches("anything"))
	assert.False(t, r.Matches(""))
	assert.Equal(t, "<empty rule>", r.String())
	assert.Equal(t, "Kind(0)", r.Kind().String())
}
