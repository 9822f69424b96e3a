// Package rules defines the ordered category rule sets used to categorize
// transaction descriptions.
package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Rule errors.
var (
	ErrInvalidPattern  = errors.New("invalid pattern")
	ErrEmptyLiteral    = errors.New("literal rule text cannot be empty")
	ErrUnknownRuleType = errors.New("unknown rule type")
	ErrUnknownFlag     = errors.New("unknown pattern flag")
)

// Kind tags which variant a Rule holds.
type Kind int

const (
	// KindLiteral rules match a case-insensitive substring.
	KindLiteral Kind = iota + 1
	// KindPattern rules match a regular expression against the original text.
	KindPattern
)

// String returns the config name of the kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindPattern:
		return "pattern"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Rule is a single match condition. The zero value matches nothing.
type Rule struct {
	re            *regexp.Regexp
	text          string
	lower         string
	flags         string
	kind          Kind
	caseSensitive bool
}

// Literal returns a rule matching text anywhere in a description, ignoring case.
//
// Matching is plain substring containment, not whole-word: a literal "CAR"
// also matches "CARDI'S FURNITURE". Use a pattern with \b when that matters.
func Literal(text string) (Rule, error) {
	if text == "" {
		return Rule{}, ErrEmptyLiteral
	}
	return Rule{
		kind:  KindLiteral,
		text:  text,
		lower: strings.ToLower(text),
	}, nil
}

// MustLiteral is like Literal but panics on an empty text.
func MustLiteral(text string) Rule {
	r, err := Literal(text)
	if err != nil {
		panic(err)
	}
	return r
}

// Pattern compiles expr into a rule tested against the unmodified description.
func Pattern(expr string, caseSensitive bool) (Rule, error) {
	flags := ""
	if !caseSensitive {
		flags = "i"
	}
	return ParsePattern(expr, flags)
}

// MustPattern is like Pattern but panics if expr does not compile.
func MustPattern(expr string, caseSensitive bool) Rule {
	r, err := Pattern(expr, caseSensitive)
	if err != nil {
		panic(err)
	}
	return r
}

// leadingFlags matches an inline flag group such as (?i) at the start of an
// expression.
var leadingFlags = regexp.MustCompile(`^\(\?([ims]+)\)`)

// ParsePattern compiles expr with the given flags. Supported flags are
// i (case-insensitive), m (multi-line) and s (dot matches newline). A leading
// inline group like (?i) is folded into the flags, so "(?i)aws" and "aws"
// with flags "i" build the same rule.
func ParsePattern(expr, flags string) (Rule, error) {
	if m := leadingFlags.FindStringSubmatch(expr); m != nil {
		expr = expr[len(m[0]):]
		flags += m[1]
	}

	normalized, err := normalizeFlags(flags)
	if err != nil {
		return Rule{}, err
	}

	source := expr
	if normalized != "" {
		source = "(?" + normalized + ")" + expr
	}

	re, err := regexp.Compile(source)
	if err != nil {
		return Rule{}, fmt.Errorf("%w %q: %v", ErrInvalidPattern, expr, err)
	}

	return Rule{
		kind:          KindPattern,
		text:          expr,
		flags:         normalized,
		re:            re,
		caseSensitive: !strings.Contains(normalized, "i"),
	}, nil
}

// normalizeFlags validates flags and returns them deduplicated in canonical order.
func normalizeFlags(flags string) (string, error) {
	var seen [3]bool
	for _, f := range flags {
		switch f {
		case 'i':
			seen[0] = true
		case 'm':
			seen[1] = true
		case 's':
			seen[2] = true
		case ' ':
		default:
			return "", fmt.Errorf("%w: %q", ErrUnknownFlag, f)
		}
	}

	var b strings.Builder
	for i, f := range "ims" {
		if seen[i] {
			b.WriteRune(f)
		}
	}
	return b.String(), nil
}

// Kind returns the rule variant.
func (r Rule) Kind() Kind { return r.kind }

// Text returns the literal text or the pattern source without flags.
func (r Rule) Text() string { return r.text }

// Flags returns the pattern flags; always empty for literals.
func (r Rule) Flags() string { return r.flags }

// CaseSensitive reports whether the rule distinguishes letter case.
// Literals never do. For patterns it reflects the rule flags, including a
// leading (?i); flag groups later in the expression are not tracked.
func (r Rule) CaseSensitive() bool { return r.caseSensitive }

// Match reports whether the rule matches. lowered must be
// strings.ToLower(description); callers checking many rules compute it once.
func (r Rule) Match(description, lowered string) bool {
	switch r.kind {
	case KindLiteral:
		return strings.Contains(lowered, r.lower)
	case KindPattern:
		return r.re.MatchString(description)
	default:
		return false
	}
}

// Matches is a convenience wrapper around Match for a single rule.
func (r Rule) Matches(description string) bool {
	return r.Match(description, strings.ToLower(description))
}

// String renders the rule the way it is written in config listings.
func (r Rule) String() string {
	switch r.kind {
	case KindLiteral:
		return fmt.Sprintf("%q", r.text)
	case KindPattern:
		return "/" + r.text + "/" + r.flags
	default:
		return "<empty rule>"
	}
}
