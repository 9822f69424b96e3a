package rules

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"regexp"
	"strings"

	"github.com/Veraticus/spice-rules/internal/common"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// RuleConfig is the on-disk shape of a single rule. In config files a rule
// may also be written as a plain string: "CHIPOTLE" is a literal and
// "/\bTACO\b/i" is a pattern with flags.
type RuleConfig struct {
	Type  string `mapstructure:"type" yaml:"type"`
	Value string `mapstructure:"value" yaml:"value"`
	Flags string `mapstructure:"flags" yaml:"flags,omitempty"`
}

// CategoryConfig is the on-disk shape of a category.
type CategoryConfig struct {
	Name  string       `mapstructure:"name" yaml:"name"`
	Rules []RuleConfig `mapstructure:"rules" yaml:"rules"`
}

// Config is the rules section of the application config. Categories is a list
// rather than a map so that evaluation order survives decoding.
type Config struct {
	Categories  []CategoryConfig `mapstructure:"categories" yaml:"categories"`
	SkipInvalid bool             `mapstructure:"skip_invalid" yaml:"skip_invalid,omitempty"`
}

// Build compiles a Config into a RuleSet. A bad rule aborts the build unless
// SkipInvalid is set, in which case it is dropped with a warning. Problems
// with a category itself always abort.
func Build(cfg Config) (*RuleSet, error) {
	categories := make([]Category, 0, len(cfg.Categories))

	for _, cc := range cfg.Categories {
		cat := Category{Name: cc.Name, Rules: make([]Rule, 0, len(cc.Rules))}

		for i, rc := range cc.Rules {
			r, err := rc.Rule()
			if err != nil {
				err = fmt.Errorf("%w: category %q rule %d: %w", common.ErrInvalidConfig, cc.Name, i, err)
				if !cfg.SkipInvalid {
					return nil, err
				}
				slog.Warn("Skipping invalid rule",
					"category", cc.Name,
					"index", i,
					"error", err)
				continue
			}
			cat.Rules = append(cat.Rules, r)
		}

		categories = append(categories, cat)
	}

	rs, err := NewRuleSet(categories...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return rs, nil
}

// Rule compiles a single rule config.
func (rc RuleConfig) Rule() (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(rc.Type)) {
	case "literal", "":
		if rc.Flags != "" {
			return Rule{}, fmt.Errorf("%w: literal rules take no flags", ErrUnknownFlag)
		}
		return Literal(rc.Value)
	case "pattern", "regex":
		return ParsePattern(rc.Value, rc.Flags)
	default:
		return Rule{}, fmt.Errorf("%w: %q", ErrUnknownRuleType, rc.Type)
	}
}

// shorthandPattern matches the /expr/flags form of a string rule.
var shorthandPattern = regexp.MustCompile(`^/(.+)/([ims]*)$`)

// stringRuleHook decodes a plain string into a RuleConfig.
func stringRuleHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(RuleConfig{}) {
		return data, nil
	}

	s, _ := data.(string)
	if m := shorthandPattern.FindStringSubmatch(s); m != nil {
		return RuleConfig{Type: "pattern", Value: m[1], Flags: m[2]}, nil
	}
	return RuleConfig{Type: "literal", Value: s}, nil
}

// LoadFromViper reads the "rules" key. When no categories are configured the
// built-in Default rule set is returned.
func LoadFromViper(v *viper.Viper) (*RuleSet, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		stringRuleHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.UnmarshalKey("rules", &cfg, hook); err != nil {
		return nil, fmt.Errorf("%w: decoding rules: %w", common.ErrInvalidConfig, err)
	}

	if len(cfg.Categories) == 0 {
		slog.Debug("No rules configured, using defaults")
		return Default(), nil
	}

	rs, err := Build(cfg)
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded rule set",
		"categories", rs.Len(),
		"rules", rs.RuleCount())
	return rs, nil
}

// ToConfig converts a rule set back into its config representation.
func ToConfig(rs *RuleSet) Config {
	cfg := Config{Categories: make([]CategoryConfig, 0, rs.Len())}
	for _, c := range rs.Categories() {
		cc := CategoryConfig{Name: c.Name, Rules: make([]RuleConfig, 0, len(c.Rules))}
		for _, r := range c.Rules {
			cc.Rules = append(cc.Rules, RuleConfig{
				Type:  r.Kind().String(),
				Value: r.Text(),
				Flags: r.Flags(),
			})
		}
		cfg.Categories = append(cfg.Categories, cc)
	}
	return cfg
}

// Export writes rs as YAML nested under a top-level "rules" key, ready to be
// pasted into a config file.
func Export(w io.Writer, rs *RuleSet) error {
	if rs == nil {
		return errors.New("nil rule set")
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]Config{"rules": ToConfig(rs)}); err != nil {
		return fmt.Errorf("failed to encode rules: %w", err)
	}
	return enc.Close()
}
