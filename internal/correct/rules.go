package correct

import (
	_ "embed"
	"fmt"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"

	"go-legal-ocr/internal/logger"
)

//go:embed rules.yaml
var embeddedRules []byte

// PatternRule is a single ordered find-and-replace rule for known
// legal phrasing.
type PatternRule struct {
	Name        string `yaml:"name"`
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

type compiledRule struct {
	name        string
	re          *regexp.Regexp
	replacement string
}

// LoadPatternRules parses and compiles a rule table. Order is
// preserved; a rule with a bad pattern fails the whole load so broken
// tables are caught at startup rather than silently skipped.
func LoadPatternRules(data []byte) ([]compiledRule, error) {
	var rules []PatternRule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parsing pattern rules: %w", err)
	}

	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling rule %q: %w", rule.Name, err)
		}
		compiled = append(compiled, compiledRule{
			name:        rule.Name,
			re:          re,
			replacement: rule.Replacement,
		})
	}
	return compiled, nil
}

var (
	legalRulesOnce sync.Once
	legalRules     []compiledRule
)

// ApplyLegalPatterns rewrites known legal phrases using the embedded
// rule table.
func ApplyLegalPatterns(text string) string {
	legalRulesOnce.Do(func() {
		rules, err := LoadPatternRules(embeddedRules)
		if err != nil {
			logger.WithError(err).Error("Embedded pattern rules failed to load")
			return
		}
		legalRules = rules
	})

	for _, rule := range legalRules {
		text = rule.re.ReplaceAllString(text, rule.replacement)
	}
	return text
}
