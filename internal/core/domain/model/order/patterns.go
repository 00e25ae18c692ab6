package order

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"orderwatch/internal/pkg/errs"
)

//go:embed patterns.yaml
var defaultPatterns []byte

// StatusRule maps a lower-case substring of a raw label to a canonical status.
type StatusRule struct {
	Pattern string
	Status  Status
}

// PatternTable is the priority-ordered classification table. It holds no
// I/O state and is safe for concurrent use once built.
type PatternTable struct {
	rules        []StatusRule
	placeholders []string
}

type patternDocument struct {
	Rules []struct {
		Pattern string `yaml:"pattern"`
		Status  string `yaml:"status"`
	} `yaml:"rules"`
	CourierPlaceholders []string `yaml:"courier_placeholders"`
}

// DefaultPatternTable returns the table embedded in the binary.
func DefaultPatternTable() *PatternTable {
	table, err := LoadPatternTable(bytes.NewReader(defaultPatterns))
	if err != nil {
		panic(fmt.Sprintf("embedded status patterns are invalid: %v", err))
	}
	return table
}

// LoadPatternTable parses a YAML pattern document. Rules keep file order.
func LoadPatternTable(r io.Reader) (*PatternTable, error) {
	var doc patternDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode status patterns: %w", err)
	}
	if len(doc.Rules) == 0 {
		return nil, errs.NewValueIsRequiredError("rules")
	}

	table := &PatternTable{rules: make([]StatusRule, 0, len(doc.Rules))}
	var ruleErrs []error
	for i, raw := range doc.Rules {
		pattern := strings.ToLower(strings.TrimSpace(raw.Pattern))
		if pattern == "" {
			ruleErrs = append(ruleErrs, errs.NewValueIsRequiredError(fmt.Sprintf("rules[%d].pattern", i)))
			continue
		}
		status, err := ParseStatus(raw.Status)
		if err != nil {
			ruleErrs = append(ruleErrs, fmt.Errorf("rules[%d]: %w", i, err))
			continue
		}
		table.rules = append(table.rules, StatusRule{Pattern: pattern, Status: status})
	}
	if err := errors.Join(ruleErrs...); err != nil {
		return nil, err
	}

	for _, p := range doc.CourierPlaceholders {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			table.placeholders = append(table.placeholders, p)
		}
	}
	return table, nil
}

// Rules returns a copy of the rules in evaluation order.
func (t *PatternTable) Rules() []StatusRule {
	out := make([]StatusRule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Classify returns the status of the first matching rule. When nothing
// matches it returns Pending and ok=false so the caller can log the label.
func (t *PatternTable) Classify(label string) (Status, bool) {
	needle := strings.ToLower(strings.TrimSpace(label))
	if needle == "" {
		return Pending, false
	}
	for _, rule := range t.rules {
		if strings.Contains(needle, rule.Pattern) {
			return rule.Status, true
		}
	}
	return Pending, false
}

// IsNamedCourier reports whether name identifies a real courier rather than
// an empty cell or a console placeholder such as "N/A".
func (t *PatternTable) IsNamedCourier(name string) bool {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return false
	}
	for _, p := range t.placeholders {
		if needle == p || (len(p) > 1 && strings.Contains(needle, p)) {
			return false
		}
	}
	return true
}
