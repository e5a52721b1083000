// Package validation checks inbound payloads against declarative,
// per-entity rule sets and reports every offending field.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownRuleSet = errors.New("unknown rule set")

// Payload is a flat view of submitted fields. Nested values use dotted keys
// such as "price.amount".
type Payload map[string]string

// FieldError attributes one failure to one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is returned when at least one field fails its rules.
type Errors struct {
	Fields []FieldError
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field error.
func (e *Errors) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Has reports whether any error targets field.
func (e *Errors) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Merge combines field errors into one *Errors, nil when there are none.
func Merge(lists ...[]FieldError) error {
	var out Errors
	for _, l := range lists {
		out.Fields = append(out.Fields, l...)
	}
	if len(out.Fields) == 0 {
		return nil
	}
	return &out
}

// AsErrors extracts field errors from err, if any.
func AsErrors(err error) (*Errors, bool) {
	var verr *Errors
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// Normalizer rewrites a value before rules run.
type Normalizer func(string) string

// FieldRules binds normalizers and rules to one field name. Rules are
// evaluated in order and only the first failure is reported for the field.
type FieldRules struct {
	Name      string
	Normalize []Normalizer
	Rules     []Rule
}

// RuleSet is an ordered list of field rules for one entity.
type RuleSet struct {
	Name   string
	Fields []FieldRules
}

// With returns a copy of the rule set extended with more fields.
func (rs RuleSet) With(fields ...FieldRules) RuleSet {
	out := RuleSet{Name: rs.Name, Fields: make([]FieldRules, 0, len(rs.Fields)+len(fields))}
	out.Fields = append(out.Fields, rs.Fields...)
	out.Fields = append(out.Fields, fields...)
	return out
}

// Field looks up the rules declared for name.
func (rs RuleSet) Field(name string) (FieldRules, bool) {
	for _, f := range rs.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldRules{}, false
}

// Validate normalizes payload in place and evaluates every declared field.
// It returns nil or an *Errors listing each failing field once, in
// declaration order.
func (rs RuleSet) Validate(payload Payload) error {
	var verr Errors
	for _, field := range rs.Fields {
		value, ok := payload[field.Name]
		if ok && len(field.Normalize) > 0 {
			for _, normalize := range field.Normalize {
				value = normalize(value)
			}
			payload[field.Name] = value
		}

		for _, rule := range field.Rules {
			if !rule.Check(value) {
				verr.Add(field.Name, rule.message)
				break
			}
		}
	}
	if len(verr.Fields) == 0 {
		return nil
	}
	return &verr
}

// Trim strips surrounding whitespace.
func Trim(v string) string {
	return strings.TrimSpace(v)
}

// Lowercase folds to lower case.
func Lowercase(v string) string {
	return strings.ToLower(v)
}
