package validation

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

// DefaultPhoneRegion is used for numbers submitted without a country prefix.
const DefaultPhoneRegion = "SN"

var validate = validator.New()

// Rule is a single predicate with the message reported when it fails.
// Every rule except Required passes on an empty value.
type Rule struct {
	message   string
	skipEmpty bool
	check     func(string) bool
}

// Message returns the failure message.
func (r Rule) Message() string {
	return r.message
}

// Check evaluates the rule against v.
func (r Rule) Check(v string) bool {
	if r.skipEmpty && v == "" {
		return true
	}
	return r.check(v)
}

func optional(message string, check func(string) bool) Rule {
	return Rule{message: message, skipEmpty: true, check: check}
}

func Required(message string) Rule {
	return Rule{message: message, check: func(v string) bool {
		return strings.TrimSpace(v) != ""
	}}
}

func MinLength(n int, message string) Rule {
	return optional(message, func(v string) bool {
		return utf8.RuneCountInString(v) >= n
	})
}

func MaxLength(n int, message string) Rule {
	return optional(message, func(v string) bool {
		return utf8.RuneCountInString(v) <= n
	})
}

func IsEmail(message string) Rule {
	return optional(message, func(v string) bool {
		return validate.Var(v, "email") == nil
	})
}

func IsURL(message string) Rule {
	return optional(message, func(v string) bool {
		return validate.Var(v, "http_url") == nil
	})
}

func IsIn(allowed []string, message string) Rule {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return optional(message, func(v string) bool {
		_, ok := set[v]
		return ok
	})
}

func IsFloatMin(min float64, message string) Rule {
	return optional(message, func(v string) bool {
		f, err := strconv.ParseFloat(v, 64)
		return err == nil && f >= min
	})
}

func IsIntMin(min int, message string) Rule {
	return optional(message, func(v string) bool {
		i, err := strconv.Atoi(v)
		return err == nil && i >= min
	})
}

// Matches panics at construction on an invalid pattern.
func Matches(pattern, message string) Rule {
	re := regexp.MustCompile(pattern)
	return optional(message, re.MatchString)
}

// IsPhone accepts numbers libphonenumber can parse into a plausible
// subscriber number.
func IsPhone(message string) Rule {
	return optional(message, func(v string) bool {
		num, err := libphonenumber.Parse(v, DefaultPhoneRegion)
		if err != nil {
			return false
		}
		return libphonenumber.IsPossibleNumber(num)
	})
}

// IsStringList accepts a JSON array of non-empty strings.
func IsStringList(maxItems int, message string) Rule {
	return optional(message, func(v string) bool {
		items, err := ParseStringList(v)
		if err != nil {
			return false
		}
		return maxItems <= 0 || len(items) <= maxItems
	})
}

// ParseStringList decodes a JSON array of strings, dropping blank entries.
func ParseStringList(v string) ([]string, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	var raw []string
	if err := json.Unmarshal([]byte(v), &raw); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}
