package form

import (
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// Constraint validates a single submitted value.
type Constraint interface {
	// Name identifies the constraint, matching its definition name (e.g. "not-blank").
	Name() string

	// Validate returns the violation messages, or nil when the value is valid.
	Validate(value any) []string
}

// ConditionalConstraint is a constraint that only applies when all of its
// conditions match.
type ConditionalConstraint struct {
	Constraint Constraint
	Conditions []Condition
}

// Conditional wraps c with optional conditions.
func Conditional(c Constraint, conditions ...Condition) *ConditionalConstraint {
	return &ConditionalConstraint{Constraint: c, Conditions: conditions}
}

// ShouldApply reports whether the constraint applies to the given values.
func (cc *ConditionalConstraint) ShouldApply(values map[string]any) bool {
	return MatchAll(cc.Conditions, values)
}

func message(custom, def string, repl ...string) []string {
	msg := def
	if custom != "" {
		msg = custom
	}
	if len(repl) > 0 {
		msg = strings.NewReplacer(repl...).Replace(msg)
	}
	return []string{msg}
}

// NotBlank requires a non-blank value.
type NotBlank struct{ Message string }

func (NotBlank) Name() string { return "not-blank" }

func (c NotBlank) Validate(v any) []string {
	if IsBlank(v) {
		return message(c.Message, "This value should not be blank.")
	}
	return nil
}

// Blank requires a blank value.
type Blank struct{ Message string }

func (Blank) Name() string { return "blank" }

func (c Blank) Validate(v any) []string {
	if !IsBlank(v) {
		return message(c.Message, "This value should be blank.")
	}
	return nil
}

// NotNull requires the value to be present, even if empty.
type NotNull struct{ Message string }

func (NotNull) Name() string { return "not-null" }

func (c NotNull) Validate(v any) []string {
	if v == nil {
		return message(c.Message, "This value should not be null.")
	}
	return nil
}

// Email requires a bare email address.
type Email struct{ Message string }

func (Email) Name() string { return "email" }

func (c Email) Validate(v any) []string {
	if IsBlank(v) {
		return nil
	}
	s := cast.ToString(v)
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || !strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@"):], ".") {
		return message(c.Message, "This value is not a valid email address.")
	}
	return nil
}

// URL requires an absolute http, https or ftp URL.
type URL struct{ Message string }

func (URL) Name() string { return "url" }

func (c URL) Validate(v any) []string {
	if IsBlank(v) {
		return nil
	}
	u, err := url.ParseRequestURI(cast.ToString(v))
	if err != nil || u.Host == "" || !slices.Contains([]string{"http", "https", "ftp"}, u.Scheme) {
		return message(c.Message, "This value is not a valid URL.")
	}
	return nil
}

// Length bounds the character count of a string value. A nil bound is unchecked.
type Length struct {
	Min          *int
	Max          *int
	MinMessage   string
	MaxMessage   string
	ExactMessage string
}

func (Length) Name() string { return "length" }

func (c Length) Validate(v any) []string {
	if IsBlank(v) {
		return nil
	}
	n := utf8.RuneCountInString(cast.ToString(v))
	if c.Min != nil && c.Max != nil && *c.Min == *c.Max && n != *c.Min {
		return message(c.ExactMessage, "This value should have exactly {{ limit }} characters.", "{{ limit }}", strconv.Itoa(*c.Min))
	}
	if c.Min != nil && n < *c.Min {
		return message(c.MinMessage, "This value is too short. It should have {{ limit }} characters or more.", "{{ limit }}", strconv.Itoa(*c.Min))
	}
	if c.Max != nil && n > *c.Max {
		return message(c.MaxMessage, "This value is too long. It should have {{ limit }} characters or less.", "{{ limit }}", strconv.Itoa(*c.Max))
	}
	return nil
}

// Range bounds a numeric value. A nil bound is unchecked.
type Range struct {
	Min            *float64
	Max            *float64
	MinMessage     string
	MaxMessage     string
	InvalidMessage string
}

func (Range) Name() string { return "range" }

func (c Range) Validate(v any) []string {
	if IsBlank(v) {
		return nil
	}
	n, err := cast.ToFloat64E(strings.TrimSpace(cast.ToString(v)))
	if err != nil {
		return message(c.InvalidMessage, "This value should be a valid number.")
	}
	if c.Min != nil && n < *c.Min {
		return message(c.MinMessage, "This value should be {{ limit }} or more.", "{{ limit }}", formatNumber(*c.Min))
	}
	if c.Max != nil && n > *c.Max {
		return message(c.MaxMessage, "This value should be {{ limit }} or less.", "{{ limit }}", formatNumber(*c.Max))
	}
	return nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Regex requires the value to match (or, with Match false, not match) Pattern.
type Regex struct {
	Pattern *regexp.Regexp
	Message string
	Match   bool
}

func (Regex) Name() string { return "regex" }

func (c Regex) Validate(v any) []string {
	if IsBlank(v) || c.Pattern == nil {
		return nil
	}
	if c.Pattern.MatchString(cast.ToString(v)) != c.Match {
		return message(c.Message, "This value is not valid.")
	}
	return nil
}

// Choice restricts the value to a set of choices.
type Choice struct {
	Message         string
	MultipleMessage string
	Choices         []string
	Multiple        bool
}

func (Choice) Name() string { return "choice" }

func (c Choice) Validate(v any) []string {
	if IsBlank(v) {
		return nil
	}
	values := Strings(v)
	if !c.Multiple && len(values) > 1 {
		return message(c.Message, "The value you selected is not a valid choice.")
	}
	for _, s := range values {
		if slices.Contains(c.Choices, s) {
			continue
		}
		if c.Multiple {
			return message(c.MultipleMessage, "One or more of the given values is invalid.")
		}
		return message(c.Message, "The value you selected is not a valid choice.")
	}
	return nil
}

// EqualTo requires the value to equal Value when compared as strings.
type EqualTo struct {
	Value   string
	Message string
}

func (EqualTo) Name() string { return "equal-to" }

func (c EqualTo) Validate(v any) []string {
	if IsBlank(v) {
		return nil
	}
	if cast.ToString(v) != c.Value {
		return message(c.Message, "This value should be equal to {{ compared_value }}.", "{{ compared_value }}", strconv.Quote(c.Value))
	}
	return nil
}

// NotEqualTo requires the value to differ from Value when compared as strings.
type NotEqualTo struct {
	Value   string
	Message string
}

func (NotEqualTo) Name() string { return "not-equal-to" }

func (c NotEqualTo) Validate(v any) []string {
	if IsBlank(v) {
		return nil
	}
	if cast.ToString(v) == c.Value {
		return message(c.Message, "This value should not be equal to {{ compared_value }}.", "{{ compared_value }}", strconv.Quote(c.Value))
	}
	return nil
}

// IsTrue requires a truthy value such as "1", "on", "yes" or "true". Blank fails.
type IsTrue struct{ Message string }

func (IsTrue) Name() string { return "is-true" }

func (c IsTrue) Validate(v any) []string {
	s := strings.ToLower(strings.TrimSpace(cast.ToString(v)))
	switch s {
	case "1", "on", "yes", "true":
		return nil
	}
	return message(c.Message, "This value should be true.")
}
