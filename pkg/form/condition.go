package form

import "slices"

// Condition is a predicate over the submitted values.
type Condition interface {
	Matches(values map[string]any) bool
}

// InCondition matches when the field's value, or any element of a list value,
// is one of Values.
type InCondition struct {
	Field  string
	Values []string
}

func (c InCondition) Matches(values map[string]any) bool {
	for _, v := range Strings(values[c.Field]) {
		if slices.Contains(c.Values, v) {
			return true
		}
	}
	return false
}

// NotInCondition is the negation of InCondition.
type NotInCondition struct {
	Field  string
	Values []string
}

func (c NotInCondition) Matches(values map[string]any) bool {
	return !InCondition(c).Matches(values)
}

// BlankCondition matches when the field is missing or blank.
type BlankCondition struct {
	Field string
}

func (c BlankCondition) Matches(values map[string]any) bool {
	return IsBlank(values[c.Field])
}

// NotBlankCondition matches when the field has a non-blank value.
type NotBlankCondition struct {
	Field string
}

func (c NotBlankCondition) Matches(values map[string]any) bool {
	return !IsBlank(values[c.Field])
}

// MatchAll reports whether every condition matches. An empty list matches.
func MatchAll(conditions []Condition, values map[string]any) bool {
	for _, c := range conditions {
		if !c.Matches(values) {
			return false
		}
	}
	return true
}
