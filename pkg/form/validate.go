package form

import "slices"

// MissingFieldMessage is reported for a constrained field absent from the submission.
const MissingFieldMessage = "This field is missing."

// Errors maps field names to violation messages.
type Errors map[string][]string

// Empty reports whether there are no messages.
func (e Errors) Empty() bool {
	for _, msgs := range e {
		if len(msgs) > 0 {
			return false
		}
	}
	return true
}

// Add appends a message for field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Merge returns a new Errors containing e overlaid with other.
// Fields present in other replace those in e.
func (e Errors) Merge(other Errors) Errors {
	out := make(Errors, len(e)+len(other))
	for k, v := range e {
		out[k] = slices.Clone(v)
	}
	for k, v := range other {
		out[k] = slices.Clone(v)
	}
	return out
}

// Validate checks values against the fields' applicable constraints.
// Extra keys in values are ignored. A field with at least one applicable
// constraint that is absent from values reports MissingFieldMessage.
func Validate(fields []*Field, values map[string]any) Errors {
	errs := make(Errors)
	for _, field := range fields {
		var applicable []Constraint
		for _, cc := range field.constraints {
			if cc.ShouldApply(values) {
				applicable = append(applicable, cc.Constraint)
			}
		}
		if len(applicable) == 0 {
			continue
		}
		v, ok := values[field.Name]
		if !ok {
			errs.Add(field.Name, MissingFieldMessage)
			continue
		}
		for _, c := range applicable {
			for _, msg := range c.Validate(v) {
				errs.Add(field.Name, msg)
			}
		}
	}
	return errs
}
