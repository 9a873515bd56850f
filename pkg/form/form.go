package form

import (
	"fmt"
	"net/http"
	"strings"
)

// Form is a multi-step form definition.
type Form struct {
	// Button attribute maps. A nil map means the button is not rendered.
	SubmitButton map[string]any
	ResetButton  map[string]any
	BackButton   map[string]any

	fields     map[string]*Field
	SubmitURL  string
	TargetURL  string
	CancelURL  string
	method     string
	fieldOrder []string
	steps      []*Step
}

// New creates an empty form. An empty method defaults to POST.
func New(submitURL, targetURL, cancelURL, method string) *Form {
	f := &Form{
		SubmitURL: submitURL,
		TargetURL: targetURL,
		CancelURL: cancelURL,
		fields:    make(map[string]*Field),
	}
	f.SetMethod(method)
	return f
}

// Method returns the HTTP method used to submit the form.
func (f *Form) Method() string {
	return f.method
}

// SetMethod sets the submission method. Anything other than GET means POST.
func (f *Form) SetMethod(method string) {
	if strings.EqualFold(method, http.MethodGet) {
		f.method = http.MethodGet
		return
	}
	f.method = http.MethodPost
}

// AddField registers a field with the form.
func (f *Form) AddField(field *Field) error {
	if _, ok := f.fields[field.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateField, field.Name)
	}
	f.fields[field.Name] = field
	f.fieldOrder = append(f.fieldOrder, field.Name)
	return nil
}

// Field returns the named field.
func (f *Form) Field(name string) (*Field, bool) {
	field, ok := f.fields[name]
	return field, ok
}

// HasField reports whether the form declares the named field.
func (f *Form) HasField(name string) bool {
	_, ok := f.fields[name]
	return ok
}

// Fields returns all fields in declaration order.
func (f *Form) Fields() []*Field {
	out := make([]*Field, 0, len(f.fieldOrder))
	for _, name := range f.fieldOrder {
		out = append(out, f.fields[name])
	}
	return out
}

// AddStep appends a step and assigns its index.
func (f *Form) AddStep(s *Step) {
	s.form = f
	s.index = len(f.steps)
	f.steps = append(f.steps, s)
}

// Step returns the step at index i.
func (f *Form) Step(i int) (*Step, error) {
	if i < 0 || i >= len(f.steps) {
		return nil, fmt.Errorf("%w: %d of %d", ErrStepOutOfRange, i, len(f.steps))
	}
	return f.steps[i], nil
}

// Steps returns the steps in order.
func (f *Form) Steps() []*Step {
	return f.steps
}

// StepCount returns the number of steps.
func (f *Form) StepCount() int {
	return len(f.steps)
}

// Step is one page of a form.
type Step struct {
	form         *Form
	Heading      string
	ErrorHeading string
	fieldsets    []*Fieldset
	processors   []*Processor
	index        int
	OneWay       bool
}

// NewStep creates a detached step. Its index is assigned by Form.AddStep.
func NewStep(oneWay bool, heading, errorHeading string) *Step {
	return &Step{
		OneWay:       oneWay,
		Heading:      heading,
		ErrorHeading: errorHeading,
	}
}

// Form returns the owning form, nil until the step is added to one.
func (s *Step) Form() *Form { return s.form }

// Index returns the zero-based position of the step within its form.
func (s *Step) Index() int { return s.index }

// AddFieldset appends a fieldset.
func (s *Step) AddFieldset(fs *Fieldset) {
	fs.step = s
	s.fieldsets = append(s.fieldsets, fs)
}

// Fieldsets returns the step's fieldsets.
func (s *Step) Fieldsets() []*Fieldset { return s.fieldsets }

// AddProcessor appends a processor.
func (s *Step) AddProcessor(p *Processor) {
	s.processors = append(s.processors, p)
}

// Processors returns the step's processors in execution order.
func (s *Step) Processors() []*Processor { return s.processors }

// ReferencedFields returns the distinct fields referenced by this step's
// fieldsets, in first-reference order. References to fields the form does not
// declare are skipped.
func (s *Step) ReferencedFields() []*Field {
	if s.form == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []*Field
	for _, fs := range s.fieldsets {
		for _, ref := range fs.references {
			if _, dup := seen[ref.Field]; dup {
				continue
			}
			field, ok := s.form.fields[ref.Field]
			if !ok {
				continue
			}
			seen[ref.Field] = struct{}{}
			out = append(out, field)
		}
	}
	return out
}

// EditableFields returns the referenced fields that accept input, that is
// those with at least one reference not marked read-only.
func (s *Step) EditableFields() []*Field {
	editable := make(map[string]struct{})
	for _, fs := range s.fieldsets {
		for _, ref := range fs.references {
			if !ref.ReadOnly {
				editable[ref.Field] = struct{}{}
			}
		}
	}
	var out []*Field
	for _, field := range s.ReferencedFields() {
		if _, ok := editable[field.Name]; ok {
			out = append(out, field)
		}
	}
	return out
}

// Fieldset groups field references within a step.
type Fieldset struct {
	step       *Step
	Heading    string
	references []FieldReference
}

// NewFieldset creates a fieldset with an optional heading.
func NewFieldset(heading string) *Fieldset {
	return &Fieldset{Heading: heading}
}

// Step returns the owning step.
func (fs *Fieldset) Step() *Step { return fs.step }

// AddFieldReference appends a reference to a field.
func (fs *Fieldset) AddFieldReference(ref FieldReference) {
	fs.references = append(fs.references, ref)
}

// References returns the field references in order.
func (fs *Fieldset) References() []FieldReference { return fs.references }

// FieldReference points at a form field from within a fieldset.
type FieldReference struct {
	Field    string `json:"field"`
	ReadOnly bool   `json:"read_only"`
	Wrapped  bool   `json:"wrapped"`
}

// Ref returns a writable, wrapped reference to the named field.
func Ref(field string) FieldReference {
	return FieldReference{Field: field, Wrapped: true}
}
