// Package form models multi-step forms as an object graph.
//
// A [Form] owns an ordered list of [Step] values and a name-indexed set of
// [Field] values. Each step groups field references into [Fieldset] values and
// carries the [Processor] list that runs once the step validates. Fields carry
// [ConditionalConstraint] values, so a constraint only applies when all of its
// [Condition] predicates match the submitted values.
//
// Navigation through a form is tracked by [Progress], a plain value holding the
// current step and the set of steps the visitor may reach:
//
//	p := form.Start()
//	p, done := p.Forward(f.StepCount(), step.OneWay)
//	if done {
//	    // form complete
//	}
//
// Validation is performed by [Validate], which returns the messages keyed by
// field name:
//
//	errs := form.Validate(step.EditableFields(), values)
//	if errs.Empty() {
//	    // run processors
//	}
package form
