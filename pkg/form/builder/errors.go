package builder

import "errors"

var (
	// ErrInvalidDefinition is returned when a definition is structurally wrong.
	ErrInvalidDefinition = errors.New("builder: invalid definition")

	// ErrUnknownNamespace is returned for a namespace that was never registered.
	ErrUnknownNamespace = errors.New("builder: unknown namespace")

	// ErrUnknownFieldType is returned when no namespace provides a field type.
	ErrUnknownFieldType = errors.New("builder: unknown field type")

	// ErrUnknownConstraint is returned when no namespace provides a constraint.
	ErrUnknownConstraint = errors.New("builder: unknown constraint")

	// ErrUnknownCondition is returned when no namespace provides a condition.
	ErrUnknownCondition = errors.New("builder: unknown condition")

	// ErrUnknownField is returned when a fieldset references an undeclared field.
	ErrUnknownField = errors.New("builder: unknown field")

	// ErrUnknownProcessor is returned when a processor's module or method cannot be resolved.
	ErrUnknownProcessor = errors.New("builder: unknown processor")

	// ErrUnknownOptionSource is returned when values-from names an unknown provider.
	ErrUnknownOptionSource = errors.New("builder: unknown option source")
)
