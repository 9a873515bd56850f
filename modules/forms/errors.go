package forms

import "errors"

var (
	// ErrFormNotFound is returned when a key has no registration and no
	// definition file under the site root.
	ErrFormNotFound = errors.New("forms: form not found")

	// ErrAlreadyRegistered is returned when a key is registered twice.
	ErrAlreadyRegistered = errors.New("forms: form already registered")

	// ErrAlreadyGenerated is returned when definition paths are added to a
	// key that already holds a built form.
	ErrAlreadyGenerated = errors.New("forms: form already generated")

	// ErrGeneratorRegistered is returned when definition paths are added to a
	// key backed by a generator.
	ErrGeneratorRegistered = errors.New("forms: form uses a generator")

	// ErrUnsupportedFormat is returned for definition files other than JSON,
	// YAML or TOML.
	ErrUnsupportedFormat = errors.New("forms: unsupported definition format")

	// ErrInvalidDefinition is returned when a definition file does not decode
	// to a map.
	ErrInvalidDefinition = errors.New("forms: invalid definition")

	// ErrUnknownToken is returned for a {{ prefix:key }} token with an
	// unknown prefix.
	ErrUnknownToken = errors.New("forms: unknown token")

	// ErrInvalidPatch is returned when a JSON patch cannot be applied to the
	// stored values.
	ErrInvalidPatch = errors.New("forms: invalid patch")

	// ErrInvalidStep is returned when a step parameter is not an integer.
	ErrInvalidStep = errors.New("forms: invalid step")
)
