package form

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// ExceptionAction decides what happens when a processor returns an error.
type ExceptionAction string

const (
	// ExceptionRethrow returns the error to the caller. This is the default.
	ExceptionRethrow ExceptionAction = "rethrow"
	// ExceptionMessage records the error as a page or field message and fails the step.
	ExceptionMessage ExceptionAction = "message"
	// ExceptionFail fails the step without recording anything.
	ExceptionFail ExceptionAction = "fail"
	// ExceptionIgnore discards the error and continues with the next processor.
	ExceptionIgnore ExceptionAction = "ignore"
)

// ParseExceptionAction parses a definition value. Empty means rethrow.
func ParseExceptionAction(s string) (ExceptionAction, error) {
	switch a := ExceptionAction(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return ExceptionRethrow, nil
	case ExceptionRethrow, ExceptionMessage, ExceptionFail, ExceptionIgnore:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownExceptionAction, s)
}

// Call carries the inputs of a single processor invocation.
type Call struct {
	Request   *http.Request
	Values    map[string]any
	Arguments map[string]any
	FormKey   string
}

// Result is a processor's response. A non-nil result stops the remaining
// processors and replaces the default redirect.
type Result struct {
	RedirectURL string
	StatusCode  int
}

// ProcessorFunc performs a server-side action for a validated step.
type ProcessorFunc func(ctx context.Context, call Call) (*Result, error)

// Processor binds a module method to a step.
type Processor struct {
	Func                ProcessorFunc
	Arguments           map[string]any
	Module              string
	Method              string
	ExceptionAction     ExceptionAction
	Conditions          []Condition
	ExceptionFieldNames []string
}

// Name returns "module:method".
func (p *Processor) Name() string {
	return p.Module + ":" + p.Method
}

// ShouldExecute reports whether all of the processor's conditions match.
func (p *Processor) ShouldExecute(values map[string]any) bool {
	return MatchAll(p.Conditions, values)
}

// Action returns the exception action, defaulting to rethrow.
func (p *Processor) Action() ExceptionAction {
	if p.ExceptionAction == "" {
		return ExceptionRethrow
	}
	return p.ExceptionAction
}
