package optimization

import (
	"errors"
	"fmt"
)

// Kind classifies an optimization error so callers can decide how to
// surface it.
type Kind int

const (
	// KindUnknown is an error without a classification.
	KindUnknown Kind = iota
	// KindConfiguration means a required selection or parameter is missing
	// or malformed. Recoverable: report to the user and abort the run.
	KindConfiguration
	// KindBufferFull means a run recorded more steps than its buffer was
	// sized for. This is a sizing defect, not a user error.
	KindBufferFull
	// KindNumericDomain means an objective evaluation produced a value
	// outside the representable domain (NaN, infinity, division by zero).
	KindNumericDomain
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindBufferFull:
		return "buffer_full"
	case KindNumericDomain:
		return "numeric_domain"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks against classified errors.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrBufferFull    = errors.New("buffer full")
	ErrNumericDomain = errors.New("numeric domain error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindBufferFull:
		return ErrBufferFull
	case KindNumericDomain:
		return ErrNumericDomain
	default:
		return nil
	}
}

// Error represents an optimization error with context
// that can be wrapped with additional information.
type Error struct {
	// Kind classifies the error.
	Kind Kind
	// Message describes the error that occurred.
	Message string
	// Op is the operation that caused the error.
	Op string
	// Component is the component where the error occurred.
	Component string
	// Step is the buffer step at which the error occurred, or -1.
	Step int
	// Err is the underlying error that triggered this one, if any.
	Err error
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var prefix string
	if e.Component != "" && e.Op != "" {
		prefix = fmt.Sprintf("%s: %s", e.Component, e.Op)
	} else if e.Component != "" {
		prefix = e.Component
	} else if e.Op != "" {
		prefix = e.Op
	}

	if e.Err != nil {
		if prefix != "" {
			return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	if prefix != "" {
		return fmt.Sprintf("%s: %s", prefix, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is the sentinel of this error's kind.
func (e *Error) Is(target error) bool {
	if e == nil || e.Kind == KindUnknown {
		return false
	}
	return target == e.Kind.sentinel()
}

// WithOperation adds operation context to the error.
func (e *Error) WithOperation(op string) *Error {
	e.Op = op
	return e
}

// WithComponent adds component context to the error.
func (e *Error) WithComponent(component string) *Error {
	e.Component = component
	return e
}

// WrapErrorf wraps an existing error with additional formatted context,
// keeping the kind and step of the first optimization error in its chain.
// If err is nil, WrapErrorf returns nil.
func WrapErrorf(err error, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	step := -1
	if inner, ok := IsOptimizationError(err); ok {
		step = inner.Step
	}
	return &Error{
		Kind:    KindOf(err),
		Message: fmt.Sprintf(format, args...),
		Step:    step,
		Err:     err,
	}
}

// ConfigurationError reports a missing or malformed selection.
func ConfigurationError(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Message: fmt.Sprintf(format, args...),
		Step:    -1,
	}
}

// BufferFullError reports a push beyond the buffer's capacity.
func BufferFullError(capacity int) *Error {
	return &Error{
		Kind:    KindBufferFull,
		Message: fmt.Sprintf("buffer full at capacity %d", capacity),
		Step:    capacity,
	}
}

// NumericDomainError reports an evaluation that failed at the given step.
func NumericDomainError(step int, err error) *Error {
	return &Error{
		Kind:    KindNumericDomain,
		Message: fmt.Sprintf("function evaluation failed at step %d", step),
		Step:    step,
		Err:     err,
	}
}

// DomainErrorf reports an evaluation outside the numeric domain where the
// step is not known, such as inside an objective function.
func DomainErrorf(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindNumericDomain,
		Message: fmt.Sprintf(format, args...),
		Step:    -1,
	}
}

// IsOptimizationError checks if an error is of type Error.
// If the error is an optimization error, it returns the error and true.
// Otherwise, it returns nil and false.
func IsOptimizationError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind != KindUnknown {
			return e.Kind
		}
		err = errors.Unwrap(err)
	}
	return KindUnknown
}
