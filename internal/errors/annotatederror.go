package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// AnnotatedError includes more context than a plain error that is useful for troubleshooting.
type AnnotatedError struct {
	// msg is the error message.
	msg string
	// pc is the program counter for the location of the error provided by runtime.Callers.
	pc uintptr
	// attrs are slog attributes that are added to the log event to provide more context for the error.
	attrs []slog.Attr
	// wrapped is the underlying error, if any.
	wrapped error
}

func newAnnotated(skip int, msg string, wrapped error, attrs []slog.Attr) *AnnotatedError {
	var pcs [1]uintptr
	runtime.Callers(skip, pcs[:])
	return &AnnotatedError{
		msg:     msg,
		pc:      pcs[0],
		attrs:   attrs,
		wrapped: wrapped,
	}
}

// New creates a new AnnotatedError with the given message and attributes.
func New(msg string, attrs ...slog.Attr) error {
	// Skip runtime.Callers, newAnnotated and this function.
	return newAnnotated(3, msg, nil, attrs) //nolint:mnd // see above
}

// NewSentinel creates a plain error without other context that can be used as sentinel error that can be
// detected with errors.Is.
func NewSentinel(msg string) error {
	return errors.New(msg)
}

// Wrap adds a message and attributes to err. The returned error matches err with errors.Is and errors.As.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return newAnnotated(3, msg, err, attrs) //nolint:mnd // skip runtime.Callers, newAnnotated and Wrap.
}

// Error implements error interface.
func (err *AnnotatedError) Error() string {
	if err.wrapped == nil {
		return err.msg
	}
	return fmt.Sprintf("%s: %s", err.msg, err.wrapped.Error())
}

// Unwrap returns the wrapped error.
func (err *AnnotatedError) Unwrap() error {
	return err.wrapped
}

// LogValue formats the error for useful logging.
func (err *AnnotatedError) LogValue() slog.Value {
	// Retrieve the source location of the error so that developers can locate it faster.
	frames := runtime.CallersFrames([]uintptr{err.pc})
	source, _ := frames.Next()
	sourceAttr := slog.String("source", fmt.Sprintf("%s:%d", source.File, source.Line))

	attrs := make([]slog.Attr, 0, len(err.attrs)+1)
	attrs = append(attrs, sourceAttr)
	attrs = append(attrs, err.attrs...)

	return slog.GroupValue(attrs...)
}

// SlogError returns a slog attribute for err. The attributes of every AnnotatedError in the chain are
// included so that the full context ends up in the log event.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	attrs := []slog.Attr{slog.String("message", err.Error())}
	var annotated *AnnotatedError
	for current := err; current != nil; current = errors.Unwrap(current) {
		if errors.As(current, &annotated) {
			attrs = append(attrs, slog.Any(annotated.msg, annotated.LogValue()))
			current = annotated
		}
	}
	return slog.Attr{Key: "error", Value: slog.GroupValue(attrs...)}
}

// As exposes stdlib errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is exposes stdlib errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap exposes stdlib errors.Unwrap.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join exposes stdlib errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
