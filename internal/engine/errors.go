package engine

import (
	"fmt"
	"github.com/myrjola/dossier/internal/errors"
)

// Kind classifies an Error.
type Kind int

const (
	KindUnknown Kind = iota
	// KindTimeout means a remote request exceeded its time budget.
	KindTimeout
	// KindTransport means the remote engine could not be reached or answered with a non-2xx status.
	KindTransport
	// KindUnknownSlot means a snapshot was loaded from a slot that was never saved.
	KindUnknownSlot
	// KindInvalidSlot means a slot name is malformed.
	KindInvalidSlot
	// KindUnsupported means the operation is not available for the selected engine.
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindUnknownSlot:
		return "unknown slot"
	case KindInvalidSlot:
		return "invalid slot"
	case KindUnsupported:
		return "unsupported"
	case KindUnknown:
	}
	return "unknown"
}

// Error is the single tagged error type surfaced by the engine boundary.
//
// Status is the HTTP status of the remote response when one was received.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

// Sentinels for matching with errors.Is. Only the Kind is compared.
var (
	ErrTimeout     = &Error{Kind: KindTimeout}     //nolint:exhaustruct // sentinel.
	ErrTransport   = &Error{Kind: KindTransport}   //nolint:exhaustruct // sentinel.
	ErrUnknownSlot = &Error{Kind: KindUnknownSlot} //nolint:exhaustruct // sentinel.
	ErrInvalidSlot = &Error{Kind: KindInvalidSlot} //nolint:exhaustruct // sentinel.
	ErrUnsupported = &Error{Kind: KindUnsupported} //nolint:exhaustruct // sentinel.
)

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("engine %s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("engine %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Retryable reports whether repeating the same call may succeed.
func (e *Error) Retryable() bool {
	return e.Kind == KindTimeout || e.Kind == KindTransport
}

// KindOf returns the Kind of the first Error in err's chain or KindUnknown.
func KindOf(err error) Kind {
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return engineErr.Kind
	}
	return KindUnknown
}
