// Package errs defines the error taxonomy shared by all pageturn packages.
//
// Every failure a viewer session can hit is classified into one of four
// kinds: network failures while fetching bytes, malformed containers,
// parse failures inside an otherwise valid container, and containers that
// parse cleanly but yield nothing to show. Callers use errors.Is with the
// Kind sentinels to choose between a retry prompt and an external-viewer
// fallback.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for fallback decisions.
type Kind int

const (
	// KindNetwork indicates a fetch or signed-URL exchange failure.
	KindNetwork Kind = iota + 1
	// KindFormat indicates a container missing a required manifest entry.
	KindFormat
	// KindParse indicates a conversion failure inside a valid container.
	KindParse
	// KindEmptyContent indicates a document with zero extractable units.
	KindEmptyContent
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindFormat:
		return "format"
	case KindParse:
		return "parse"
	case KindEmptyContent:
		return "empty content"
	default:
		return "unknown"
	}
}

// Sentinel values for errors.Is checks. Wrapped errors created by the
// constructors below match the sentinel of their kind.
var (
	ErrNetwork      = &Error{kindOnly: true, Kind: KindNetwork}
	ErrFormat       = &Error{kindOnly: true, Kind: KindFormat}
	ErrParse        = &Error{kindOnly: true, Kind: KindParse}
	ErrEmptyContent = &Error{kindOnly: true, Kind: KindEmptyContent}
)

// Error is a classified error with an operation name for context.
type Error struct {
	Kind Kind
	Op   string // e.g. "fetch", "epub.open"
	Err  error

	kindOnly bool // true for the package sentinels
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.kindOnly {
		return e.Kind.String() + " error"
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.kindOnly && t.Kind == e.Kind
}

// Network wraps err as a network error.
func Network(op string, err error) error {
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

// Format wraps err as a format error. Format errors signal that the
// container is not what its extension claims, and callers should fall back
// to a generic external viewer rather than fail hard.
func Format(op string, err error) error {
	return &Error{Kind: KindFormat, Op: op, Err: err}
}

// Parse wraps err as a parse error.
func Parse(op string, err error) error {
	return &Error{Kind: KindParse, Op: op, Err: err}
}

// Empty reports a document with zero extractable units.
func Empty(op string) error {
	return &Error{Kind: KindEmptyContent, Op: op, Err: errors.New("no extractable content")}
}

// KindOf returns the kind of err, or 0 if err carries no classification.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Fallback reports whether err should trigger the external-viewer fallback
// instead of an error screen. Format and empty-content errors qualify;
// network and parse errors get a retry prompt instead.
func Fallback(err error) bool {
	k := KindOf(err)
	return k == KindFormat || k == KindEmptyContent
}
