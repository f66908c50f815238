package tilemap

import (
	"fmt"
)

// ErrorKind classifies why a document could not be loaded.
// Kinds are errors themselves so callers can use errors.Is(err, ErrUnsupportedVersion).
type ErrorKind int

const (
	ErrMalformedDocument ErrorKind = iota + 1
	ErrUnsupportedVersion
	ErrUnsupportedOrientation
	ErrUnsupportedEncoding
	ErrUnsupportedTileset
	ErrResourceMissing
	ErrPackingOverflow
	ErrStructuralMismatch

	// ErrLayersExist is returned by SetInfo once the document holds layers
	ErrLayersExist
)

var kindNames = map[ErrorKind]string{
	ErrMalformedDocument:      "malformed document",
	ErrUnsupportedVersion:     "unsupported version",
	ErrUnsupportedOrientation: "unsupported orientation",
	ErrUnsupportedEncoding:    "unsupported encoding",
	ErrUnsupportedTileset:     "unsupported tileset",
	ErrResourceMissing:        "resource missing",
	ErrPackingOverflow:        "packing overflow",
	ErrStructuralMismatch:     "structural mismatch",
	ErrLayersExist:            "layers already exist",
}

func (k ErrorKind) Error() string {
	name, ok := kindNames[k]
	if !ok {
		return fmt.Sprintf("tilemap: error kind %d", int(k))
	}
	return "tilemap: " + name
}

// ParseError is the single terminal error of a failed parse.
type ParseError struct {
	Kind ErrorKind
	Msg  string
	Err  error // underlying cause, if any
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Error(), e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

// Is reports whether target is this error's kind
func (e *ParseError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// newError builds a *ParseError with a formatted message.
func newError(kind ErrorKind, format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// wrapError is newError carrying a cause.
func wrapError(kind ErrorKind, err error, format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}
