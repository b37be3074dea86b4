package loader

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrUnsafeParam is matched by every *ParamError.
var ErrUnsafeParam = errors.New("unsafe path parameter")

// ParamError reports a request value that cannot be used as a path segment.
type ParamError struct {
	Field string
	Value string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *ParamError) Unwrap() error { return ErrUnsafeParam }

// IOError reports a missing or unreadable document.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// NotExist reports whether the document was simply absent.
func (e *IOError) NotExist() bool {
	return errors.Is(e.Err, fs.ErrNotExist)
}

// ParseError reports a document that is not valid JSON for the target type.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
