package gotemplate

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/flosch/pongo2/v6"
)

// ExecutionError describes a failure reported by pongo2 while parsing or
// executing a template. It unwraps to the error raised by the failing tag,
// filter or function so callers can match it with errors.As.
type ExecutionError struct {
	Template string
	Line     int
	Column   int
	Sender   string
	Err      error
}

func (e *ExecutionError) Error() string {
	location := e.Template
	if location == "" {
		location = "<string>"
	}
	if e.Line > 0 {
		location = fmt.Sprintf("%s:%d:%d", location, e.Line, e.Column)
	}
	if e.Sender != "" {
		return fmt.Sprintf("%s (%s): %v", location, e.Sender, e.Err)
	}
	return fmt.Sprintf("%s: %v", location, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

func asExecutionError(name string, err error) error {
	var pongoErr *pongo2.Error
	if !errors.As(err, &pongoErr) {
		return err
	}
	cause := pongoErr.OrigError
	if cause == nil {
		cause = errors.New("template error")
	}
	if pongoErr.Filename != "" {
		name = pongoErr.Filename
	}
	return &ExecutionError{
		Template: name,
		Line:     pongoErr.Line,
		Column:   pongoErr.Column,
		Sender:   pongoErr.Sender,
		Err:      asExecutionError(name, cause),
	}
}

// emptyFS backs engines that only render template strings.
type emptyFS struct{}

func (emptyFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
