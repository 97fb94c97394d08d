package mmdberrors

import "fmt"

// ContextualError attaches the byte offset at which an error was detected.
// It is only allocated when an error actually occurs, so the happy path of
// decoding pays nothing for it.
type ContextualError struct {
	Err    error
	Offset uint
}

func (e ContextualError) Error() string {
	return fmt.Sprintf("at offset %d: %v", e.Offset, e.Err)
}

func (e ContextualError) Unwrap() error {
	return e.Err
}

// WrapWithContext wraps err with the offset at which it was detected. It
// returns nil unchanged so callers can write "return WrapWithContext(err,
// offset)" unconditionally without an extra nil check.
func WrapWithContext(err error, offset uint) error {
	if err == nil {
		return nil
	}
	return ContextualError{Offset: offset, Err: err}
}
