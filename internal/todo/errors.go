package todo

import (
	"errors"
	"fmt"
)

var (
	ErrArgument        = errors.New("invalid argument")
	ErrNotTodo         = errors.New("can only add Todo objects")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ArgumentError reports a missing or malformed constructor argument.
type ArgumentError struct {
	Name   string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Reason)
}

func (e *ArgumentError) Unwrap() error { return ErrArgument }

// TypeError is returned by List.Add when the value is not exactly a *Todo.
type TypeError struct {
	Value any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: got %T", ErrNotTodo, e.Value)
}

func (e *TypeError) Unwrap() error { return ErrNotTodo }

// IndexError reports an index outside [-Len, Len-1].
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d outside of list bounds: -%d...%d", e.Index, e.Len, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }
