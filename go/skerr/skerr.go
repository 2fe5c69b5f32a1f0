// Package skerr provides errors that carry the call site at which they were
// created or wrapped, so that a failure deep in the comparison engine can be
// traced without a debugger.
package skerr

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// StackTrace identifies a file and line number in the caller's call stack.
type StackTrace struct {
	File string
	Line int
}

// String returns a "file:line" form of the StackTrace.
func (st StackTrace) String() string {
	return fmt.Sprintf("%s:%d", st.File, st.Line)
}

// CallStack returns up to height frames of the caller's stack, skipping
// startAt frames (0 means the caller of CallStack).
func CallStack(height, startAt int) []StackTrace {
	stack := make([]StackTrace, 0, height)
	for i := 0; i < height; i++ {
		_, file, line, ok := runtime.Caller(1 + startAt + i)
		if !ok {
			break
		}
		// Shorten the path to the package dir and file name.
		file = filepath.Join(filepath.Base(filepath.Dir(file)), filepath.Base(file))
		stack = append(stack, StackTrace{File: file, Line: line})
	}
	return stack
}

// ErrorWithContext is an error that remembers where it was wrapped.
type ErrorWithContext struct {
	// Wrapped is the original error, possibly annotated with a message.
	Wrapped error
	// CallStack is the stack at the point the error was first wrapped.
	CallStack []StackTrace
}

// Error implements the error interface.
func (err *ErrorWithContext) Error() string {
	if len(err.CallStack) == 0 {
		return err.Wrapped.Error()
	}
	frames := make([]string, 0, len(err.CallStack))
	for _, st := range err.CallStack {
		frames = append(frames, st.String())
	}
	return fmt.Sprintf("%s. At %s", err.Wrapped.Error(), strings.Join(frames, " "))
}

// Unwrap allows errors.Is and errors.As to see through the context.
func (err *ErrorWithContext) Unwrap() error {
	return err.Wrapped
}

const stackDepth = 3

// Wrap adds the caller's location to err. Returns nil if err is nil. If err
// already has a call stack, it is returned unchanged.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var ewc *ErrorWithContext
	if errors.As(err, &ewc) {
		return err
	}
	return &ErrorWithContext{
		Wrapped:   err,
		CallStack: CallStack(stackDepth, 1),
	}
}

// Wrapf adds a message and the caller's location to err. Returns nil if err
// is nil. The original error is still reachable with errors.Is.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	if ewc, ok := err.(*ErrorWithContext); ok {
		return &ErrorWithContext{
			Wrapped:   fmt.Errorf("%s: %w", msg, ewc.Wrapped),
			CallStack: ewc.CallStack,
		}
	}
	return &ErrorWithContext{
		Wrapped:   fmt.Errorf("%s: %w", msg, err),
		CallStack: CallStack(stackDepth, 1),
	}
}

// Fmt is like fmt.Errorf, but records the caller's location.
func Fmt(format string, args ...interface{}) error {
	return &ErrorWithContext{
		Wrapped:   fmt.Errorf(format, args...),
		CallStack: CallStack(stackDepth, 1),
	}
}

// Unwrap returns the innermost error of a chain.
func Unwrap(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
