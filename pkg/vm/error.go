// Package vm provides error handling for the scene interpreter.
package vm

import (
	"fmt"

	"github.com/zurustar/keyframe/pkg/opcode"
)

// ErrorType represents the type of runtime error.
type ErrorType string

const (
	// Fatal errors - the frame must stop
	ErrorStackUnderflow ErrorType = "STACK_UNDERFLOW"
	ErrorStackOverflow  ErrorType = "STACK_OVERFLOW"
	ErrorCollaborator   ErrorType = "COLLABORATOR_FAILED"
	ErrorCanceled       ErrorType = "CANCELED"

	// Non-fatal errors - execution continues
	ErrorUndefinedKnob     ErrorType = "UNDEFINED_KNOB"
	ErrorUndefinedMaterial ErrorType = "UNDEFINED_MATERIAL"
)

// RuntimeError represents an error raised while executing a command.
type RuntimeError struct {
	Type    ErrorType
	Message string
	Index   int        // Command index, -1 if unknown
	Op      opcode.Cmd // Command type if known
	Err     error      // Underlying error, if any
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s at command %d (%s)", msg, e.Index, e.Op)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsFatal returns true if the error is fatal and the frame should stop.
func (e *RuntimeError) IsFatal() bool {
	switch e.Type {
	case ErrorUndefinedKnob, ErrorUndefinedMaterial:
		return false
	default:
		return true
	}
}

// NewRuntimeError creates a new RuntimeError.
func NewRuntimeError(errType ErrorType, message string) *RuntimeError {
	return &RuntimeError{
		Type:    errType,
		Message: message,
		Index:   -1,
	}
}

// WrapRuntimeError creates a RuntimeError around err.
func WrapRuntimeError(errType ErrorType, message string, err error) *RuntimeError {
	return &RuntimeError{
		Type:    errType,
		Message: message,
		Index:   -1,
		Err:     err,
	}
}
