// Package errors carries the coded errors raised by the editor layers and
// the commands around them.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// ErrorCode names an error condition. Codes are stable and appear in
// bridge responses.
type ErrorCode string

const (
	// Configuration
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Host editor
	ErrCodeEditorUnavailable ErrorCode = "EDITOR_UNAVAILABLE"
	ErrCodeCommandFailed     ErrorCode = "COMMAND_FAILED"
	ErrCodeInvalidRange      ErrorCode = "INVALID_RANGE"
	ErrCodeAnchorUnresolved  ErrorCode = "ANCHOR_UNRESOLVED"

	// Markdown
	ErrCodeMarkdownParse     ErrorCode = "MARKDOWN_PARSE"
	ErrCodeMarkdownSerialize ErrorCode = "MARKDOWN_SERIALIZE"

	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// EditorError is a coded error with optional details and cause.
type EditorError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

func (e *EditorError) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
}

func (e *EditorError) Unwrap() error { return e.Cause }

// WithDetail sets a detail and returns e for chaining.
func (e *EditorError) WithDetail(key string, value interface{}) *EditorError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON renders e indented, for verbose CLI output.
func (e *EditorError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates an error without a cause.
func New(code ErrorCode, message string) *EditorError {
	return &EditorError{Code: code, Message: message}
}

// Wrap creates an error caused by err.
func Wrap(err error, code ErrorCode, message string) *EditorError {
	return &EditorError{Code: code, Message: message, Cause: err}
}

// As returns the outermost EditorError in err's chain.
func As(err error) (*EditorError, bool) {
	var e *EditorError
	ok := stderrors.As(err, &e)
	return e, ok
}

// Is reports whether any EditorError in err's tree carries code, including
// causes and the members of joined errors.
func Is(err error, code ErrorCode) bool {
	switch e := err.(type) {
	case nil:
		return false
	case *EditorError:
		if e.Code == code {
			return true
		}
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if Is(inner, code) {
				return true
			}
		}
		return false
	}
	return Is(stderrors.Unwrap(err), code)
}

// GetCode returns the code of the outermost EditorError, or "".
func GetCode(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.Code
	}
	return ""
}
