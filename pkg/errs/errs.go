// Package errs provides the engine's structured error type: every fallible
// operation in the load/build pipeline returns a *EngineError (or wraps one)
// carrying a stable code a caller can branch on, instead of a bare string.
package errs

import (
	"fmt"
	"runtime"
)

// Code is the stable, programmatically-checkable error code set from the
// engine's error handling design. Codes are never renumbered; new failure
// modes get new codes.
type Code string

const (
	FileNotFound          Code = "file-not-found"
	XMLParseError         Code = "xml-parse-error"
	SchemaNotSupported    Code = "schema-not-supported"
	MissingMandatoryField Code = "missing-mandatory-field"
	InvalidPath           Code = "invalid-path"
	LogicError            Code = "logic-error"
)

// EngineError is the uniform result/status failure payload: a code plus a
// human-readable message, optionally wrapping a cause and carrying
// diagnostic context (e.g. the byte offset of an XML parse failure).
type EngineError struct {
	Code    Code
	Message string
	Context map[string]interface{}
	Cause   error
	File    string
	Line    int
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap lets errors.Is/errors.As traverse the wrapped cause.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by code for errors.Is.
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithContext attaches a diagnostic key/value pair and returns the receiver
// for chaining.
func (e *EngineError) WithContext(key string, value interface{}) *EngineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates an EngineError, capturing the caller's file/line for
// diagnostics.
func New(code Code, message string) *EngineError {
	err := &EngineError{Code: code, Message: message}
	if _, file, line, ok := runtime.Caller(1); ok {
		err.File = file
		err.Line = line
	}
	return err
}

// Wrap creates an EngineError around an existing cause.
func Wrap(cause error, code Code, message string) *EngineError {
	err := New(code, message)
	err.Cause = cause
	return err
}

// GetCode extracts the code from err if it is (or wraps) an *EngineError,
// returning "" otherwise.
func GetCode(err error) Code {
	var ee *EngineError
	for err != nil {
		if e, ok := err.(*EngineError); ok {
			ee = e
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if ee == nil {
		return ""
	}
	return ee.Code
}
