package errors

import (
	"errors"
	"fmt"
)

// error codes :3
const (
	Err0 = iota
	// Configuration covers bad selectors, unknown architecture tokens and
	// conflicting flags. Nothing has been written when it is returned.
	Configuration
	UnknownFunction
	CatalogInconsistency
	DependencyCycle
	HashCollision
	UnknownExport
	IO
)

var codeNames = map[uint32]string{
	Err0:                 "error",
	Configuration:        "configuration error",
	UnknownFunction:      "unknown function",
	CatalogInconsistency: "catalog inconsistency",
	DependencyCycle:      "dependency cycle",
	HashCollision:        "hash collision",
	UnknownExport:        "unknown export",
	IO:                   "i/o error",
}

type WhisperError struct {
	Code  uint32
	Msg   string
	cause error
}

func (e *WhisperError) Error() string {
	name, ok := codeNames[e.Code]
	if !ok {
		name = fmt.Sprintf("%d", e.Code)
	}
	switch {
	case e.Msg != "" && e.cause != nil:
		return fmt.Sprintf("%s: %s: %v", name, e.Msg, e.cause)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", name, e.Msg)
	case e.cause != nil:
		return fmt.Sprintf("%s: %v", name, e.cause)
	}
	return name
}

func (e *WhisperError) Unwrap() error { return e.cause }

// New creates a new WhisperError
func New(code uint32) error {
	return &WhisperError{Code: code}
}

// Newf creates a WhisperError with a formatted message.
func Newf(code uint32, format string, args ...any) error {
	return &WhisperError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code to an underlying error. A nil err yields nil.
func Wrap(code uint32, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &WhisperError{Code: code, Msg: msg, cause: err}
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code uint32) bool {
	var wErr *WhisperError
	if errors.As(err, &wErr) {
		return wErr.Code == code
	}
	return false
}

// Code returns the code carried by err, or Err0.
func Code(err error) uint32 {
	var wErr *WhisperError
	if errors.As(err, &wErr) {
		return wErr.Code
	}
	return Err0
}
