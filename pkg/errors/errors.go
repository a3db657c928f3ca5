// Package errors gives every failure a stable, machine-readable code.
//
// Maze codes (DEGENERATE_GRID, NO_ENTRANCE_FOUND, NO_EXIT_FOUND,
// NO_PATH_EXISTS, MALFORMED_PATH) say why a maze has no solution and end
// processing of that maze. The remaining codes describe bad input, bad
// configuration or the environment. The CLI turns a code into an exit
// status and the server into an HTTP status.
//
//	err := errors.New(errors.ErrCodeNoPathExists, "frontier exhausted after %d expansions", n)
//	errors.Is(err, errors.ErrCodeNoPathExists) // true, through any %w wrapping
//
// Code also implements error, so the standard errors.Is works with a bare
// code as the target.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeDegenerateGrid  Code = "DEGENERATE_GRID"
	ErrCodeNoEntranceFound Code = "NO_ENTRANCE_FOUND"
	ErrCodeNoExitFound     Code = "NO_EXIT_FOUND"
	ErrCodeNoPathExists    Code = "NO_PATH_EXISTS"
	ErrCodeMalformedPath   Code = "MALFORMED_PATH"

	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeTooLarge      Code = "TOO_LARGE"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

type codeInfo struct {
	maze   bool
	status int
}

var codes = map[Code]codeInfo{
	ErrCodeDegenerateGrid:  {maze: true, status: http.StatusUnprocessableEntity},
	ErrCodeNoEntranceFound: {maze: true, status: http.StatusUnprocessableEntity},
	ErrCodeNoExitFound:     {maze: true, status: http.StatusUnprocessableEntity},
	ErrCodeNoPathExists:    {maze: true, status: http.StatusUnprocessableEntity},
	// A malformed path is a solver bug, not a property of the maze.
	ErrCodeMalformedPath: {maze: true, status: http.StatusInternalServerError},
	ErrCodeInvalidInput:  {status: http.StatusBadRequest},
	ErrCodeInvalidFormat: {status: http.StatusBadRequest},
	ErrCodeInvalidConfig: {status: http.StatusBadRequest},
	ErrCodeInvalidPath:   {status: http.StatusBadRequest},
	ErrCodeFileNotFound:  {status: http.StatusNotFound},
	ErrCodeTooLarge:      {status: http.StatusRequestEntityTooLarge},
	ErrCodeInternal:      {status: http.StatusInternalServerError},
	ErrCodeUnsupported:   {status: http.StatusNotImplemented},
}

func (c Code) Error() string { return string(c) }

// Error carries a code, a message for users and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches a bare Code target.
func (e *Error) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.Code
}

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage is the message without code or cause; errors without a code
// are returned verbatim.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

// IsMazeError reports whether err describes the maze rather than the input
// or the environment.
func IsMazeError(err error) bool {
	return codes[GetCode(err)].maze
}

// HTTPStatus is the status the server answers err with. Errors without a
// known code are internal.
func HTTPStatus(err error) int {
	if info, ok := codes[GetCode(err)]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
