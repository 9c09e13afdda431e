package errorx

import (
	"errors"
	"fmt"
)

type Error struct {
	Code    Code
	Message string
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

func (e Error) Error() string {
	return e.Message
}

// Is matches any errorx.Error carrying the same code, so callers can compare
// against the sentinels in code.go with errors.Is.
func (e Error) Is(target error) bool {
	var t Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Code == e.Code
}

// CodeOf returns the code of the first errorx.Error in the chain, or Unknown's
// code if there is none.
func CodeOf(err error) Code {
	var e Error
	if errors.As(err, &e) {
		return e.Code
	}

	return Unknown.Code
}

// ErrorCode lets the JSON-RPC server carry the code to remote callers.
func (e Error) ErrorCode() int {
	return int(e.Code)
}
