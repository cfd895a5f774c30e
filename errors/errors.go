package errors

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/xerrors"
)

type Error struct {
	Code  ErrorCode
	msg   string
	frame xerrors.Frame
	err   error
}

func (e *Error) Error() string {
	return fmt.Sprint(e)
}

func (e *Error) FormatError(p xerrors.Printer) (next error) {
	if e.msg == "" {
		p.Printf("Code: %v", e.Code)
	} else {
		p.Printf("%s", e.msg)
	}
	e.frame.Format(p)
	return e.err
}

func (e *Error) Format(s fmt.State, c rune) {
	xerrors.FormatError(e, s, c)
}

// Unwrap returns the error underlying the receiver, which may be nil.
func (e *Error) Unwrap() error {
	return e.err
}

func new(c ErrorCode, err error, callDepth int, msg string) *Error {
	return &Error{
		Code:  c,
		msg:   msg,
		frame: xerrors.Caller(callDepth),
		err:   err,
	}
}

// New returns a new error with the given code, underlying error and message. Pass 1
// for the call depth if New is called from the function raising the error; pass 2 if
// it is called from a helper function that was invoked by the original function; and
// so on.
func New(c ErrorCode, err error, callDepth int, msg string) *Error {
	return new(c, err, callDepth, msg)
}

// Newf uses format and args to format a message, then calls New.
func Newf(c ErrorCode, err error, format string, args ...any) *Error {
	return new(c, err, 2, fmt.Sprintf(format, args...))
}

// Wrapf detect the underlying error code, uses format and args to format a message, then calls New.
func Wrapf(err error, format string, args ...any) *Error {
	return new(Code(err), err, 2, fmt.Sprintf(format, args...))
}

func Code(err error) ErrorCode {
	if err == nil {
		return OK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	if errors.Is(err, context.Canceled) {
		return Canceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return DeadlineExceeded
	}
	return Unknown
}

func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	return ""
}

// An ErrorCode describes the error's category.
type ErrorCode int

func (i ErrorCode) String() string {
	switch i {
	case InvalidConfig:
		return "InvalidConfig"
	case FetchFailed:
		return "FetchFailed"
	case ParseFailed:
		return "ParseFailed"
	case NotifyFailed:
		return "NotifyFailed"
	case Canceled:
		return "Canceled"
	case DeadlineExceeded:
		return "DeadlineExceeded"
	}
	return "Unknown"
}

const (
	// OK Returned by the Code function on a nil error. It is not a valid
	// code for an error.
	OK ErrorCode = 0

	// Unknown The error could not be categorized.
	Unknown ErrorCode = 1

	// InvalidConfig A required setting is missing or malformed. Fatal at startup.
	InvalidConfig ErrorCode = 2

	// FetchFailed The page request hit a network error, timed out, or got a
	// non-success status. The current poll cycle is skipped.
	FetchFailed ErrorCode = 3

	// ParseFailed The expected page structure is absent, availability is
	// treated as unknown.
	ParseFailed ErrorCode = 4

	// NotifyFailed The messaging API call failed.
	NotifyFailed ErrorCode = 5

	// Canceled The operation was canceled.
	Canceled ErrorCode = 6

	// DeadlineExceeded The operation timed out.
	DeadlineExceeded ErrorCode = 7
)
