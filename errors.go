// Package tycore is the device monitor and board lifecycle core for the
// Teensy family of USB microcontroller boards: USB hotplug reconciliation,
// board identification, the HalfKay bootloader protocol, and the firmware
// signature scanner live in its subpackages (platform, board, families/teensy,
// monitor, halfkay, firmware). This file holds the error taxonomy shared by
// all of them.
package tycore

import "fmt"

// Code classifies why an operation failed, independent of the underlying
// cause. Callers that need to react differently to different failures
// should switch on Code rather than match error strings.
type Code int

const (
	CodeMemory Code = iota
	CodeIO
	CodeNotFound
	CodeAccess
	CodeUnsupported
	CodeMode
	CodeRange
	CodeFirmware
	CodeSystem
)

func (c Code) String() string {
	switch c {
	case CodeMemory:
		return "memory"
	case CodeIO:
		return "io"
	case CodeNotFound:
		return "not_found"
	case CodeAccess:
		return "access"
	case CodeUnsupported:
		return "unsupported"
	case CodeMode:
		return "mode"
	case CodeRange:
		return "range"
	case CodeFirmware:
		return "firmware"
	case CodeSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Error is the typed error the core packages return for failures they
// classify themselves. Errors returned by a caller's progress callback or by
// a platform enumerator are passed through as-is, and the adapter packages
// return plain errors. Op names the failing operation (e.g.
// "halfkay.Upload"), Code classifies the failure, and Err, if non-nil, is
// the underlying cause.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap builds an *Error for op/code wrapping err. If err is nil, Wrap
// returns nil so it can be used directly in a return statement.
func Wrap(op string, code Code, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Op: op, Err: err}
}

// New builds an *Error for op/code with no wrapped cause.
func New(op string, code Code) error {
	return &Error{Code: code, Op: op}
}

// IsCode reports whether err is a *Error (at any depth via errors.Unwrap)
// carrying the given code.
func IsCode(err error, code Code) bool {
	for err != nil {
		if te, ok := err.(*Error); ok {
			return te.Code == code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
