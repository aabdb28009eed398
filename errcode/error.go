package errcode

import "errors"

// Error attaches a cause to a Code.
type Error struct {
	Code Code
	Err  error
}

// Wrap returns an error carrying code with err as its cause. A nil cause
// returns the bare code.
func Wrap(code Code, err error) error {
	if err == nil {
		return code
	}
	return &Error{Code: code, Err: err}
}

func (e *Error) Error() string {
	return e.Code.Description() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches both *Error values and bare Codes with the same code.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Code:
		return e.Code == t
	case *Error:
		return e.Code == t.Code
	}
	return false
}

// As extracts the domain code from err. Errors that carry no Code are
// reported as InternalError; a nil error is NoError.
func As(err error) Code {
	if err == nil {
		return NoError
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return InternalError
}
