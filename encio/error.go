package encio

import (
	"errors"
	"runtime"
)

// Error handling in gse reuses a small set of sentinel error kinds for as
// many failure cases as possible, with extra information wrapped as
// applicable. Buffer errors (ErrOutOfRange, ErrOverflow, ErrReadPastEnd)
// indicate the caller asked a DataBuffer to step outside its counters;
// codec errors (ErrMalformed, ErrInvalidTag, ErrLengthMismatch,
// ErrUnexpectedOptional) indicate the wire data or the encode request
// cannot be honoured. Errors can be checked with
//
//	if errors.Is(err, encio.ErrReadPastEnd) {
//		// ran out of data
//	}
var (
	// ErrOutOfRange is returned when an index or offset lies outside the
	// buffer's capacity or data region.
	ErrOutOfRange = errors.New("out of range")

	// ErrOverflow is returned when an append would exceed the buffer's
	// capacity. The buffer is left unchanged.
	ErrOverflow = errors.New("buffer overflow")

	// ErrReadPastEnd is returned when a read would advance the read cursor
	// beyond the data length.
	ErrReadPastEnd = errors.New("read past end of data")

	// ErrMalformed is returned when read data is impossible to decode,
	// i.e. a variable-length integer whose first octet matches none of the
	// five defined prefixes.
	ErrMalformed = errors.New("malformed")

	// ErrInvalidTag is returned when encoding or decoding an object whose
	// tag has the reserved raw value 0.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrLengthMismatch is returned when an object's declared body length
	// disagrees with the octets its fields consume.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrUnexpectedOptional is returned when an optional trailing record
	// inside an object body carries a tag the object does not permit.
	ErrUnexpectedOptional = errors.New("unexpected optional object")

	// ErrBadType is returned when a value of an unhandled type is given to
	// the encoder.
	ErrBadType = errors.New("bad type")
)

// NewError returns an Error wrapping err with message and the name of the
// calling function, skipping skip callers.
func NewError(err error, message string, skip int) error {
	return Error{
		Err:     err,
		Message: message,
		Caller:  GetCaller(1 + skip),
	}
}

// Error wraps a sentinel error with context about where and why it arose.
type Error struct {
	Err     error
	Message string
	Caller  string
}

// Error implements error.
func (e Error) Error() (str string) {
	if e.Caller != "" {
		str = e.Caller + ": "
	}

	str += e.Err.Error()

	if e.Message != "" {
		str += " (" + e.Message + ")"
	}

	return str
}

// Unwrap implements errors's Unwrap()
func (e Error) Unwrap() error {
	return e.Err
}

// GetCaller returns the name of the calling function, skipping skip
// functions. i.e. 0 writes the calling function, 1 the function calling
// that etc...
func GetCaller(skip int) string {
	pcs := make([]uintptr, 1)
	n := runtime.Callers(2+skip, pcs)
	if n != 1 {
		return "Unknown Function"
	}

	frames := runtime.CallersFrames(pcs)
	frame, _ := frames.Next()
	return frame.Function
}
