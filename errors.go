package macho

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/appsworld/print-macho/pkg/stream"
)

var (
	// ErrUnsupportedFormat is returned when the magic is not a thin Mach-O magic.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrMalformedLoadCommand is returned when a load command's declared size
	// disagrees with the bytes needed to decode it.
	ErrMalformedLoadCommand = errors.New("malformed load command")
	// ErrTruncated is returned when the file ends inside a field.
	ErrTruncated = stream.ErrTruncated
)

// FormatError is returned by some operations if the data does
// not have the correct format for an object file.
type FormatError struct {
	Off int64
	Msg string
	Val interface{}
	Err error
}

func (e *FormatError) Error() string {
	msg := e.Msg
	if e.Val != nil {
		msg += fmt.Sprintf(" '%v'", e.Val)
	}
	msg += fmt.Sprintf(" in record at byte %#x", e.Off)
	if e.Err != nil {
		msg = e.Err.Error() + ": " + msg
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }
