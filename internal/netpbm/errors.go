package netpbm

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotNetpbm means the buffer does not start with 'P' and a magic digit.
	ErrNotNetpbm = errors.New("netpbm: input is not a netpbm file")

	// ErrUnsupportedType means the magic number is netpbm-style but not handled
	// by the parser it was given to.
	ErrUnsupportedType = errors.New("netpbm: unsupported netpbm type")

	// ErrUnexpectedChar is matched by every *HeaderCharError.
	ErrUnexpectedChar = errors.New("netpbm: unexpected character in header")

	// ErrHeaderOverrun means a numeric field was found where the variant has none.
	ErrHeaderOverrun = errors.New("netpbm: reading past end of header")

	ErrTruncatedHeader = errors.New("netpbm: header ends before its last field")
	ErrHeaderValue     = errors.New("netpbm: header value out of range")
	ErrBadMaxValue     = errors.New("netpbm: max-value must be between 1 and 65535")

	// ErrWidthTooWide is returned before anything is written when a plain
	// encoding is requested for an image wider than 70 pixels.
	ErrWidthTooWide = errors.New("netpbm: width can not be greater than 70 for ascii files")

	// ErrLineTooWide means a plain row needs more than 70 digits.
	ErrLineTooWide = errors.New("netpbm: ascii row exceeds 70 characters")

	// ErrPixelCount means the sample buffer does not match the dimensions.
	ErrPixelCount = errors.New("netpbm: pixel data does not match image dimensions")
)

// HeaderCharError reports a byte that is neither a digit, whitespace nor the
// start of a comment.
type HeaderCharError struct {
	Char   byte
	Offset int
}

func (e *HeaderCharError) Error() string {
	return fmt.Sprintf("%v. Character: %d", ErrUnexpectedChar, e.Char)
}

// Is makes errors.Is(err, ErrUnexpectedChar) hold.
func (e *HeaderCharError) Is(target error) bool {
	return target == ErrUnexpectedChar
}
