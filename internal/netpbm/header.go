package netpbm

import (
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// maxHeaderValue bounds width, height and max-value while they accumulate.
const maxHeaderValue = 1<<31 - 1

// Header is the parsed text header of a netpbm file.
type Header struct {
	Width    int
	Height   int
	MaxValue int // 1 for bitmaps

	// DataOffset is the index of the first pixel byte in the source buffer.
	DataOffset int

	Variant Variant
	Mode    Mode
	Depth   Depth
}

// scanState is the tokenizer's lexical state.
type scanState int

const (
	stateScanning scanState = iota
	stateComment
)

// tokenizer scans the header fields that follow the magic number.
//
// field starts at -1; each whitespace run advances it, so the run after the
// magic number selects the width, the next the height and so on. A comment
// runs to the next LF, and that LF only ends the comment.
type tokenizer struct {
	variant    Variant
	state      scanState
	field      int
	afterSpace bool
	acc        [3]uint64
}

func newTokenizer(v Variant) *tokenizer {
	return &tokenizer{variant: v, field: -1}
}

// step consumes the header byte found at offset off. It reports true once the
// separator after the variant's last field has been consumed.
func (t *tokenizer) step(b byte, off int) (bool, error) {
	if t.state == stateComment {
		if b == '\n' {
			t.state = stateScanning
		}
		return false, nil
	}

	switch Classify(b) {
	case ClassComment:
		t.state = stateComment
	case ClassDigit:
		if t.field < 0 || t.field >= t.variant.FieldCount() {
			return false, ErrHeaderOverrun
		}
		v := t.acc[t.field]*10 + uint64(b-'0')
		if v > maxHeaderValue {
			return false, errors.Wrapf(ErrHeaderValue, "field %d at offset %d", t.field, off)
		}
		t.acc[t.field] = v
		t.afterSpace = false
	case ClassWhitespace:
		if t.afterSpace {
			return false, nil
		}
		t.afterSpace = true
		t.field++
		return t.field >= t.variant.FieldCount(), nil
	default:
		return false, &HeaderCharError{Char: b, Offset: off}
	}
	return false, nil
}

// header assembles the fields collected so far.
func (t *tokenizer) header(m Mode) (Header, error) {
	h := Header{
		Width:    int(t.acc[0]),
		Height:   int(t.acc[1]),
		MaxValue: 1,
		Variant:  t.variant,
		Mode:     m,
		Depth:    Eight,
	}
	if t.variant != Bitmap {
		mv := int(t.acc[2])
		if mv == 0 || mv > 65535 {
			return Header{}, errors.Wrapf(ErrBadMaxValue, "got %d", mv)
		}
		h.MaxValue = mv
		h.Depth = depthForMaxValue(mv)
	}
	return h, nil
}

// ParseHeader parses the header at the start of buf for any of the six
// netpbm magic numbers.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < 2 {
		return Header{}, ErrNotNetpbm
	}
	v, m, err := parseMagic(buf[0], buf[1])
	if err != nil {
		return Header{}, err
	}
	return scanHeader(buf, v, m)
}

// ParseHeaderFor is ParseHeader restricted to a single variant. Any other
// valid magic number fails with ErrUnsupportedType.
func ParseHeaderFor(buf []byte, want Variant) (Header, error) {
	if len(buf) < 2 {
		return Header{}, ErrNotNetpbm
	}
	v, m, err := parseMagic(buf[0], buf[1])
	if err != nil {
		return Header{}, err
	}
	if v != want {
		return Header{}, errors.Wrapf(ErrUnsupportedType, "expected %s, found %s", want, v)
	}
	return scanHeader(buf, v, m)
}

func scanHeader(buf []byte, v Variant, m Mode) (Header, error) {
	t := newTokenizer(v)
	for i := 2; i < len(buf); i++ {
		done, err := t.step(buf[i], i)
		if err != nil {
			return Header{}, err
		}
		if done {
			h, err := t.header(m)
			if err != nil {
				return Header{}, err
			}
			h.DataOffset = i + 1
			return h, nil
		}
	}
	return Header{}, ErrTruncatedHeader
}

// ReadHeader parses a header from a stream, consuming exactly the header
// bytes and the single separator that ends it.
func ReadHeader(r io.ByteReader) (Header, error) {
	var magic [2]byte
	for i := range magic {
		b, err := r.ReadByte()
		if err == io.EOF {
			return Header{}, ErrNotNetpbm
		}
		if err != nil {
			return Header{}, err
		}
		magic[i] = b
	}
	v, m, err := parseMagic(magic[0], magic[1])
	if err != nil {
		return Header{}, err
	}

	t := newTokenizer(v)
	for off := 2; ; off++ {
		b, err := r.ReadByte()
		if err == io.EOF {
			return Header{}, ErrTruncatedHeader
		}
		if err != nil {
			return Header{}, err
		}
		done, err := t.step(b, off)
		if err != nil {
			return Header{}, err
		}
		if done {
			h, err := t.header(m)
			if err != nil {
				return Header{}, err
			}
			h.DataOffset = off + 1
			return h, nil
		}
	}
}

// AppendHeader appends the header text for h to dst: the magic number,
// "width height\n" and, for graymaps and pixmaps, "maxvalue\n". A zero
// MaxValue is written as the depth's maximum.
func AppendHeader(dst []byte, h Header) []byte {
	magic := h.Variant.Magic(h.Mode)
	dst = append(dst, magic[:]...)
	dst = append(dst, '\n')
	dst = strconv.AppendInt(dst, int64(h.Width), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(h.Height), 10)
	dst = append(dst, '\n')
	if h.Variant != Bitmap {
		mv := h.MaxValue
		if mv == 0 {
			mv = h.Depth.MaxValue()
		}
		dst = strconv.AppendInt(dst, int64(mv), 10)
		dst = append(dst, '\n')
	}
	return dst
}
