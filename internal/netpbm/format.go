package netpbm

import (
	"strings"

	"github.com/pkg/errors"
)

// Variant identifies the netpbm image kind.
type Variant int

const (
	Bitmap  Variant = iota // PBM
	Graymap                // PGM
	Pixmap                 // PPM
)

// Mode is the pixel data encoding.
type Mode int

const (
	ASCII Mode = iota
	Binary
)

// Depth is the sample width of graymaps and pixmaps. Bitmaps are always Eight.
type Depth int

const (
	Eight Depth = iota
	Sixteen
)

// variantInfo describes how a variant is laid out on disk and in memory.
type variantInfo struct {
	name     string
	ext      string
	channels int
	fields   int  // header fields after the magic number
	packed   bool // binary rows are bit-packed
}

var variants = [...]variantInfo{
	Bitmap:  {name: "bitmap", ext: "pbm", channels: 1, fields: 2, packed: true},
	Graymap: {name: "graymap", ext: "pgm", channels: 1, fields: 3},
	Pixmap:  {name: "pixmap", ext: "ppm", channels: 3, fields: 3},
}

func (v Variant) valid() bool {
	return v >= Bitmap && v <= Pixmap
}

func (v Variant) String() string {
	if !v.valid() {
		return "unknown"
	}
	return variants[v].name
}

// Extension returns the conventional file extension without the dot.
func (v Variant) Extension() string {
	if !v.valid() {
		return ""
	}
	return variants[v].ext
}

// Channels returns the number of samples per pixel.
func (v Variant) Channels() int {
	return variants[v].channels
}

// FieldCount returns the number of numeric header fields: 2 for bitmaps
// (width, height) and 3 for graymaps and pixmaps (width, height, max-value).
func (v Variant) FieldCount() int {
	return variants[v].fields
}

// Packed reports whether binary pixel data is stored one bit per pixel.
func (v Variant) Packed() bool {
	return variants[v].packed
}

// Magic returns the two-byte magic number for the variant in the given mode.
func (v Variant) Magic(m Mode) [2]byte {
	d := byte('1') + byte(v)
	if m == Binary {
		d += 3
	}
	return [2]byte{'P', d}
}

func (m Mode) String() string {
	switch m {
	case ASCII:
		return "ascii"
	case Binary:
		return "binary"
	}
	return "unknown"
}

func (d Depth) String() string {
	switch d {
	case Eight:
		return "8-bit"
	case Sixteen:
		return "16-bit"
	}
	return "unknown"
}

// BytesPerSample returns 1 for Eight and 2 for Sixteen.
func (d Depth) BytesPerSample() int {
	if d == Sixteen {
		return 2
	}
	return 1
}

// MaxValue returns the largest sample value the depth can hold.
func (d Depth) MaxValue() int {
	if d == Sixteen {
		return 65535
	}
	return 255
}

// depthForMaxValue derives the sample depth from a header max-value.
func depthForMaxValue(maxValue int) Depth {
	if maxValue > 255 {
		return Sixteen
	}
	return Eight
}

// parseMagic maps the two magic bytes to a variant and mode.
//
// P7 (PAM) is recognized as netpbm but not supported.
func parseMagic(b0, b1 byte) (Variant, Mode, error) {
	if b0 != 'P' || b1 < '1' || b1 > '7' {
		return 0, 0, ErrNotNetpbm
	}
	switch b1 {
	case '1', '4':
		return Bitmap, modeForMagic(b1), nil
	case '2', '5':
		return Graymap, modeForMagic(b1), nil
	case '3', '6':
		return Pixmap, modeForMagic(b1), nil
	}
	return 0, 0, ErrUnsupportedType
}

func modeForMagic(b1 byte) Mode {
	if b1 >= '4' {
		return Binary
	}
	return ASCII
}

// ParseVariant accepts "pbm", "pgm", "ppm" or the long names "bitmap",
// "graymap", "pixmap".
func ParseVariant(s string) (Variant, error) {
	s = strings.ToLower(strings.TrimPrefix(s, "."))
	for i, info := range variants {
		if s == info.ext || s == info.name {
			return Variant(i), nil
		}
	}
	return 0, errors.Errorf("netpbm: unknown format %q", s)
}

// ParseMode accepts "ascii"/"plain" and "binary"/"raw".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "ascii", "plain":
		return ASCII, nil
	case "binary", "raw":
		return Binary, nil
	}
	return 0, errors.Errorf("netpbm: unknown mode %q", s)
}

// ParseDepth accepts "8", "16", "8-bit" and "16-bit".
func ParseDepth(s string) (Depth, error) {
	switch strings.ToLower(s) {
	case "8", "8-bit":
		return Eight, nil
	case "16", "16-bit":
		return Sixteen, nil
	}
	return 0, errors.Errorf("netpbm: unknown depth %q", s)
}
