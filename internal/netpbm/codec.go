package netpbm

import (
	"io"

	"github.com/pkg/errors"
)

// Decode parses a complete netpbm file held in buf.
//
// Pixel data starts at the header's DataOffset. Bytes beyond the pixels the
// header calls for are ignored; too few fail with ErrPixelCount.
func Decode(buf []byte) (*Image, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return nil, err
	}
	return decodeData(h, buf[h.DataOffset:])
}

// DecodeAs is Decode restricted to one variant.
func DecodeAs(buf []byte, v Variant) (*Image, error) {
	h, err := ParseHeaderFor(buf, v)
	if err != nil {
		return nil, err
	}
	return decodeData(h, buf[h.DataOffset:])
}

func decodeData(h Header, data []byte) (*Image, error) {
	img := &Image{
		Width:   h.Width,
		Height:  h.Height,
		Variant: h.Variant,
		Depth:   h.Depth,
	}
	if h.Variant != Bitmap {
		img.MaxValue = h.MaxValue
	}

	var pix []byte
	switch {
	case h.Variant == Bitmap && h.Mode == ASCII:
		pix = DecodeASCIIBits(data)
	case h.Variant == Bitmap:
		rb := PackedRowBytes(h.Width)
		if !rowsFit(h.Height, rb, len(data)) {
			return nil, errors.Wrapf(ErrPixelCount, "bitmap %dx%d needs more than the %d bytes present",
				h.Width, h.Height, len(data))
		}
		n := rb * h.Height
		if len(data) > n {
			data = data[:n]
		}
		pix = UnpackBits(data, h.Width)
	case h.Mode == ASCII:
		pix = DecodeASCIISamples(data, h.Depth)
	default:
		pix = data
	}

	stride := img.Stride()
	if stride/img.Channels()/h.Depth.BytesPerSample() != h.Width || !rowsFit(h.Height, stride, len(pix)) {
		return nil, errors.Wrapf(ErrPixelCount, "%s %dx%d needs more than the %d bytes of samples present",
			h.Variant, h.Width, h.Height, len(pix))
	}
	want := stride * h.Height
	img.Pix = make([]byte, want)
	copy(img.Pix, pix)
	return img, nil
}

// Encode renders img as a complete netpbm file in the given mode.
//
// Graymaps and pixmaps are written with img.MaxValue, or with 255 or 65535
// when it is zero. Plain encoding of an image wider than MaxLineChars fails
// with ErrWidthTooWide before any output is produced.
func Encode(img *Image, mode Mode) ([]byte, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if mode == ASCII && img.Width > MaxLineChars {
		return nil, ErrWidthTooWide
	}

	out := AppendHeader(make([]byte, 0, 32+encodedSize(img, mode)), img.Header(mode))
	stride := img.Stride()
	var norm []byte
	for y := 0; y < img.Height; y++ {
		row := img.Pix[y*stride : (y+1)*stride]
		switch {
		case img.Variant == Bitmap && mode == Binary:
			out = PackRow(out, row)
		case mode == Binary:
			out = append(out, row...)
		default:
			if img.Variant == Bitmap {
				norm = normalizeBits(norm[:0], row)
				row = norm
			}
			var err error
			if out, err = AppendASCIIRow(out, row, img.Depth); err != nil {
				return nil, errors.Wrapf(err, "row %d", y)
			}
		}
	}
	return out, nil
}

// rowsFit reports whether the given number of rows of stride bytes fits in
// have bytes, without forming the product.
func rowsFit(rows, stride, have int) bool {
	return stride == 0 || rows <= have/stride
}

// EncodeTo writes the encoding of img to w.
func EncodeTo(w io.Writer, img *Image, mode Mode) error {
	buf, err := Encode(img, mode)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

func encodedSize(img *Image, mode Mode) int {
	switch {
	case mode == ASCII:
		return len(img.Pix) * 4
	case img.Variant == Bitmap:
		return PackedRowBytes(img.Width) * img.Height
	}
	return len(img.Pix)
}

// normalizeBits maps every nonzero bitmap sample to 1.
func normalizeBits(dst, row []byte) []byte {
	for _, s := range row {
		if s != 0 {
			s = 1
		}
		dst = append(dst, s)
	}
	return dst
}
