package netpbm

// RowPadding returns the number of don't-care bits that round a bitmap row of
// the given width up to a byte boundary.
func RowPadding(width int) int {
	return (8 - width%8) % 8
}

// PackedRowBytes returns the size of one bit-packed bitmap row.
func PackedRowBytes(width int) int {
	return (width + 7) / 8
}

// PackRow appends the bit-packed form of one bitmap row to dst. Samples are
// packed most significant bit first, any nonzero sample is a 1 bit, and the
// last byte of a row whose width is not a multiple of 8 is shifted left so
// its padding bits are zero.
func PackRow(dst, row []byte) []byte {
	var cur byte
	n := 0
	for _, s := range row {
		cur <<= 1
		if s != 0 {
			cur |= 1
		}
		n++
		if n == 8 {
			dst = append(dst, cur)
			cur, n = 0, 0
		}
	}
	if n != 0 {
		dst = append(dst, cur<<RowPadding(len(row)))
	}
	return dst
}

// PackBits packs every complete row of samples.
func PackBits(samples []byte, width int) []byte {
	if width <= 0 {
		return nil
	}
	rows := len(samples) / width
	out := make([]byte, 0, rows*PackedRowBytes(width))
	for y := 0; y < rows; y++ {
		out = PackRow(out, samples[y*width:(y+1)*width])
	}
	return out
}

// UnpackBits expands bit-packed bitmap rows into one byte per pixel.
//
// ind counts the bits consumed in the current row, including the byte being
// read. While ind is below width the whole byte belongs to the row; once it
// reaches width the byte is the row's last, and only the bits ahead of the
// padding are kept before ind starts over.
func UnpackBits(src []byte, width int) []byte {
	if width <= 0 {
		return nil
	}
	out := make([]byte, 0, len(src)*8)
	padding := RowPadding(width)
	ind := 8
	for _, b := range src {
		for i := 0; i < 8; i++ {
			mv := 8 - i
			if ind < width || mv > padding {
				out = append(out, (b&masks[i])>>(mv-1))
			}
		}
		if ind >= width {
			ind = 8
		} else {
			ind += 8
		}
	}
	return out
}

var masks = [8]byte{128, 64, 32, 16, 8, 4, 2, 1}

// UnpackRow appends the pixels of the single packed row at the start of src.
func UnpackRow(dst, src []byte, width int) []byte {
	n := PackedRowBytes(width)
	if n > len(src) {
		n = len(src)
	}
	return append(dst, UnpackBits(src[:n], width)...)
}
