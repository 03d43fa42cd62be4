package netpbm

import "strconv"

// MaxLineChars is the longest plain-format row, counted in digits.
const MaxLineChars = 70

// AppendASCIIRow appends one plain-format row to dst: each sample as a minimal
// decimal token, tokens separated by a single space, the row ending in one
// newline. With Sixteen depth each sample is read from two bytes, high byte
// first.
//
// The digits of a row, not counting separators, may not exceed MaxLineChars;
// a longer row fails with ErrLineTooWide and dst is returned unchanged.
func AppendASCIIRow(dst, row []byte, depth Depth) ([]byte, error) {
	start := len(dst)
	bps := depth.BytesPerSample()
	chars := 0
	for i := 0; i+bps <= len(row); i += bps {
		v := uint64(row[i])
		if bps == 2 {
			v = v<<8 | uint64(row[i+1])
		}
		if i > 0 {
			dst = append(dst, ' ')
		}
		n := len(dst)
		dst = strconv.AppendUint(dst, v, 10)
		chars += len(dst) - n
		if chars > MaxLineChars {
			return dst[:start], ErrLineTooWide
		}
	}
	return append(dst, '\n'), nil
}

// DecodeASCIISamples parses whitespace-separated decimal tokens into raw
// sample bytes: one byte per token (the low eight bits) for Eight, two bytes
// high byte first for Sixteen. Any non-digit byte ends a token; a token still
// open at the end of src is kept.
func DecodeASCIISamples(src []byte, depth Depth) []byte {
	out := make([]byte, 0, len(src)/2)
	var num uint32
	inToken := false
	flush := func() {
		if depth == Sixteen {
			out = append(out, byte(num>>8), byte(num))
		} else {
			out = append(out, byte(num))
		}
		num = 0
		inToken = false
	}
	for _, b := range src {
		if isDigit(b) {
			num = num*10 + uint32(b-'0')
			inToken = true
			continue
		}
		if inToken {
			flush()
		}
	}
	if inToken {
		flush()
	}
	return out
}

// DecodeASCIIBits reads plain bitmap data: every '0' is a 0 sample, every '1'
// a 1 sample, and every other byte is skipped.
func DecodeASCIIBits(src []byte) []byte {
	out := make([]byte, 0, len(src)/2)
	for _, b := range src {
		switch b {
		case '0':
			out = append(out, 0)
		case '1':
			out = append(out, 1)
		}
	}
	return out
}
