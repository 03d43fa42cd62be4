package netpbm

// ByteClass is the lexical class of a header byte.
type ByteClass int

const (
	ClassOther ByteClass = iota
	ClassDigit
	ClassWhitespace
	ClassComment
)

// Classify reports the lexical class of b. Whitespace is blank, TAB, CR and LF.
func Classify(b byte) ByteClass {
	switch {
	case isDigit(b):
		return ClassDigit
	case isWhitespace(b):
		return ClassWhitespace
	case b == '#':
		return ClassComment
	default:
		return ClassOther
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
