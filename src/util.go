package cassette

import (
	"bytes"
	"fmt"
)

// Because sometimes it's really convenient to have C's ternary ?:
func IfThenElse[T any](x bool, a T, b T) T { //nolint:ireturn
	if x {
		return a
	} else {
		return b
	}
}

// Tape names are fixed-width and padded, usually with spaces, sometimes with nulls.
func paddedToString(b []byte) string {
	return string(bytes.TrimRight(b, "\x00 "))
}

func hex8(v uint8) string {
	return fmt.Sprintf("0x%02x", v)
}

func hex16(v uint16) string {
	return fmt.Sprintf("0x%04x", v)
}
