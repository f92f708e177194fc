package cassette

/*------------------------------------------------------------------
 *
 * Purpose:	Reassemble bytes from the bit stream.
 *
 * Description:	Each byte is sent as 11 bits:
 *
 *			1 start bit (always 0)
 *			8 data bits, LSB first
 *			2 stop bits (always 1 1)
 *
 *		The framing is purely positional.  Start and stop bits
 *		are not checked.
 *
 *------------------------------------------------------------------*/

const (
	FrameBits = 11
	dataBits  = 8
)

// FrameBytes converts every complete 11-bit frame to a byte.  A partial frame at the end is ignored.
func FrameBytes(bits []byte) []byte {
	var out = make([]byte, 0, len(bits)/FrameBits)

	for i := 0; i+FrameBits <= len(bits); i += FrameBits {
		var b byte
		for k := range dataBits {
			b |= (bits[i+1+k] & 1) << k
		}
		out = append(out, b)
	}

	return out
}

// FrameByte is the inverse of FrameBytes for a single byte.
func FrameByte(v byte) []byte {
	var frame = make([]byte, FrameBits)
	for k := range dataBits {
		frame[1+k] = (v >> k) & 1
	}
	frame[9] = 1
	frame[10] = 1
	return frame
}
