package cassette

/*------------------------------------------------------------------
 *
 * Purpose:	Convert the tone sequence into a bit stream.
 *
 * Description:	Each symbol is one half cycle.  Start by skipping past
 *		all the High pilot tone.  After that we should be looking
 *		at a Low, the start bit of the first byte.
 *
 *		300 baud:	"LLLLLLLL"		0
 *				"HHHHHHHHHHHHHHHH"	1
 *
 *		1200 baud:	"L"			0
 *				"HH"			1
 *
 *		Anything else is either the closing High tone, which is
 *		fine, or a broken recording, which is not.
 *
 *------------------------------------------------------------------*/

type bitGrammar struct {
	zero int // Number of Low symbols for a 0.
	one  int // Number of High symbols for a 1.
}

var grammars = map[Baud]bitGrammar{
	Baud300:  {zero: 8, one: 16},
	Baud1200: {zero: 1, one: 2},
}

// SkipPilot returns the index of the first Low symbol, or len(seq) if there is none.
func SkipPilot(seq Tones) int {
	var i = 0
	for i < len(seq) && seq[i] == High {
		i++
	}
	return i
}

func runOf(seq Tones, i int, n int, t Tone) bool {
	if i+n > len(seq) {
		return false
	}
	for _, s := range seq[i : i+n] {
		if s != t {
			return false
		}
	}
	return true
}

func anyLow(seq Tones) bool {
	for _, s := range seq {
		if s == Low {
			return true
		}
	}
	return false
}

/*------------------------------------------------------------------
 *
 * Name:	DecodeBits
 *
 * Purpose:	Tone symbols to bits.
 *
 * Inputs:	seq	- From ClassifyTones.
 *
 *		baud	- From InferBaud.
 *
 * Returns:	Bits, one per byte, values 0 or 1.
 *
 *		InvalidSequenceError if a run matches neither bit and
 *		isn't a plausible trailer either.  A trailer is less than
 *		one 1-bit worth of symbols with no Low among them.
 *
 *------------------------------------------------------------------*/

func DecodeBits(seq Tones, baud Baud) ([]byte, error) {
	var g, ok = grammars[baud]
	if !ok {
		return nil, &FaultyRecordingError{Reason: "unknown baud rate"} //nolint:exhaustruct
	}

	var bits []byte
	var i = SkipPilot(seq)

	for i < len(seq) {
		if runOf(seq, i, g.zero, Low) {
			bits = append(bits, 0)
			i += g.zero
			continue
		}

		if runOf(seq, i, g.one, High) {
			bits = append(bits, 1)
			i += g.one
			continue
		}

		if len(seq)-i < g.one && !anyLow(seq[i:]) {
			break
		}

		return nil, &InvalidSequenceError{
			Position: i,
			Context:  seq[i:min(i+g.one, len(seq))],
			Total:    len(seq),
			Bits:     len(bits),
		}
	}

	return bits, nil
}
