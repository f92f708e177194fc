package cassette

/*------------------------------------------------------------------
 *
 * Purpose:	Find the zero crossings in the recording.
 *
 * Description:	Both rising and falling edges are used.  Each half cycle
 *		of the tape signal lies between two consecutive crossings
 *		so the distance between them gives us the tone frequency.
 *
 *		Positions are interpolated between the two samples on
 *		either side of the crossing which gives far better
 *		frequency estimates than whole sample counts, particularly
 *		for the 2400 Hz tone where a half cycle is only about
 *		nine samples at 44.1 kHz.
 *
 *------------------------------------------------------------------*/

// DefaultSilenceThreshold is the level below which leading and trailing samples are discarded.
const DefaultSilenceThreshold = 5000

func abs16(s int16) int32 {
	var v = int32(s)
	if v < 0 {
		return -v
	}
	return v
}

/*------------------------------------------------------------------
 *
 * Name:	TrimSilence
 *
 * Purpose:	Drop the silent or near-silent lead-in and run-out.
 *
 * Inputs:	samples		- Mono audio.
 *
 *		threshold	- Anything with a magnitude below this is "quiet".
 *
 * Returns:	Sub-slice of samples, and the index of its first element
 *		in samples.  Empty if there is nothing loud.
 *
 * Description:	One quiet sample is kept in front of the first loud one so
 *		the first edge still has a neighbour to interpolate against.
 *
 *------------------------------------------------------------------*/

func TrimSilence(samples []int16, threshold int) ([]int16, int) {
	var t = int32(threshold)

	var s = 0
	for s < len(samples) && abs16(samples[s]) < t {
		s++
	}
	if s == len(samples) {
		return samples[:0], 0
	}

	var f = len(samples) - 1
	for f > s && abs16(samples[f]) < t {
		f--
	}

	if s > 0 {
		s--
	}

	return samples[s : f+1], s
}

/*------------------------------------------------------------------
 *
 * Name:	FindCrossings
 *
 * Purpose:	Locate every sign change with sub-sample accuracy.
 *
 * Inputs:	data	- Mono audio, normally already trimmed.
 *
 * Returns:	Strictly increasing fractional sample positions.
 *
 * Description:	Rising edge: previous sample negative, current >= 0.
 *		Falling edge: previous >= 0, current negative.
 *		For the sample i before the edge the zero lies at
 *
 *			i - d[i] / (d[i+1] - d[i])
 *
 *		The difference of two int16 values does not fit in int16
 *		so everything is widened to int32 first.
 *
 *		A zero-width touch (rising and falling edge at the same
 *		position) is dropped so the result stays strictly increasing.
 *
 *------------------------------------------------------------------*/

func FindCrossings(data []int16) []float64 {
	var crossings []float64

	for i := 0; i+1 < len(data); i++ {
		var a = int32(data[i])
		var b = int32(data[i+1])

		if (a < 0) == (b < 0) {
			continue
		}

		var pos = float64(i) - float64(a)/float64(b-a)

		// A signal that only touches zero, e.g. -5 0 -5, yields a rising
		// and a falling edge at the same place.  That is not a half cycle.
		if n := len(crossings); n > 0 && pos <= crossings[n-1] {
			crossings = crossings[:n-1]
			continue
		}

		crossings = append(crossings, pos)
	}

	return crossings
}
