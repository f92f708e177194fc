package cassette

/*------------------------------------------------------------------
 *
 * Purpose:	Summarise the input audio as a troubleshooting aid.
 *
 *		A common complaint is that there is no indication of
 *		the recording level until something decodes correctly.
 *		A peak level near full scale means clipping, a very low
 *		one means the tape was played back too quietly for the
 *		silence threshold.
 *
 *------------------------------------------------------------------*/

import (
	"time"
)

type SampleStats struct {
	Samples    int           // Before trimming.
	SampleRate int           //
	Duration   time.Duration // Before trimming.
	Peak       int32         // Largest magnitude.
	Start      int           // First sample kept by TrimSilence.
	Kept       int           // Number of samples kept by TrimSilence.
	Crossings  int
}

func sampleStats(samples []int16, sampleRate int) SampleStats {
	var s = SampleStats{ //nolint:exhaustruct
		Samples:    len(samples),
		SampleRate: sampleRate,
	}

	if sampleRate > 0 {
		s.Duration = time.Duration(len(samples)) * time.Second / time.Duration(sampleRate)
	}

	for _, v := range samples {
		s.Peak = max(s.Peak, abs16(v))
	}

	return s
}

// Level is the peak as a percentage of full scale.
func (s SampleStats) Level() float64 {
	return 100 * float64(s.Peak) / 32768
}
