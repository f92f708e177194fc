package cassette

/*------------------------------------------------------------------
 *
 * Purpose:	Turn zero crossings into High / Low tone symbols.
 *
 * Description:	At 300 baud a 0 is four cycles of 1200 Hz and a 1 is
 *		eight cycles of 2400 Hz.
 *
 *		At 1200 baud a 0 is half a cycle of 600 Hz and a 1 is one
 *		cycle of 1200 Hz.  Put another way, the output level is
 *		toggled at the start of every bit and toggled again half
 *		way through if the bit is a 0.
 *
 *		So 1200 Hz means Low at 300 baud but High at 1200 baud,
 *		and we have to work out the baud rate before we can
 *		classify anything.  The frequency histogram tells us.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"
)

type Baud int

const (
	Baud300  Baud = 300
	Baud1200 Baud = 1200
)

type Tone uint8

const (
	Low Tone = iota
	High
)

func (t Tone) String() string {
	return IfThenElse(t == High, "H", "L")
}

// Tones is one symbol per half cycle.
type Tones []Tone

func (s Tones) String() string {
	var b strings.Builder
	b.Grow(len(s))
	for _, t := range s {
		b.WriteString(t.String())
	}
	return b.String()
}

// ParseTones is the inverse of Tones.String.  Anything other than 'H' is Low.
func ParseTones(s string) Tones {
	var tones = make(Tones, len(s))
	for i := range len(s) {
		tones[i] = IfThenElse(s[i] == 'H', High, Low)
	}
	return tones
}

// Below this many estimates it isn't worth starting goroutines.
const minParallelEstimates = 4096

/*------------------------------------------------------------------
 *
 * Name:	EstimateFrequencies
 *
 * Purpose:	Frequency of each half cycle.
 *
 * Inputs:	crossings	- From FindCrossings.
 *
 *		sampleRate	- Hz.
 *
 *		workers		- Maximum goroutines.  <= 1 means sequential.
 *
 * Returns:	One estimate per adjacent pair of crossings,
 *		sampleRate / (2 * width).
 *
 * Description:	Each estimate depends only on its own two crossings so the
 *		work can be split into independent chunks.  The result is
 *		the same however many workers are used.
 *
 *------------------------------------------------------------------*/

func EstimateFrequencies(crossings []float64, sampleRate int, workers int) []float64 {
	if len(crossings) < 2 {
		return nil
	}

	var freq = make([]float64, len(crossings)-1)
	var rate = float64(sampleRate)

	var estimate = func(lo, hi int) {
		for i := lo; i < hi; i++ {
			freq[i] = rate / ((crossings[i+1] - crossings[i]) * 2)
		}
	}

	if workers <= 1 || len(freq) < minParallelEstimates {
		estimate(0, len(freq))
		return freq
	}

	var g errgroup.Group
	g.SetLimit(workers)

	var chunk = (len(freq) + workers - 1) / workers
	for lo := 0; lo < len(freq); lo += chunk {
		var hi = min(lo+chunk, len(freq))
		g.Go(func() error {
			estimate(lo, hi)
			return nil
		})
	}

	_ = g.Wait() // Workers never fail.

	return freq
}

// RoundFrequency rounds to the nearest 100 Hz, halves to even: 1050 is 1000, 1150 is 1200.
func RoundFrequency(f float64) int {
	return int(math.RoundToEven(f/100)) * 100
}

type Bucket struct {
	Frequency int     `yaml:"frequency"`
	Count     int     `yaml:"count"`
	Percent   float64 `yaml:"percent"`
}

// Histogram of rounded frequencies, in the order each bucket was first seen.
type Histogram []Bucket

/*------------------------------------------------------------------
 *
 * Name:	BuildHistogram
 *
 * Purpose:	Count the estimates per 100 Hz bucket.
 *
 * Returns:	Buckets in first-seen order.  Percent is of all estimates.
 *
 *------------------------------------------------------------------*/

func BuildHistogram(freq []float64) Histogram {
	var h Histogram
	var index = make(map[int]int)

	for _, f := range freq {
		var r = RoundFrequency(f)
		var i, ok = index[r]
		if !ok {
			i = len(h)
			index[r] = i
			h = append(h, Bucket{Frequency: r}) //nolint:exhaustruct
		}
		h[i].Count++
	}

	for i := range h {
		h[i].Percent = 100 * float64(h[i].Count) / float64(len(freq))
	}

	return h
}

func (h Histogram) Count(frequency int) int {
	for _, b := range h {
		if b.Frequency == frequency {
			return b.Count
		}
	}
	return 0
}

// HasAny reports whether any of the given buckets is present.
func (h Histogram) HasAny(frequencies ...int) bool {
	for _, f := range frequencies {
		if h.Count(f) > 0 {
			return true
		}
	}
	return false
}

func (h Histogram) String() string {
	var parts = make([]string, 0, len(h))
	for _, b := range h {
		parts = append(parts, fmt.Sprintf("%d (%.0f%%)", b.Frequency, math.Round(b.Percent)))
	}
	return strings.Join(parts, " ")
}

// Allow some leeway around each nominal tone so flaky recordings can still be read.
var (
	near600  = []int{500, 600, 700}
	near1200 = []int{1100, 1200, 1300}
	near2400 = []int{2300, 2400, 2500}
)

/*------------------------------------------------------------------
 *
 * Name:	InferBaud
 *
 * Purpose:	Decide between 300 and 1200 baud.
 *
 * Description:	Both rates use 1200 Hz.  1200 baud adds 600 Hz and
 *		300 baud adds 2400 Hz.  If 600 Hz is present we don't
 *		look any further.
 *
 *------------------------------------------------------------------*/

func InferBaud(h Histogram) (Baud, error) {
	if !h.HasAny(near1200...) {
		return 0, &FaultyRecordingError{Reason: "no 1200Hz tone", Histogram: h}
	}

	if h.HasAny(near600...) {
		return Baud1200, nil
	}

	if h.HasAny(near2400...) {
		return Baud300, nil
	}

	return 0, &FaultyRecordingError{Reason: "1200Hz only", Histogram: h}
}

/*------------------------------------------------------------------
 *
 * Name:	ClassifyTones
 *
 * Purpose:	Map each half cycle onto High or Low for the given baud rate.
 *
 * Description:
 *
 *		f > 1800		High
 *		900 < f <= 1800		Low at 300 baud, High at 1200 baud
 *		450 < f <= 900		Low
 *		f <= 450		UnidentifiedToneError
 *
 *		Nothing valid is ever that slow, so the last case stops
 *		the decode rather than being skipped.
 *
 *------------------------------------------------------------------*/

func ClassifyTones(freq []float64, baud Baud) (Tones, error) {
	var seq = make(Tones, 0, len(freq))

	for i, f := range freq {
		switch {
		case f > 1800:
			seq = append(seq, High)
		case f > 900:
			seq = append(seq, IfThenElse(baud == Baud300, Low, High))
		case f > 450:
			seq = append(seq, Low)
		default:
			return nil, &UnidentifiedToneError{Index: i, Frequency: f} //nolint:exhaustruct
		}
	}

	return seq, nil
}
