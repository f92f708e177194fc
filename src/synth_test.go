package cassette

import (
	"math"
)

// Test fixture: a clean FSK recording of a Sorcerer tape, as the monitor would write it.

const (
	synthRate      = 44100
	synthAmplitude = 20000
)

type tapeProgram struct {
	name     string
	id       byte
	fileType FileType
	load     uint16
	run      uint16
	data     []byte
}

func (p tapeProgram) header() []byte {
	var h = make([]byte, HeaderSize)
	copy(h[0:5], []byte(p.name + "     ")[:5])
	h[5] = p.id
	h[6] = byte(p.fileType)
	h[7] = byte(len(p.data))
	h[8] = byte(len(p.data) >> 8)
	h[9] = byte(p.load)
	h[10] = byte(p.load >> 8)
	h[11] = byte(p.run)
	h[12] = byte(p.run >> 8)
	return h
}

// stream is the byte stream: leader, header, checksum, gap, then checksummed blocks.
func (p tapeProgram) stream() []byte {
	var s = make([]byte, HeaderOffset)
	s[HeaderOffset-1] = 0x01

	var h = p.header()
	s = append(s, h...)
	s = append(s, Checksum(h))

	for len(s) < FirstBlock {
		s = append(s, 0)
	}

	for off := 0; off < len(p.data); off += BlockSize {
		var blk = p.data[off:min(off+BlockSize, len(p.data))]
		s = append(s, blk...)
		s = append(s, Checksum(blk))
	}

	return s
}

func streamBits(stream []byte) []byte {
	var bits = make([]byte, 0, len(stream)*FrameBits)
	for _, b := range stream {
		bits = append(bits, FrameByte(b)...)
	}
	return bits
}

// bitTones encodes bits the way DecodeBits expects them, preceded by pilot High symbols.
func bitTones(bits []byte, baud Baud, pilot int) Tones {
	var g = grammars[baud]
	var seq = make(Tones, 0, pilot+len(bits)*g.one)

	for range pilot {
		seq = append(seq, High)
	}

	for _, b := range bits {
		if b == 0 {
			for range g.zero {
				seq = append(seq, Low)
			}
		} else {
			for range g.one {
				seq = append(seq, High)
			}
		}
	}

	return seq
}

func toneFrequency(t Tone, baud Baud) float64 {
	if baud == Baud300 {
		return IfThenElse(t == High, 2400.0, 1200.0)
	}
	return IfThenElse(t == High, 1200.0, 600.0)
}

// synthesize renders one half sine per symbol, alternating sign, between two stretches of silence.
func synthesize(seq Tones, baud Baud, rate int) []int16 {
	var silence = rate / 10
	var out = make([]int16, silence, 2*silence+len(seq)*rate/1000)

	var t0 = 0.0
	var sign = 1.0

	for _, t := range seq {
		var width = float64(rate) / (2 * toneFrequency(t, baud))

		for n := math.Ceil(t0); n < t0+width; n++ {
			out = append(out, int16(sign*synthAmplitude*math.Sin(math.Pi*(n-t0)/width)))
		}

		t0 += width
		sign = -sign
	}

	return append(out, make([]int16, silence)...)
}

// constantTone is a plain sine, for recordings that should not decode.
func constantTone(freq float64, seconds float64, rate int) []int16 {
	var n = int(seconds * float64(rate))
	var out = make([]int16, n)
	for i := range out {
		out[i] = int16(synthAmplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return out
}

// recordProgram adds a closing tone because the last half cycle fades into
// silence and never produces a crossing of its own.
func recordProgram(p tapeProgram, baud Baud) []int16 {
	return recordStream(p.stream(), baud)
}

func recordStream(stream []byte, baud Baud) []int16 {
	var seq = bitTones(streamBits(stream), baud, 400)
	for range 2 * grammars[baud].one {
		seq = append(seq, High)
	}
	return synthesize(seq, baud, synthRate)
}

func sequentialData(n int) []byte {
	var data = make([]byte, n)
	for i := range data {
		data[i] = byte(i*7 + 3)
	}
	return data
}
