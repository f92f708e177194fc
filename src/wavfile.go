package cassette

/*------------------------------------------------------------------
 *
 * Purpose:	Take audio from a .WAV file instead of the audio device.
 *
 * Description:	Only the first channel is kept.  The channel count and
 *		compression are recorded so that DecodeRecording can
 *		refuse anything that isn't mono PCM.
 *
 *		8-bit WAV samples are unsigned, centred on 128.  Those are
 *		re-centred and scaled up so that the silence threshold means
 *		the same thing whatever the sample width.  Wider samples
 *		are scaled down to 16 bits.
 *
 *------------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/youpy/go-wav"
)

// The WAV parser needs random access to find its chunks.
type WAVSource interface {
	io.Reader
	io.ReaderAt
}

// How many frames to read at a time.
const wavReadChunk = 4096

func ReadWAV(r WAVSource) (*Recording, error) {
	var reader = wav.NewReader(r)

	var format, err = reader.Format()
	if err != nil {
		return nil, fmt.Errorf("reading WAV format: %w", err)
	}

	var rec = &Recording{
		Samples:    nil,
		SampleRate: int(format.SampleRate),
		Channels:   int(format.NumChannels),
		Bits:       int(format.BitsPerSample),
		Compressed: format.AudioFormat != wav.AudioFormatPCM,
	}

	if rec.Compressed {
		return rec, nil
	}

	if rec.Bits != 8 && rec.Bits != 16 && rec.Bits != 24 && rec.Bits != 32 {
		return nil, &UnsupportedFormatError{Reason: fmt.Sprintf("%d bits per sample", rec.Bits)}
	}

	for {
		var samples, readErr = reader.ReadSamples(wavReadChunk)
		for _, s := range samples {
			rec.Samples = append(rec.Samples, to16(reader.IntValue(s, 0), rec.Bits))
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("reading WAV samples: %w", readErr)
		}
	}

	return rec, nil
}

func to16(v int, bits int) int16 {
	switch {
	case bits == 8:
		return int16((v - 128) << 8)
	case bits > 16:
		return int16(v >> (bits - 16))
	default:
		return int16(v)
	}
}

// Duration of the recording.
func (r *Recording) Duration() time.Duration {
	if r.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(r.Samples)) * time.Second / time.Duration(r.SampleRate)
}
