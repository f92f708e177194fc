package cassette

/*------------------------------------------------------------------
 *
 * Purpose:	Record straight from the sound card "line in".
 *
 * Description:	Start the tape, start this, and stop it (or let the
 *		timer run out) once the tape has gone quiet again.  The
 *		result is decoded exactly like a WAV file.
 *
 *		Always mono, 16 bit, so DecodeRecording will accept it.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	DefaultCaptureRate = 44100

	// Roughly 23 ms at 44.1 kHz.
	captureFramesPerBuffer = 1024
)

type CaptureOptions struct {
	SampleRate int           // Zero means DefaultCaptureRate.
	Duration   time.Duration // Zero means until ctx is done.
}

func Capture(ctx context.Context, opts CaptureOptions) (*Recording, error) {
	if opts.SampleRate == 0 {
		opts.SampleRate = DefaultCaptureRate
	}

	if opts.Duration == 0 {
		if _, ok := ctx.Deadline(); !ok && ctx.Done() == nil {
			return nil, errors.New("capture needs a duration or a cancellable context")
		}
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialising audio: %w", err)
	}
	defer portaudio.Terminate() //nolint:errcheck

	var buf = make([]int16, captureFramesPerBuffer)

	var stream, err = portaudio.OpenDefaultStream(1, 0, float64(opts.SampleRate), len(buf), buf)
	if err != nil {
		return nil, fmt.Errorf("opening audio input: %w", err)
	}
	defer stream.Close() //nolint:errcheck

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("starting audio input: %w", err)
	}
	defer stream.Stop() //nolint:errcheck

	var rec = &Recording{
		Samples:    nil,
		SampleRate: opts.SampleRate,
		Channels:   1,
		Bits:       16,
		Compressed: false,
	}

	var want = -1
	if opts.Duration > 0 {
		want = int(opts.Duration * time.Duration(opts.SampleRate) / time.Second)
	}

	for want < 0 || len(rec.Samples) < want {
		if ctx.Err() != nil {
			break
		}

		if err := stream.Read(); err != nil {
			return nil, fmt.Errorf("reading audio input: %w", err)
		}

		var n = len(buf)
		if want >= 0 {
			n = min(n, want-len(rec.Samples))
		}
		rec.Samples = append(rec.Samples, buf[:n]...)
	}

	return rec, nil
}
