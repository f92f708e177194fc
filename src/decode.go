package cassette

/*------------------------------------------------------------------
 *
 * Purpose:	Recover a Sorcerer program image from mono audio samples.
 *
 * Description:	Each stage consumes all of the previous stage's output.
 *
 *		samples -> crossings -> frequencies -> tones -> bits
 *			-> bytes -> header and blocks
 *
 *		Every fatal problem is returned as an error and no image
 *		is produced.  Checksum failures are not fatal; they are
 *		recorded on the block and the decode carries on.
 *
 *------------------------------------------------------------------*/

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"
)

type Options struct {
	// Leading and trailing samples quieter than this are discarded.
	// Zero means DefaultSilenceThreshold.
	SilenceThreshold int

	// Maximum goroutines for frequency estimation.  <= 1 is sequential.
	Workers int

	// Logger for progress and diagnostics.  Nil discards everything.
	Logger *log.Logger

	// Called once per decode with the frequency histogram, whether or
	// not the baud rate could be determined.
	OnHistogram func(Histogram)
}

// Recording is mono audio as delivered by an audio source, plus what the source knows about its format.
type Recording struct {
	Samples    []int16
	SampleRate int
	Channels   int  // Channels in the source.  Samples holds only the first.
	Bits       int  // Sample width in the source.
	Compressed bool // Anything other than linear PCM.
}

type Decoder struct {
	opts   Options
	logger *log.Logger
}

func NewDecoder(opts Options) *Decoder {
	if opts.SilenceThreshold == 0 {
		opts.SilenceThreshold = DefaultSilenceThreshold
	}

	var logger = opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Decoder{opts: opts, logger: logger}
}

// Decode with default options.
func Decode(samples []int16, sampleRate int) (*ProgramImage, error) {
	return NewDecoder(Options{}).Decode(samples, sampleRate) //nolint:exhaustruct
}

// DecodeRecording checks the source format before decoding.
func (d *Decoder) DecodeRecording(rec *Recording) (*ProgramImage, error) {
	if rec.Compressed {
		return nil, &UnsupportedFormatError{Reason: "compressed files are not supported"}
	}

	if rec.Channels != 1 {
		return nil, &UnsupportedFormatError{Reason: "please convert file to mono"}
	}

	return d.Decode(rec.Samples, rec.SampleRate)
}

func (d *Decoder) histogram(h Histogram) {
	d.logger.Info("Frequencies", "histogram", h.String())
	if d.opts.OnHistogram != nil {
		d.opts.OnHistogram(h)
	}
}

/*------------------------------------------------------------------
 *
 * Name:	Decode
 *
 * Purpose:	Run the whole pipeline.
 *
 * Inputs:	samples		- Mono audio, signed.
 *
 *		sampleRate	- Hz.
 *
 * Returns:	The program image, or one of the fatal error types.
 *
 *------------------------------------------------------------------*/

func (d *Decoder) Decode(samples []int16, sampleRate int) (*ProgramImage, error) {
	if sampleRate <= 0 {
		return nil, &UnsupportedFormatError{Reason: "sample rate must be positive"}
	}

	var stats = sampleStats(samples, sampleRate)

	var trimmed, start = TrimSilence(samples, d.opts.SilenceThreshold)
	stats.Start = start
	stats.Kept = len(trimmed)

	var crossings = FindCrossings(trimmed)
	stats.Crossings = len(crossings)

	d.logger.Debug("Audio",
		"samples", stats.Samples,
		"rate", stats.SampleRate,
		"duration", stats.Duration,
		"level", stats.Level(),
		"start", stats.Start,
		"kept", stats.Kept,
		"crossings", stats.Crossings)

	var freq = EstimateFrequencies(crossings, sampleRate, d.opts.Workers)

	var hist = BuildHistogram(freq)
	d.histogram(hist)

	var baud, err = InferBaud(hist)
	if err != nil {
		return nil, err
	}
	d.logger.Info("Looks like", "baud", int(baud))

	seq, err := ClassifyTones(freq, baud)
	if err != nil {
		var ute *UnidentifiedToneError
		if errors.As(err, &ute) {
			ute.Histogram = hist
		}
		return nil, err
	}

	bits, err := DecodeBits(seq, baud)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("Bits", "pilot", SkipPilot(seq), "symbols", len(seq), "bits", len(bits))

	var stream = FrameBytes(bits)
	d.logger.Debug("Bytes", "count", len(stream))

	header, blocks, err := AssembleBlocks(stream)
	if err != nil {
		return nil, err
	}

	d.logHeader(header)
	for _, b := range blocks {
		d.logBlock(b)
	}

	return &ProgramImage{
		Baud:      baud,
		Histogram: hist,
		Header:    header,
		Blocks:    blocks,
	}, nil
}

func (d *Decoder) logHeader(h Header) {
	d.logger.Info("Header",
		"name", h.Name,
		"id", hex8(h.ID),
		"type", h.Type.String(),
		"length", hex16(h.Length),
		"load", hex16(h.LoadAddress),
		"go", hex16(h.GoAddress))

	if !h.ChecksumOK {
		d.logger.Warn("Header", "length", len(h.Raw), "checksum", hex8(h.Checksum), "status", "ERROR")
	}
}

func (d *Decoder) logBlock(b Block) {
	if b.ChecksumOK {
		d.logger.Info("Block", "n", b.Index, "length", b.Length, "checksum", hex8(b.Computed), "status", "OK")
	} else {
		d.logger.Warn("Block", "n", b.Index, "length", b.Length, "checksum", hex8(b.Computed), "stored", hex8(b.Stored), "status", "ERROR")
	}
}
