package cassette

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is.  Every fatal error returned by the decoder wraps one of these.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrFaultyRecording   = errors.New("faulty recording")
	ErrUnidentifiedTone  = errors.New("unidentified tone")
	ErrInvalidSequence   = errors.New("invalid sequence")
	ErrTruncatedStream   = errors.New("truncated byte stream")
	ErrChecksumMismatch  = errors.New("checksum mismatch")
)

// UnsupportedFormatError is returned when the audio source is not mono, uncompressed PCM.
type UnsupportedFormatError struct {
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %s", e.Reason)
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// FaultyRecordingError means the baud rate could not be inferred from the frequency histogram.
type FaultyRecordingError struct {
	Reason    string
	Histogram Histogram
}

func (e *FaultyRecordingError) Error() string {
	return fmt.Sprintf("looks faulty: %s", e.Reason)
}

func (e *FaultyRecordingError) Unwrap() error { return ErrFaultyRecording }

// UnidentifiedToneError is a half-cycle too slow to be any tone we know about.
type UnidentifiedToneError struct {
	Index     int
	Frequency float64
	Histogram Histogram
}

func (e *UnidentifiedToneError) Error() string {
	return fmt.Sprintf("unidentified tone, i: %d f: %.1f", e.Index, e.Frequency)
}

func (e *UnidentifiedToneError) Unwrap() error { return ErrUnidentifiedTone }

// InvalidSequenceError is a run of tones matching neither bit nor trailer.
type InvalidSequenceError struct {
	Position int
	Context  Tones
	Total    int
	Bits     int // Bits decoded before the failure.
}

func (e *InvalidSequenceError) Error() string {
	return fmt.Sprintf("invalid sequence at %d of %d: %q (%d bits so far)", e.Position, e.Total, e.Context.String(), e.Bits)
}

func (e *InvalidSequenceError) Unwrap() error { return ErrInvalidSequence }

// TruncatedStreamError means the byte stream ended before a record the header promised.
type TruncatedStreamError struct {
	What   string
	Offset int
	Need   int
	Have   int
}

func (e *TruncatedStreamError) Error() string {
	return fmt.Sprintf("truncated byte stream: %s needs bytes %d..%d, only %d decoded", e.What, e.Offset, e.Offset+e.Need-1, e.Have)
}

func (e *TruncatedStreamError) Unwrap() error { return ErrTruncatedStream }

// ChecksumMismatchError is never fatal.  It is recorded per block and can be
// collected from a ProgramImage after the decode completes.
type ChecksumMismatchError struct {
	Block    int // -1 for the header.
	Stored   uint8
	Computed uint8
}

func (e *ChecksumMismatchError) Error() string {
	if e.Block < 0 {
		return fmt.Sprintf("checksum mismatch in header: stored 0x%02x, computed 0x%02x", e.Stored, e.Computed)
	}
	return fmt.Sprintf("checksum mismatch in block %d: stored 0x%02x, computed 0x%02x", e.Block, e.Stored, e.Computed)
}

func (e *ChecksumMismatchError) Unwrap() error { return ErrChecksumMismatch }
