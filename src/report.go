package cassette

/*------------------------------------------------------------------
 *
 * Purpose:	Machine readable summary of a decode, for keeping next
 *		to the recovered binaries.
 *
 *------------------------------------------------------------------*/

import (
	"errors"
	"io"
	"time"

	"github.com/lestrrat-go/strftime"
	"gopkg.in/yaml.v3"
)

type Report struct {
	Source    string    `yaml:"source"`
	DecodedAt string    `yaml:"decoded_at"`
	Baud      int       `yaml:"baud,omitempty"`
	Histogram Histogram `yaml:"histogram,omitempty"`
	Header    *Header   `yaml:"header,omitempty"`
	Blocks    []Block   `yaml:"blocks,omitempty"`
	Bytes     int       `yaml:"bytes"`
	OK        bool      `yaml:"ok"`
	Error     string    `yaml:"error,omitempty"`
}

/*------------------------------------------------------------------
 *
 * Name:	NewReport
 *
 * Inputs:	source		- Where the audio came from.
 *
 *		when		- Time of the decode.
 *
 *		layout		- strftime pattern for the timestamp.
 *
 *		image, err	- Result of the decode.  On failure the
 *				  histogram is taken from the error if it
 *				  carries one.
 *
 *------------------------------------------------------------------*/

func NewReport(source string, when time.Time, layout string, image *ProgramImage, err error) (*Report, error) {
	var stamp, stampErr = strftime.Format(layout, when)
	if stampErr != nil {
		return nil, stampErr
	}

	var r = &Report{Source: source, DecodedAt: stamp} //nolint:exhaustruct

	if err != nil {
		r.Error = err.Error()
		r.Histogram = histogramOf(err)
		return r, nil
	}

	r.Baud = int(image.Baud)
	r.Histogram = image.Histogram
	r.Header = &image.Header
	r.Blocks = image.Blocks
	r.Bytes = image.Len()
	r.OK = image.ChecksumErrors() == nil

	return r, nil
}

func histogramOf(err error) Histogram {
	var fre *FaultyRecordingError
	var ute *UnidentifiedToneError

	switch {
	case errors.As(err, &fre):
		return fre.Histogram
	case errors.As(err, &ute):
		return ute.Histogram
	default:
		return nil
	}
}

// WriteReports writes each report as a separate YAML document.
func WriteReports(w io.Writer, reports []*Report) error {
	var enc = yaml.NewEncoder(w)
	enc.SetIndent(2)

	for _, r := range reports {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}

	return enc.Close()
}
