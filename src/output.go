package cassette

import (
	"io"
)

// WriteTo writes the block payloads, concatenated in order.  Checksum bytes are not included.
func (p *ProgramImage) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, b := range p.Blocks {
		var n, err = w.Write(b.Data)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteWithHeader writes the 16-byte header record followed by the payloads.
func (p *ProgramImage) WriteWithHeader(w io.Writer) (int64, error) {
	var n, err = w.Write(p.Header.Raw)
	if err != nil {
		return int64(n), err
	}

	var m, err2 = p.WriteTo(w)
	return int64(n) + m, err2
}
