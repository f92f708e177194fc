package cassette

import (
	"fmt"
	"io"
)

// HexDump prints p 16 bytes to a line, offsets relative to base, with a printable ASCII column.
func HexDump(w io.Writer, base int, p []byte) {
	var offset = base

	for len(p) > 0 {
		var n = min(len(p), 16)

		fmt.Fprintf(w, "  %04x: ", offset)

		for i := 0; i < n; i++ {
			fmt.Fprintf(w, " %02x", p[i])
		}

		for i := n; i < 16; i++ {
			fmt.Fprint(w, "   ")
		}

		fmt.Fprint(w, "  ")

		for i := 0; i < n; i++ {
			if p[i] >= 0x20 && p[i] <= 0x7E {
				fmt.Fprintf(w, "%c", p[i])
			} else {
				fmt.Fprint(w, ".")
			}
		}

		fmt.Fprint(w, "\n")

		p = p[n:]
		offset += n
	}
}

// Dump prints the header record and every block, each preceded by a one line summary.
func (p *ProgramImage) Dump(w io.Writer) {
	fmt.Fprintf(w, "Header: %q type %s length %d load %s go %s checksum %s %s\n",
		p.Header.Name, p.Header.Type, p.Header.Length,
		hex16(p.Header.LoadAddress), hex16(p.Header.GoAddress),
		hex8(p.Header.Checksum), IfThenElse(p.Header.ChecksumOK, "OK", "ERROR"))
	HexDump(w, 0, p.Header.Raw)

	var addr = int(p.Header.LoadAddress)
	for _, b := range p.Blocks {
		fmt.Fprintf(w, "Block %d: length %d checksum %s %s\n",
			b.Index, b.Length, hex8(b.Computed), IfThenElse(b.ChecksumOK, "OK", "ERROR"))
		HexDump(w, addr, b.Data)
		addr += b.Length
	}
}
