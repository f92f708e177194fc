package cassette

/*------------------------------------------------------------------
 *
 * Purpose:	Interpret the decoded bytes as a Sorcerer tape file.
 *
 * Description:	Header layout is from the "Exidy Sorcerer Software
 *		Internals Manual" (1979).
 *
 *		0-4	Name
 *		5	Header ID
 *		6	File type.  0xC2 is BASIC.
 *		7-8	Length, little endian
 *		9-10	Load address, little endian
 *		11-12	Go address, little endian
 *		13-15	Reserved
 *
 *		The positions of the header and the first data block
 *		within the byte stream are fixed by the leader and sync
 *		bytes the monitor writes.  They are not derived here.
 *
 *------------------------------------------------------------------*/

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	HeaderOffset = 101 // Header record within the byte stream.
	HeaderSize   = 16
	FirstBlock   = 219 // First data block within the byte stream.
	BlockSize    = 256
	BlockStride  = BlockSize + 1 // Payload plus checksum byte.
)

type FileType uint8

const FileTypeBasic FileType = 0xC2

func (t FileType) String() string {
	if t == FileTypeBasic {
		return "BASIC"
	}
	return fmt.Sprintf("0x%02x", uint8(t))
}

type Header struct {
	Name        string   `yaml:"name"`
	ID          uint8    `yaml:"id"`
	Type        FileType `yaml:"type"`
	Length      uint16   `yaml:"length"`
	LoadAddress uint16   `yaml:"load_address"`
	GoAddress   uint16   `yaml:"go_address"`

	Raw        []byte `yaml:"-"` // The 16-byte record as it came off tape.
	Checksum   uint8  `yaml:"checksum"`
	ChecksumOK bool   `yaml:"checksum_ok"`
}

type Block struct {
	Index      int    `yaml:"index"`
	Offset     int    `yaml:"offset"` // Position within the byte stream.
	Length     int    `yaml:"length"`
	Data       []byte `yaml:"-"`
	Stored     uint8  `yaml:"stored_checksum"`
	Computed   uint8  `yaml:"computed_checksum"`
	ChecksumOK bool   `yaml:"checksum_ok"`
}

// ProgramImage is everything recovered from one recording.
type ProgramImage struct {
	Baud      Baud
	Histogram Histogram
	Header    Header
	Blocks    []Block
}

// ParseHeader decodes a 16-byte header record.  The checksum fields are left for the caller.
func ParseHeader(record []byte) (Header, error) {
	if len(record) < HeaderSize {
		return Header{}, fmt.Errorf("header record is %d bytes, need %d", len(record), HeaderSize) //nolint:exhaustruct
	}

	var h = Header{ //nolint:exhaustruct
		Name:        paddedToString(record[0:5]),
		ID:          record[5],
		Type:        FileType(record[6]),
		Length:      binary.LittleEndian.Uint16(record[7:9]),
		LoadAddress: binary.LittleEndian.Uint16(record[9:11]),
		GoAddress:   binary.LittleEndian.Uint16(record[11:13]),
		Raw:         append([]byte(nil), record[:HeaderSize]...),
	}

	return h, nil
}

// BlockCount is how many data blocks a program of the given length occupies.
func BlockCount(length int) int {
	return (length + BlockSize - 1) / BlockSize
}

func need(stream []byte, what string, offset int, n int) error {
	if offset+n > len(stream) {
		return &TruncatedStreamError{What: what, Offset: offset, Need: n, Have: len(stream)}
	}
	return nil
}

/*------------------------------------------------------------------
 *
 * Name:	AssembleBlocks
 *
 * Purpose:	Extract the header and the data blocks it describes.
 *
 * Inputs:	stream	- Output of FrameBytes.
 *
 * Returns:	Header and blocks with their checksum verdicts.
 *
 *		TruncatedStreamError if the recording stops before the
 *		header or any promised block has been seen.
 *
 * Description:	A bad checksum is recorded and we carry on with the next
 *		block.  Usually most of the program is still usable.
 *
 *------------------------------------------------------------------*/

func AssembleBlocks(stream []byte) (Header, []Block, error) {
	if err := need(stream, "header", HeaderOffset, HeaderSize+1); err != nil {
		return Header{}, nil, err //nolint:exhaustruct
	}

	var record = stream[HeaderOffset : HeaderOffset+HeaderSize]
	var header, err = ParseHeader(record)
	if err != nil {
		return Header{}, nil, err //nolint:exhaustruct
	}
	header.Checksum = stream[HeaderOffset+HeaderSize]
	header.ChecksumOK = Checksum(record) == header.Checksum

	var blocks = make([]Block, 0, BlockCount(int(header.Length)))
	var remaining = int(header.Length)

	for n := 0; remaining > 0; n++ {
		var offset = FirstBlock + n*BlockStride
		var size = min(BlockSize, remaining)

		if err := need(stream, fmt.Sprintf("block %d", n), offset, size+1); err != nil {
			return Header{}, nil, err //nolint:exhaustruct
		}

		var data = stream[offset : offset+size]
		var b = Block{ //nolint:exhaustruct
			Index:    n,
			Offset:   offset,
			Length:   size,
			Data:     append([]byte(nil), data...),
			Stored:   stream[offset+size],
			Computed: Checksum(data),
		}
		b.ChecksumOK = b.Stored == b.Computed

		blocks = append(blocks, b)
		remaining -= size
	}

	return header, blocks, nil
}

// ChecksumErrors joins a ChecksumMismatchError for the header and each bad block, or nil if all is well.
func (p *ProgramImage) ChecksumErrors() error {
	var errs []error

	if !p.Header.ChecksumOK {
		errs = append(errs, &ChecksumMismatchError{Block: -1, Stored: p.Header.Checksum, Computed: Checksum(p.Header.Raw)})
	}

	for _, b := range p.Blocks {
		if !b.ChecksumOK {
			errs = append(errs, &ChecksumMismatchError{Block: b.Index, Stored: b.Stored, Computed: b.Computed})
		}
	}

	return errors.Join(errs...)
}

// Len is the number of payload bytes recovered.
func (p *ProgramImage) Len() int {
	var n = 0
	for _, b := range p.Blocks {
		n += b.Length
	}
	return n
}
