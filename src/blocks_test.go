package cassette

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseHeader(t *testing.T) {
	var record = []byte{
		'S', 'T', 'A', 'R', ' ',
		0x55,
		0xc2,
		0x2c, 0x01, // 300
		0xd5, 0x01, // 0x01d5
		0x00, 0x00,
		0, 0, 0,
	}

	var h, err = ParseHeader(record)

	require.NoError(t, err)
	assert.Equal(t, "STAR", h.Name)
	assert.Equal(t, uint8(0x55), h.ID)
	assert.Equal(t, FileTypeBasic, h.Type)
	assert.Equal(t, "BASIC", h.Type.String())
	assert.Equal(t, uint16(300), h.Length)
	assert.Equal(t, uint16(0x01d5), h.LoadAddress)
	assert.Equal(t, uint16(0), h.GoAddress)
	assert.Equal(t, record, h.Raw)
}

func TestParseHeaderShort(t *testing.T) {
	var _, err = ParseHeader(make([]byte, HeaderSize-1))

	assert.Error(t, err)
}

func TestFileTypeString(t *testing.T) {
	assert.Equal(t, "0x55", FileType(0x55).String())
}

func TestAssembleBlocks(t *testing.T) {
	var p = tapeProgram{name: "GAME", id: 0x55, fileType: FileTypeBasic, load: 0x01d5, run: 0, data: sequentialData(300)}

	var header, blocks, err = AssembleBlocks(p.stream())

	require.NoError(t, err)
	assert.Equal(t, "GAME", header.Name)
	assert.True(t, header.ChecksumOK)
	require.Len(t, blocks, 2)

	assert.Equal(t, 256, blocks[0].Length)
	assert.Equal(t, FirstBlock, blocks[0].Offset)
	assert.Equal(t, p.data[:256], blocks[0].Data)
	assert.True(t, blocks[0].ChecksumOK)

	assert.Equal(t, 44, blocks[1].Length)
	assert.Equal(t, FirstBlock+BlockStride, blocks[1].Offset)
	assert.Equal(t, p.data[256:], blocks[1].Data)
	assert.True(t, blocks[1].ChecksumOK)
}

func TestAssembleBlocksCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var length = rapid.IntRange(0, 2000).Draw(t, "length")
		var p = tapeProgram{name: "X", data: sequentialData(length)} //nolint:exhaustruct

		var _, blocks, err = AssembleBlocks(p.stream())
		require.NoError(t, err)

		assert.Len(t, blocks, (length+255)/256)
		assert.Equal(t, BlockCount(length), len(blocks))

		if length > 0 {
			var want = length % 256
			if want == 0 {
				want = 256
			}
			assert.Equal(t, want, blocks[len(blocks)-1].Length)
		}

		var image = ProgramImage{Blocks: blocks} //nolint:exhaustruct
		assert.Equal(t, length, image.Len())
	})
}

func TestAssembleBlocksChecksumMismatchIsNotFatal(t *testing.T) {
	var p = tapeProgram{name: "BAD", data: sequentialData(600)} //nolint:exhaustruct
	var stream = p.stream()
	stream[FirstBlock+BlockStride+17] ^= 0x40

	var header, blocks, err = AssembleBlocks(stream)

	require.NoError(t, err)
	assert.True(t, header.ChecksumOK)
	require.Len(t, blocks, 3)
	assert.True(t, blocks[0].ChecksumOK)
	assert.False(t, blocks[1].ChecksumOK)
	assert.True(t, blocks[2].ChecksumOK)

	var image = ProgramImage{Header: header, Blocks: blocks} //nolint:exhaustruct
	var mismatches = image.ChecksumErrors()
	require.Error(t, mismatches)
	assert.ErrorIs(t, mismatches, ErrChecksumMismatch)

	var cme *ChecksumMismatchError
	require.ErrorAs(t, mismatches, &cme)
	assert.Equal(t, 1, cme.Block)
}

func TestAssembleBlocksHeaderChecksum(t *testing.T) {
	var p = tapeProgram{name: "HDR", data: sequentialData(10)} //nolint:exhaustruct
	var stream = p.stream()
	stream[HeaderOffset+HeaderSize]++

	var header, blocks, err = AssembleBlocks(stream)

	require.NoError(t, err)
	assert.False(t, header.ChecksumOK)
	assert.True(t, blocks[0].ChecksumOK)

	var image = ProgramImage{Header: header, Blocks: blocks} //nolint:exhaustruct
	var cme *ChecksumMismatchError
	require.ErrorAs(t, image.ChecksumErrors(), &cme)
	assert.Equal(t, -1, cme.Block)
}

func TestAssembleBlocksTruncated(t *testing.T) {
	var p = tapeProgram{name: "CUT", data: sequentialData(300)} //nolint:exhaustruct
	var stream = p.stream()

	var _, _, err = AssembleBlocks(stream[:len(stream)-1])
	var tse *TruncatedStreamError
	require.ErrorAs(t, err, &tse)
	assert.Equal(t, "block 1", tse.What)

	_, _, err = AssembleBlocks(stream[:HeaderOffset+HeaderSize])
	require.ErrorAs(t, err, &tse)
	assert.Equal(t, "header", tse.What)
	assert.True(t, errors.Is(err, ErrTruncatedStream))
}

func TestProgramImageWrite(t *testing.T) {
	var p = tapeProgram{name: "OUT", data: sequentialData(700)} //nolint:exhaustruct
	var header, blocks, err = AssembleBlocks(p.stream())
	require.NoError(t, err)

	var image = ProgramImage{Header: header, Blocks: blocks} //nolint:exhaustruct
	assert.NoError(t, image.ChecksumErrors())

	var buf bytes.Buffer
	var n, writeErr = image.WriteTo(&buf)
	require.NoError(t, writeErr)
	assert.Equal(t, int64(700), n)
	assert.Equal(t, p.data, buf.Bytes())

	buf.Reset()
	n, writeErr = image.WriteWithHeader(&buf)
	require.NoError(t, writeErr)
	assert.Equal(t, int64(716), n)
	assert.Equal(t, p.header(), buf.Bytes()[:HeaderSize])
	assert.Equal(t, p.data, buf.Bytes()[HeaderSize:])
}
