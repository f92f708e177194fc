package cassette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestChecksumKnownValues(t *testing.T) {
	assert.Equal(t, uint8(0x00), Checksum(nil))
	assert.Equal(t, uint8(0xff), Checksum([]byte{0x00}))
	assert.Equal(t, uint8(0xfe), Checksum([]byte{0x01}))
	assert.Equal(t, uint8(0xfb), Checksum([]byte{0x01, 0x02}))

	// b - acc wraps: 0x00 - 0xff
	assert.Equal(t, uint8(0xfe), Checksum([]byte{0x00, 0x00}))
}

func TestChecksumDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var block = rapid.SliceOfN(rapid.Byte(), 0, BlockSize).Draw(t, "block")

		assert.Equal(t, Checksum(block), Checksum(block))
	})
}

func TestChecksumClosedForm(t *testing.T) {
	// ^(b - acc) == acc - b - 1, so the checksum is -(sum + length) mod 256.
	rapid.Check(t, func(t *rapid.T) {
		var block = rapid.SliceOfN(rapid.Byte(), 0, BlockSize).Draw(t, "block")

		var sum = 0
		for _, b := range block {
			sum += int(b)
		}

		assert.Equal(t, uint8(-(sum + len(block))), Checksum(block))
	})
}

func TestChecksumDetectsSingleByteChange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var block = rapid.SliceOfN(rapid.Byte(), 1, BlockSize).Draw(t, "block")
		var i = rapid.IntRange(0, len(block)-1).Draw(t, "i")
		var delta = rapid.ByteRange(1, 255).Draw(t, "delta")

		var corrupted = append([]byte(nil), block...)
		corrupted[i] += delta

		assert.NotEqual(t, Checksum(block), Checksum(corrupted))
	})
}
