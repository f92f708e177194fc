package cassette

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var reportTime = time.Date(1979, time.March, 4, 5, 6, 7, 0, time.UTC)

func TestNewReportSuccess(t *testing.T) {
	var header, blocks, err = AssembleBlocks(testProgram.stream())
	require.NoError(t, err)
	var image = &ProgramImage{Baud: Baud1200, Histogram: histogramOfBuckets(1200, 600), Header: header, Blocks: blocks}

	var r, reportErr = NewReport("star.wav", reportTime, "%Y-%m-%d %H:%M:%S", image, nil)

	require.NoError(t, reportErr)
	assert.Equal(t, "star.wav", r.Source)
	assert.Equal(t, "1979-03-04 05:06:07", r.DecodedAt)
	assert.Equal(t, 1200, r.Baud)
	assert.Equal(t, 300, r.Bytes)
	assert.True(t, r.OK)
	assert.Empty(t, r.Error)
	assert.Len(t, r.Blocks, 2)
}

func TestNewReportFailureKeepsHistogram(t *testing.T) {
	var h = histogramOfBuckets(1200, 1200)
	var cause = &FaultyRecordingError{Reason: "1200Hz only", Histogram: h}

	var r, err = NewReport("bad.wav", reportTime, "%Y", nil, cause)

	require.NoError(t, err)
	assert.False(t, r.OK)
	assert.Equal(t, "looks faulty: 1200Hz only", r.Error)
	assert.Equal(t, h, r.Histogram)
	assert.Nil(t, r.Header)
}

func TestWriteReports(t *testing.T) {
	var header, blocks, err = AssembleBlocks(testProgram.stream())
	require.NoError(t, err)
	var image = &ProgramImage{Baud: Baud300, Histogram: histogramOfBuckets(2400, 1200), Header: header, Blocks: blocks}

	var good, _ = NewReport("good.wav", reportTime, "%Y", image, nil)
	var bad, _ = NewReport("bad.wav", reportTime, "%Y", nil, &InvalidSequenceError{Position: 7, Context: ParseTones("HL"), Total: 9, Bits: 0})

	var buf bytes.Buffer
	require.NoError(t, WriteReports(&buf, []*Report{good, bad}))

	var dec = yaml.NewDecoder(&buf)

	var first map[string]any
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "good.wav", first["source"])
	assert.Equal(t, 300, first["baud"])
	assert.Equal(t, "STAR", first["header"].(map[string]any)["name"])
	assert.Len(t, first["blocks"], 2)

	var second map[string]any
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, "bad.wav", second["source"])
	assert.Equal(t, false, second["ok"])
	assert.Contains(t, second["error"], "invalid sequence at 7")
}
