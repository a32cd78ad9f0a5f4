package driver

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlseries/printer-driver/bitimage"
	"github.com/tlseries/printer-driver/command"
	"github.com/tlseries/printer-driver/raster"
)

func darkSquare(t *testing.T, size int) *raster.Raster {
	t.Helper()
	r, err := raster.New(size, size)
	require.NoError(t, err)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r.Set(x, y, true)
		}
	}
	return r
}

func TestPrinterJobOrder(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	err := p.Init().
		BitImage(darkSquare(t, 8), bitimage.Mode8DotSingle).
		PrintAndFeed(command.FeedLines, 10).
		Cut(command.CutFull).
		Flush()
	require.NoError(t, err)

	want := []byte{
		0x1B, 0x40, // init
		0x1B, '*', 0x00, 0x08, 0x00, // bit image header
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, // packed columns
		0x1B, 0x64, 10, // print and feed 10 lines
		0x1B, 0x69, // full cut
	}
	assert.Equal(t, want, buf.Bytes())
}

func TestPrinterFlushClearsBuffer(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	require.NoError(t, p.Cut(command.CutPartial).Flush())
	assert.Equal(t, 0, p.Pending())

	buf.Reset()
	require.NoError(t, p.Print().Flush())
	assert.Equal(t, []byte{0x0A}, buf.Bytes())
}

func TestPrinterStickyError(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	tooWide, err := raster.New(bitimage.DefaultMaxColumns+1, 8)
	require.NoError(t, err)

	err = p.BitImage(tooWide, bitimage.Mode8DotSingle).
		Cut(command.CutFull).
		Flush()
	require.Error(t, err)
	assert.ErrorIs(t, err, bitimage.ErrInvalidRaster)

	// nothing reached the writer, and the failed job is discarded
	assert.Equal(t, 0, buf.Len())
	assert.NoError(t, p.Err())
	assert.Equal(t, 0, p.Pending())
}

func TestPrinterSpeedAndDensity(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	require.NoError(t, p.Speed(command.SpeedLow).Density(command.DensityPlus25).Flush())
	assert.Equal(t, []byte{0x1B, 0x78, 2, 0x1D, 0x7C, 3}, buf.Bytes())
}

func TestPrinterNoWriter(t *testing.T) {
	p := New(nil)
	err := p.Print().Flush()
	assert.ErrorIs(t, err, ErrNoWriter)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("device gone")
}

func TestPrinterFailedFlushKeepsJob(t *testing.T) {
	p := New(failWriter{})

	err := p.Cut(command.CutFull).Flush()
	require.Error(t, err)
	// job stays buffered for a retry on a recovered transport
	assert.Equal(t, 2, p.Pending())
}

func TestPrinterMaxColumns(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithMaxColumns(&buf, 576)

	wide, err := raster.New(576, 8)
	require.NoError(t, err)
	assert.NoError(t, p.BitImage(wide, bitimage.Mode8DotSingle).Flush())

	tooWide, err := raster.New(577, 8)
	require.NoError(t, err)
	err = p.BitImage(tooWide, bitimage.Mode8DotSingle).Flush()
	assert.ErrorIs(t, err, bitimage.ErrInvalidRaster)
}

func TestPrinterMultipleJobs(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	require.NoError(t, p.BitImage(darkSquare(t, 8), bitimage.Mode24DotDouble).
		Print().
		Cut(command.CutPartial).
		Flush())
	firstJob := buf.Len()
	require.NotZero(t, firstJob)

	require.NoError(t, p.BitImage(darkSquare(t, 8), bitimage.Mode24DotDouble).
		PrintAndFeed(command.FeedLines, 10).
		Cut(command.CutFull).
		Flush())
	assert.Greater(t, buf.Len(), firstJob)
}
