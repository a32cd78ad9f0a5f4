package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertThreshold(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 2))
	img.SetGray(0, 0, color.Gray{Y: 0})   // black
	img.SetGray(1, 0, color.Gray{Y: 255}) // white
	img.SetGray(2, 0, color.Gray{Y: 30})  // dark gray
	img.SetGray(3, 0, color.Gray{Y: 220}) // light gray
	img.SetGray(0, 1, color.Gray{Y: 0})

	c := &Converter{MaxWidth: 512, Threshold: 0.5}
	r, err := c.Convert(img)
	require.NoError(t, err)

	assert.Equal(t, 4, r.Width())
	assert.Equal(t, 2, r.Height())
	assert.Equal(t, byte(1), r.Bit(0, 0))
	assert.Equal(t, byte(0), r.Bit(1, 0))
	assert.Equal(t, byte(1), r.Bit(2, 0))
	assert.Equal(t, byte(0), r.Bit(3, 0))
	assert.Equal(t, byte(1), r.Bit(0, 1))
}

func TestConvertScalesWideImages(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 1024, 64))

	c := &Converter{MaxWidth: 512, Threshold: 0.5}
	r, err := c.Convert(img)
	require.NoError(t, err)

	assert.Equal(t, 512, r.Width())
	// aspect ratio preserved
	assert.Equal(t, 32, r.Height())
}

func TestConvertNarrowImageUntouched(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 100, 40))

	c := &Converter{MaxWidth: 512, Threshold: 0.5}
	r, err := c.Convert(img)
	require.NoError(t, err)

	assert.Equal(t, 100, r.Width())
	assert.Equal(t, 40, r.Height())
}

func TestConvertNonZeroOrigin(t *testing.T) {
	img := image.NewGray(image.Rect(10, 10, 14, 12))
	img.SetGray(10, 10, color.Gray{Y: 0})

	c := &Converter{MaxWidth: 512, Threshold: 0.5}
	r, err := c.Convert(img)
	require.NoError(t, err)

	assert.Equal(t, 4, r.Width())
	assert.Equal(t, 2, r.Height())
	assert.Equal(t, byte(1), r.Bit(0, 0))
}
