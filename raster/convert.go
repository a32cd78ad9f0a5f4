package raster

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// Luminance weights for the lightness threshold.
const (
	lumR = 55
	lumG = 182
	lumB = 18
)

// Converter turns an already-decoded image into a printable Raster.
// Decoding files and dithering are the caller's problem; this only
// thresholds and, if needed, scales down to the printable width.
type Converter struct {
	// MaxWidth is the maximum raster width in dots. Wider images are
	// scaled down (preserving aspect ratio), never clipped.
	MaxWidth int

	// Threshold is the lightness cutoff between white and black dots,
	// in [0, 1]. Pixels at or below the threshold print dark.
	Threshold float64
}

// Convert produces a Raster from img. Images wider than MaxWidth are
// resized with Lanczos3 before thresholding.
func (c *Converter) Convert(img image.Image) (*Raster, error) {
	sz := img.Bounds().Size()
	if c.MaxWidth > 0 && sz.X > c.MaxWidth {
		img = resize.Resize(uint(c.MaxWidth), 0, img, resize.Lanczos3)
		sz = img.Bounds().Size()
	}

	r, err := New(sz.X, sz.Y)
	if err != nil {
		return nil, err
	}
	min := img.Bounds().Min
	for y := 0; y < sz.Y; y++ {
		for x := 0; x < sz.X; x++ {
			if lightness(img.At(min.X+x, min.Y+y)) <= c.Threshold {
				r.Set(x, y, true)
			}
		}
	}
	return r, nil
}

func lightness(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return float64(lumR*r+lumG*g+lumB*b) / float64(0xffff*(lumR+lumG+lumB))
}
