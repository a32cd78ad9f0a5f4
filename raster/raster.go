package raster

import (
	"errors"
	"fmt"
)

var (
	// ErrBadDimensions is returned when a raster is constructed with a
	// non-positive width or negative height.
	ErrBadDimensions = errors.New("raster: bad dimensions")

	// ErrBadLength is returned by FromBits when the supplied row data does
	// not match stride*height.
	ErrBadLength = errors.New("raster: row data length mismatch")
)

// Raster is a monochrome bitmap: row-major, one bit per pixel, bit set
// means a dark (printed) dot. Rows are packed MSB-first, so bit 7 of the
// first byte of a row is pixel (0, y).
type Raster struct {
	width, height int
	stride        int // bytes per row
	bits          []byte
}

// New returns an all-white raster of the given size. A zero height is
// valid and encodes to nothing.
func New(width, height int) (*Raster, error) {
	if width <= 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, width, height)
	}
	stride := (width + 7) / 8
	return &Raster{
		width:  width,
		height: height,
		stride: stride,
		bits:   make([]byte, stride*height),
	}, nil
}

// FromBits builds a raster over caller-supplied packed rows. The layout
// must match what New produces: stride = ceil(width/8), MSB-first. The
// data is copied, so the caller may reuse rows afterwards.
func FromBits(width, height int, rows []byte) (*Raster, error) {
	r, err := New(width, height)
	if err != nil {
		return nil, err
	}
	if len(rows) != len(r.bits) {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrBadLength, len(rows), len(r.bits))
	}
	copy(r.bits, rows)
	return r, nil
}

// Width returns the raster width in dots.
func (r *Raster) Width() int { return r.width }

// Height returns the raster height in dots.
func (r *Raster) Height() int { return r.height }

// Bit returns 1 if the pixel at (x, y) is dark, 0 otherwise. Coordinates
// outside the raster read as white.
func (r *Raster) Bit(x, y int) byte {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return 0
	}
	return (r.bits[y*r.stride+x/8] >> (7 - uint(x)%8)) & 1
}

// Set marks the pixel at (x, y) dark or white. Out-of-range coordinates
// are ignored.
func (r *Raster) Set(x, y int, on bool) {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return
	}
	mask := byte(0x80) >> (uint(x) % 8)
	if on {
		r.bits[y*r.stride+x/8] |= mask
	} else {
		r.bits[y*r.stride+x/8] &^= mask
	}
}

func (r *Raster) String() string {
	return fmt.Sprintf("Raster(%dx%d)", r.width, r.height)
}
