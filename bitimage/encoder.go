// Package bitimage converts monochrome rasters into the ESC * bit-image
// command frames of the TL-series thermal printers.
//
// The raster arrives row-major; the wire format wants column-major
// vertical slices, one band of 8 or 24 dots at a time. Encode does that
// transposition and frames each band as
//
//	ESC * m nL nH d1 ... d(width*pitch/8)
//
// with nL nH the little-endian column count. Bands are emitted top to
// bottom, which is the physical print order on the paper feed.
package bitimage

import (
	"errors"
	"fmt"
	"io"

	"github.com/tlseries/printer-driver/command"
	"github.com/tlseries/printer-driver/raster"
)

// DefaultMaxColumns is the printable width in dots of the 2-inch model
// family. Wider-paper models pass their own limit to the Encoder.
const DefaultMaxColumns = 512

var (
	// ErrInvalidRaster is returned when a raster is wider than the
	// printable area. The encoder never clips or scales; the caller has
	// to re-prepare the image.
	ErrInvalidRaster = errors.New("bitimage: raster exceeds printable width")

	// ErrInvalidMode is returned for a Mode outside the four supported
	// variants.
	ErrInvalidMode = errors.New("bitimage: invalid mode")
)

// Frame is one complete, self-contained printer command: header plus
// packed column data.
type Frame []byte

// Sink receives encoded frames in emission order. Implementations must
// not reorder frames; the sequence corresponds to the physical top-down
// print order.
type Sink interface {
	WriteFrame(Frame) error
}

type writerSink struct {
	w io.Writer
}

func (s writerSink) WriteFrame(f Frame) error {
	_, err := s.w.Write(f)
	return err
}

// NewWriterSink adapts an io.Writer into a Sink.
func NewWriterSink(w io.Writer) Sink {
	return writerSink{w: w}
}

type collectSink struct {
	frames []Frame
}

func (s *collectSink) WriteFrame(f Frame) error {
	s.frames = append(s.frames, f)
	return nil
}

// Encoder encodes rasters for one model family. The zero value encodes
// for the 2-inch family (512 columns).
type Encoder struct {
	// MaxColumns is the printable width in dots. Zero means
	// DefaultMaxColumns.
	MaxColumns int
}

func (e *Encoder) maxColumns() int {
	if e.MaxColumns > 0 {
		return e.MaxColumns
	}
	return DefaultMaxColumns
}

// Encode streams the bit-image frames for r in the given mode into sink.
// The raster is read-only to the encoder and both inputs are validated
// up front: once the first frame is written no further failure can come
// from the encoder itself, only from the sink.
func (e *Encoder) Encode(r *raster.Raster, mode Mode, sink Sink) error {
	if !mode.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
	if r.Width() > e.maxColumns() {
		return fmt.Errorf("%w: %d > %d columns", ErrInvalidRaster, r.Width(), e.maxColumns())
	}

	pitch := mode.Pitch()
	bytesPerColumn := pitch / 8
	width := r.Width()

	for bandTop := 0; bandTop < r.Height(); bandTop += pitch {
		frame := make(Frame, 0, 5+width*bytesPerColumn)
		frame = append(frame, command.ESC, '*', mode.Selector())
		frame = append(frame, command.IntLowHigh(width, 2)...)

		// Transpose the band: each column becomes pitch/8 bytes, MSB =
		// topmost dot, first byte = topmost 8 dots. Rows past the end of
		// the raster pad the final band with white.
		for x := 0; x < width; x++ {
			for b := 0; b < bytesPerColumn; b++ {
				var packed byte
				for bit := 0; bit < 8; bit++ {
					if r.Bit(x, bandTop+b*8+bit) != 0 {
						packed |= 0x80 >> uint(bit)
					}
				}
				frame = append(frame, packed)
			}
		}

		if err := sink.WriteFrame(frame); err != nil {
			return fmt.Errorf("bitimage: write frame: %w", err)
		}
	}
	return nil
}

// Frames is the collecting form of Encode.
func (e *Encoder) Frames(r *raster.Raster, mode Mode) ([]Frame, error) {
	var sink collectSink
	if err := e.Encode(r, mode, &sink); err != nil {
		return nil, err
	}
	return sink.frames, nil
}
