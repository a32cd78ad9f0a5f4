// Package driver is the thin job-building surface over the command set:
// it accumulates frames for one print job and flushes them to the
// transport in one write.
package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/tlseries/printer-driver/bitimage"
	"github.com/tlseries/printer-driver/command"
	"github.com/tlseries/printer-driver/raster"
)

// ErrNoWriter is returned by Flush when the printer was built without a
// destination.
var ErrNoWriter = errors.New("driver: no writer configured")

// Printer buffers printer commands and writes them out as one job.
// Builder calls chain; the first error sticks and short-circuits the
// rest, so a chain can be checked once at Flush:
//
//	p := driver.New(conn)
//	err := p.Init().BitImage(img, bitimage.Mode24DotDouble).
//		PrintAndFeed(command.FeedLines, 10).
//		Cut(command.CutFull).
//		Flush()
//
// Printer is not safe for concurrent use; build one job per goroutine.
type Printer struct {
	w   io.Writer
	enc bitimage.Encoder
	buf bytes.Buffer
	err error
}

// New returns a Printer writing jobs to w, encoding for the 2-inch
// model family.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewWithMaxColumns returns a Printer for a model family with the given
// printable width in dots.
func NewWithMaxColumns(w io.Writer, maxColumns int) *Printer {
	return &Printer{w: w, enc: bitimage.Encoder{MaxColumns: maxColumns}}
}

// Err returns the first error recorded by the builder chain.
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) append(frame []byte) *Printer {
	if p.err == nil {
		p.buf.Write(frame)
	}
	return p
}

// Init appends the printer initialize command.
func (p *Printer) Init() *Printer {
	return p.append(command.Init())
}

// BitImage appends the bit-image frames for r in the given mode.
func (p *Printer) BitImage(r *raster.Raster, mode bitimage.Mode) *Printer {
	if p.err != nil {
		return p
	}
	if err := p.enc.Encode(r, mode, bitimage.NewWriterSink(&p.buf)); err != nil {
		p.err = err
	}
	return p
}

// Print appends the print-and-line-feed command.
func (p *Printer) Print() *Printer {
	return p.append(command.Print())
}

// PrintAndFeed appends a print command followed by a paper feed of
// amount units.
func (p *Printer) PrintAndFeed(unit command.FeedUnit, amount byte) *Printer {
	return p.append(command.PrintAndFeed(unit, amount))
}

// Cut appends a paper cut command.
func (p *Printer) Cut(kind command.CutKind) *Printer {
	return p.append(command.Cut(kind))
}

// Speed appends a speed / quality selection command.
func (p *Printer) Speed(s command.Speed) *Printer {
	return p.append(command.SetSpeed(s))
}

// Density appends a burn density adjustment command.
func (p *Printer) Density(d command.Density) *Printer {
	return p.append(command.SetDensity(d))
}

// Pending returns the number of buffered job bytes.
func (p *Printer) Pending() int {
	return p.buf.Len()
}

// Flush writes the buffered job to the underlying writer. The buffer is
// cleared only on success, so a failed flush can be retried once the
// transport recovers. A builder error from the chain is returned instead
// of writing anything, then cleared along with the buffer.
func (p *Printer) Flush() error {
	if p.err != nil {
		err := p.err
		p.err = nil
		p.buf.Reset()
		return err
	}
	if p.w == nil {
		return ErrNoWriter
	}
	if _, err := p.w.Write(p.buf.Bytes()); err != nil {
		return fmt.Errorf("driver: flush job: %w", err)
	}
	p.buf.Reset()
	return nil
}
