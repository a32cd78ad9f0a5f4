// Package adapter holds the transports that carry finished command bytes
// to a physical printer. The encoding core never imports this package; it
// only ever sees an ordered byte sink.
package adapter

// Adapter is the narrow transport contract the driver writes jobs into.
// Write calls must reach the device in call order.
type Adapter interface {
	// Open opens the connection to the printer.
	Open() error

	// Write sends data to the printer.
	Write(data []byte) (int, error)

	// Read reads status data from the printer, on transports that
	// support it.
	Read(buf []byte) (int, error)

	// Close closes the connection to the printer.
	Close() error

	// IsOpen reports whether the connection is open.
	IsOpen() bool
}
