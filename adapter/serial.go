package adapter

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// DefaultBaudRate matches the factory setting of the TL-series serial
// interface.
const DefaultBaudRate = 115200

// SerialAdapter drives a printer attached over a serial line (RS-232 or
// a USB CDC port), 8 data bits, no parity, one stop bit.
type SerialAdapter struct {
	portName string
	baudRate int
	logger   *zap.Logger

	mu   sync.Mutex
	port serial.Port
}

// NewSerialAdapter returns an adapter for the named port. A zero baud
// rate selects DefaultBaudRate. The port is not opened until Open.
func NewSerialAdapter(portName string, baudRate int, logger *zap.Logger) *SerialAdapter {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SerialAdapter{portName: portName, baudRate: baudRate, logger: logger}
}

// Open opens the serial port and configures the line.
func (a *SerialAdapter) Open() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.port != nil {
		return errors.New("adapter: port already open")
	}

	ports, err := serial.GetPortsList()
	if err != nil {
		return fmt.Errorf("adapter: list serial ports: %w", err)
	}
	found := false
	for _, p := range ports {
		if p == a.portName {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("adapter: serial port %s not found", a.portName)
	}

	mode := &serial.Mode{
		BaudRate: a.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(a.portName, mode)
	if err != nil {
		return fmt.Errorf("adapter: open serial port %s: %w", a.portName, err)
	}
	port.SetReadTimeout(100 * time.Millisecond)

	a.port = port
	a.logger.Info("serial port opened",
		zap.String("port", a.portName),
		zap.Int("baud", a.baudRate))
	return nil
}

// Write sends data over the serial line.
func (a *SerialAdapter) Write(data []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.port == nil {
		return 0, errors.New("adapter: port not open")
	}
	n, err := a.port.Write(data)
	if err != nil {
		return n, fmt.Errorf("adapter: serial write: %w", err)
	}
	return n, nil
}

// Read reads status bytes from the serial line.
func (a *SerialAdapter) Read(buf []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.port == nil {
		return 0, errors.New("adapter: port not open")
	}
	n, err := a.port.Read(buf)
	if err != nil {
		return n, fmt.Errorf("adapter: serial read: %w", err)
	}
	return n, nil
}

// Close closes the serial port.
func (a *SerialAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.port == nil {
		return nil
	}
	err := a.port.Close()
	a.port = nil
	if err != nil {
		return fmt.Errorf("adapter: close serial port: %w", err)
	}
	return nil
}

// IsOpen reports whether the port is open.
func (a *SerialAdapter) IsOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.port != nil
}
