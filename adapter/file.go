package adapter

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

// FileAdapter writes jobs to a raw printer device node such as
// /dev/usb/lp0, the classic Linux usblp path. The node must be readable
// and writable by the current user.
type FileAdapter struct {
	path   string
	logger *zap.Logger

	mu   sync.Mutex
	file *os.File
}

// NewFileAdapter returns an adapter for the given device node. The node
// is not opened until Open.
func NewFileAdapter(path string, logger *zap.Logger) *FileAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileAdapter{path: path, logger: logger}
}

// Open opens the device node read-write.
func (a *FileAdapter) Open() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file != nil {
		return errors.New("adapter: device already open")
	}
	f, err := os.OpenFile(a.path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("adapter: open %s: %w", a.path, err)
	}
	a.file = f
	a.logger.Info("device node opened", zap.String("path", a.path))
	return nil
}

// Write sends data to the device node.
func (a *FileAdapter) Write(data []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return 0, errors.New("adapter: device not open")
	}
	n, err := a.file.Write(data)
	if err != nil {
		return n, fmt.Errorf("adapter: write %s: %w", a.path, err)
	}
	return n, nil
}

// Read reads status bytes from the device node.
func (a *FileAdapter) Read(buf []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return 0, errors.New("adapter: device not open")
	}
	return a.file.Read(buf)
}

// Close closes the device node.
func (a *FileAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	return err
}

// IsOpen reports whether the device node is open.
func (a *FileAdapter) IsOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file != nil
}
