package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewSerialAdapterDefaults(t *testing.T) {
	a := NewSerialAdapter("/dev/ttyUSB0", 0, nil)

	assert.Equal(t, DefaultBaudRate, a.baudRate)
	assert.False(t, a.IsOpen())
}

func TestSerialAdapterNotOpen(t *testing.T) {
	a := NewSerialAdapter("/dev/ttyUSB0", 19200, zap.NewNop())

	_, err := a.Write([]byte{0x1B, 0x40})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not open")

	buf := make([]byte, 1)
	_, err = a.Read(buf)
	assert.Error(t, err)

	// close before open is a no-op
	assert.NoError(t, a.Close())
}

func TestSerialAdapterUnknownPort(t *testing.T) {
	a := NewSerialAdapter("/dev/tty-no-such-port", 0, zap.NewNop())

	err := a.Open()
	if err == nil {
		a.Close()
		t.Skip("port unexpectedly present")
	}
	assert.Contains(t, err.Error(), "not found")
	assert.False(t, a.IsOpen())
}
