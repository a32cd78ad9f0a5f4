package adapter

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/gousb"
	"go.uber.org/zap"
)

// USB interface class for printers.
// Reference: http://www.usb.org/developers/defined_class
const ifaceClassPrinter = 0x07

// USBAdapter drives a printer attached over USB, claiming the first
// printer-class interface of the device.
type USBAdapter struct {
	ctx    *gousb.Context
	device *gousb.Device
	iface  *gousb.Interface
	out    *gousb.OutEndpoint
	in     *gousb.InEndpoint
	logger *zap.Logger

	mu     sync.Mutex
	isOpen bool
}

// NewUSBAdapter opens the device with the given vendor and product IDs.
// If no such device is attached, it falls back to the first printer-class
// device on the bus.
func NewUSBAdapter(vid, pid uint16, logger *zap.Logger) (*USBAdapter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx := gousb.NewContext()

	device, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil || device == nil {
		devices := findPrinters(ctx, logger)
		if len(devices) == 0 {
			ctx.Close()
			return nil, errors.New("adapter: cannot find printer")
		}
		device = devices[0]
	}

	logger.Info("usb printer selected",
		zap.String("vendor", device.Desc.Vendor.String()),
		zap.String("product", device.Desc.Product.String()))

	return &USBAdapter{ctx: ctx, device: device, logger: logger}, nil
}

// NewUSBAdapterAuto opens the first printer-class device on the bus.
func NewUSBAdapterAuto(logger *zap.Logger) (*USBAdapter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx := gousb.NewContext()

	devices := findPrinters(ctx, logger)
	if len(devices) == 0 {
		ctx.Close()
		return nil, errors.New("adapter: cannot find printer")
	}

	logger.Info("usb printer selected",
		zap.String("vendor", devices[0].Desc.Vendor.String()),
		zap.String("product", devices[0].Desc.Product.String()))

	return &USBAdapter{ctx: ctx, device: devices[0], logger: logger}, nil
}

// isPrinter reports whether the device exposes a printer-class interface.
func isPrinter(dev *gousb.Device) bool {
	if dev == nil {
		return false
	}

	cfgNum, err := dev.ActiveConfigNum()
	if err != nil {
		return false
	}
	cfg, err := dev.Config(cfgNum)
	if err != nil {
		return false
	}
	defer cfg.Close()

	for _, iface := range cfg.Desc.Interfaces {
		for _, alt := range iface.AltSettings {
			if alt.Class == ifaceClassPrinter {
				return true
			}
		}
	}
	return false
}

// findPrinters returns all printer-class devices on the bus. Non-printer
// devices opened during the scan are closed again.
func findPrinters(ctx *gousb.Context, logger *zap.Logger) []*gousb.Device {
	var printers []*gousb.Device

	devices, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return true
	})
	if err != nil {
		logger.Warn("usb scan failed", zap.Error(err))
		return printers
	}

	for _, dev := range devices {
		if isPrinter(dev) {
			logger.Debug("found usb printer", zap.String("desc", dev.Desc.String()))
			printers = append(printers, dev)
		} else {
			dev.Close()
		}
	}
	return printers
}

// Open claims the printer interface and resolves its bulk endpoints.
func (a *USBAdapter) Open() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.isOpen {
		return errors.New("adapter: device already open")
	}
	if a.device == nil {
		return errors.New("adapter: device not found")
	}

	if runtime.GOOS == "linux" {
		a.device.SetAutoDetach(true)
	}

	cfgNum, err := a.device.ActiveConfigNum()
	if err != nil {
		return fmt.Errorf("adapter: active config: %w", err)
	}
	cfg, err := a.device.Config(cfgNum)
	if err != nil {
		return fmt.Errorf("adapter: config: %w", err)
	}
	defer cfg.Close()

	ifaceNum := -1
	for _, iface := range cfg.Desc.Interfaces {
		for _, alt := range iface.AltSettings {
			if alt.Class == ifaceClassPrinter {
				ifaceNum = iface.Number
				break
			}
		}
		if ifaceNum >= 0 {
			break
		}
	}
	if ifaceNum < 0 {
		return errors.New("adapter: no printer interface found")
	}

	iface, err := cfg.Interface(ifaceNum, 0)
	if err != nil {
		return fmt.Errorf("adapter: claim interface: %w", err)
	}
	a.iface = iface

	for _, epDesc := range iface.Setting.Endpoints {
		if epDesc.Direction == gousb.EndpointDirectionOut && a.out == nil {
			if ep, err := iface.OutEndpoint(epDesc.Number); err == nil {
				a.out = ep
			}
		}
		if epDesc.Direction == gousb.EndpointDirectionIn && a.in == nil {
			if ep, err := iface.InEndpoint(epDesc.Number); err == nil {
				a.in = ep
			}
		}
	}
	if a.out == nil {
		return errors.New("adapter: cannot find output endpoint from printer")
	}

	a.isOpen = true
	a.logger.Info("usb printer opened", zap.Int("interface", ifaceNum))
	return nil
}

// Write sends data to the printer's bulk-out endpoint.
func (a *USBAdapter) Write(data []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.isOpen {
		return 0, errors.New("adapter: device not open")
	}
	n, err := a.out.Write(data)
	if err != nil {
		return n, fmt.Errorf("adapter: usb write: %w", err)
	}
	return n, nil
}

// Read reads from the printer's bulk-in endpoint, when it has one.
func (a *USBAdapter) Read(buf []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.isOpen {
		return 0, errors.New("adapter: device not open")
	}
	if a.in == nil {
		return 0, errors.New("adapter: input endpoint not available")
	}
	n, err := a.in.Read(buf)
	if err != nil {
		return n, fmt.Errorf("adapter: usb read: %w", err)
	}
	return n, nil
}

// Close releases the interface, the device, and the USB context.
func (a *USBAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.iface != nil {
		a.iface.Close()
		a.iface = nil
	}

	var errs []error
	if a.device != nil {
		if err := a.device.Close(); err != nil {
			errs = append(errs, err)
		}
		a.device = nil
	}
	if a.ctx != nil {
		if err := a.ctx.Close(); err != nil {
			errs = append(errs, err)
		}
		a.ctx = nil
	}

	a.isOpen = false
	if len(errs) > 0 {
		return fmt.Errorf("adapter: close: %v", errs)
	}
	return nil
}

// IsOpen reports whether the device is open.
func (a *USBAdapter) IsOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.isOpen
}
