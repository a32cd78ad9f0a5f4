package main

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tlseries/printer-driver/adapter"
	"github.com/tlseries/printer-driver/server"
)

// Configuration comes from the environment only:
//
//	SERVER_ADDRESS   listen address for the raw-9100 relay
//	PRINTER_ADAPTER  usb | serial | file
//	SERIAL_PORT      serial port name when PRINTER_ADAPTER=serial
//	SERIAL_BAUD      serial baud rate
//	PRINTER_DEVICE   device node when PRINTER_ADAPTER=file
func main() {
	viper.AutomaticEnv()
	viper.SetDefault("SERVER_ADDRESS", "localhost:9100")
	viper.SetDefault("PRINTER_ADAPTER", "usb")
	viper.SetDefault("SERIAL_PORT", "/dev/ttyUSB0")
	viper.SetDefault("SERIAL_BAUD", adapter.DefaultBaudRate)
	viper.SetDefault("PRINTER_DEVICE", "/dev/usb/lp0")

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	device, err := newAdapter(logger)
	if err != nil {
		logger.Fatal("adapter setup failed", zap.Error(err))
	}
	defer device.Close()

	svr := server.New(device, viper.GetString("SERVER_ADDRESS"), logger)
	if err := svr.Start(); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newAdapter(logger *zap.Logger) (adapter.Adapter, error) {
	kind := viper.GetString("PRINTER_ADAPTER")
	switch kind {
	case "usb":
		return adapter.NewUSBAdapterAuto(logger)
	case "serial":
		return adapter.NewSerialAdapter(
			viper.GetString("SERIAL_PORT"),
			viper.GetInt("SERIAL_BAUD"),
			logger,
		), nil
	case "file":
		return adapter.NewFileAdapter(viper.GetString("PRINTER_DEVICE"), logger), nil
	}
	return nil, fmt.Errorf("unknown PRINTER_ADAPTER %q", kind)
}
