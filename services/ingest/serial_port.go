package ingest

import (
	"fmt"

	"go.bug.st/serial"

	"pressle-logger/utils"
)

// OpenSerial opens the device port with the configured baud rate and read
// timeout and discards anything the device sent before we attached.
func OpenSerial(cfg utils.SerialConfig) (serial.Port, error) {
	port, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", cfg.Port, err)
	}
	if err := port.SetReadTimeout(cfg.ReadTimeout()); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", cfg.Port, err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, fmt.Errorf("reset input buffer on %s: %w", cfg.Port, err)
	}
	utils.L().Info("serial port open  port=%s baud=%d timeout=%v", cfg.Port, cfg.BaudRate, cfg.ReadTimeout())
	return port, nil
}

// ListPorts returns the serial ports visible to the host.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
