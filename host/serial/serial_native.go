//go:build !wasm

package serial

import (
	"fmt"

	"github.com/tarm/serial"
)

type nativePort struct {
	*serial.Port
	device string
}

// Open opens cfg.Device and drops whatever input is already queued.
func Open(cfg Config) (Port, error) {
	if cfg.Device == "" {
		return nil, ErrNoDevice
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Device, err)
	}
	p := &nativePort{Port: port, device: cfg.Device}
	if err := p.Flush(); err != nil {
		p.Close()
		return nil, fmt.Errorf("flush %s: %w", cfg.Device, err)
	}
	return p, nil
}

func (p *nativePort) String() string {
	return p.device
}
