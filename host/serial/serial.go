// Package serial opens the USB CDC port of a drill controller.
package serial

import (
	"errors"
	"io"
	"time"
)

var ErrNoDevice = errors.New("serial: no device given")

// Port is the byte stream to the controller. Tests use net.Pipe or any
// other io.ReadWriteCloser through Wrap.
type Port interface {
	io.ReadWriteCloser

	// Flush discards unread input, typically stale frames from before
	// the host connected.
	Flush() error
}

// Config selects the device. USB CDC ignores the baud rate but the OS
// still wants one.
type Config struct {
	Device      string
	Baud        int
	ReadTimeout time.Duration
}

func DefaultConfig(device string) Config {
	return Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100 * time.Millisecond,
	}
}

type streamPort struct {
	io.ReadWriteCloser
}

func (streamPort) Flush() error { return nil }

// Wrap turns a plain stream into a Port whose Flush does nothing.
func Wrap(rw io.ReadWriteCloser) Port {
	if p, ok := rw.(Port); ok {
		return p
	}
	return streamPort{rw}
}
