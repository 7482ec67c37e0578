package serial

import (
	"errors"
	"net"
	"testing"
)

func TestOpenRequiresDevice(t *testing.T) {
	if _, err := Open(Config{}); !errors.Is(err, ErrNoDevice) {
		t.Errorf("Expected ErrNoDevice, got %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyACM0")
	if cfg.Device != "/dev/ttyACM0" || cfg.Baud != 115200 || cfg.ReadTimeout <= 0 {
		t.Errorf("Unexpected default config %+v", cfg)
	}
}

func TestWrap(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()

	p := Wrap(a)
	if err := p.Flush(); err != nil {
		t.Errorf("Expected no-op flush, got %v", err)
	}
	if Wrap(p) != p {
		t.Error("Expected Wrap to return an existing Port unchanged")
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
