package serial

import (
	"io"
	"time"
)

const (
	DefaultBaud        = 115200
	DefaultReadTimeout = time.Second
)

// Port represents an opened serial device capable of byte I/O.
//
// Read returns (0, nil) when the read timeout elapses with no data.
type Port interface {
	io.ReadWriteCloser
	Drain() error                         // wait until written bytes have left the OS buffer
	SetReadTimeout(t time.Duration) error // timeout applied to subsequent reads
}

// Config holds the line settings used when opening a port. Frames are always 8-N-1.
type Config struct {
	Baud        int
	ReadTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Baud:        DefaultBaud,
		ReadTimeout: DefaultReadTimeout,
	}
}

// Info represents a serial port as reported by the OS.
type Info struct {
	Name         string
	IsUSB        bool
	VendorID     uint16
	ProductID    uint16
	SerialNumber string
	Product      string
	Manufacturer string
	Bridge       string // known USB-serial bridge chip, if recognised
}

// Manager enumerates and opens serial ports.
type Manager interface {
	List() ([]Info, error)
	Open(name string, cfg Config) (Port, error)
}

// NewManager returns the OS serial port manager.
func NewManager() Manager {
	return newManager()
}
