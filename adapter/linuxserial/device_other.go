//go:build !linux

package linuxserial

import (
	"time"

	"github.com/halfkay-tools/tycore/platform"
)

// Device is a no-op stand-in on non-Linux builds; goserial's termios2
// bindings are Linux-specific (mirrors port_linux.go's own GOOS scoping).
type Device struct{}

// Open always fails on this build.
func Open(path string, baudRate int) (*Device, error) {
	return nil, ErrClosed
}

func (d *Device) Close() error                                      { return nil }
func (d *Device) Write(p []byte) (int, error)                       { return 0, ErrClosed }
func (d *Device) Read(p []byte, timeout time.Duration) (int, error) { return 0, ErrClosed }
func (d *Device) SetConfig(cfg platform.SerialConfig) error         { return ErrClosed }
