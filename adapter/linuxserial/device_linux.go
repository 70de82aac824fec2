//go:build linux

package linuxserial

import (
	"fmt"
	"time"

	serial "github.com/daedaluz/goserial"
	"github.com/halfkay-tools/tycore/platform"
)

// Device implements platform.SerialDevice over one opened goserial.Port.
type Device struct {
	port *serial.Port
}

// Open opens path (e.g. "/dev/ttyACM0") in raw mode with the given initial
// baud rate (spec.md §6's "handle_open" for the Serial role).
func Open(path string, baudRate int) (*Device, error) {
	port, err := serial.Open(path, serial.NewOptions().SetReadTimeout(0))
	if err != nil {
		return nil, fmt.Errorf("linuxserial: open %s: %w", path, err)
	}
	d := &Device{port: port}
	if err := d.SetConfig(platform.SerialConfig{BaudRate: baudRate}); err != nil {
		port.Close()
		return nil, err
	}
	return d, nil
}

func (d *Device) Close() error {
	return d.port.Close()
}

func (d *Device) Write(p []byte) (int, error) {
	return d.port.Write(p)
}

func (d *Device) Read(p []byte, timeout time.Duration) (int, error) {
	if timeout <= 0 {
		return d.port.Read(p)
	}
	return d.port.ReadTimeout(p, timeout)
}

// SetConfig sets the port's baud rate via termios2's custom-speed field,
// mirroring port_linux.go's SetCustomSpeed (spec.md §6
// "serial_set_config", SPEC_FULL.md §4.8.G).
func (d *Device) SetConfig(cfg platform.SerialConfig) error {
	attrs, err := d.port.GetAttr2()
	if err != nil {
		return fmt.Errorf("linuxserial: get attr: %w", err)
	}
	attrs.MakeRaw()
	attrs.SetCustomSpeed(uint32(cfg.BaudRate))
	if err := d.port.SetAttr2(serial.TCSANOW, attrs); err != nil {
		return fmt.Errorf("linuxserial: set attr: %w", err)
	}
	return nil
}
