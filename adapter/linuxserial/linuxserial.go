// Package linuxserial implements platform.SerialDevice over
// github.com/daedaluz/goserial's termios2 bindings, the way that library's
// own port_linux.go drives /dev/tty* devices directly via ioctl.
package linuxserial

import "errors"

// ErrClosed mirrors goserial's own sentinel for operations against a closed
// port, surfaced at this package's boundary rather than re-exporting
// goserial's error directly.
var ErrClosed = errors.New("linuxserial: port closed")
