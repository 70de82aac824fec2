//go:build !cgo

package gousbhid

import "github.com/halfkay-tools/tycore/platform"

// Supported reports false on builds without cgo, since gousb requires
// libusb bindings (karalabe/hid's hid_disabled.go convention).
func Supported() bool { return false }

// Enumerator is a no-op stand-in so callers can reference the type without
// build-tag-gating their own code.
type Enumerator struct{}

// NewEnumerator always fails on this build.
func NewEnumerator(vendorID uint16) (*Enumerator, error) {
	return nil, ErrUnsupportedPlatform
}

func (e *Enumerator) List(fn platform.EventFunc) error    { return ErrUnsupportedPlatform }
func (e *Enumerator) Refresh(fn platform.EventFunc) error { return ErrUnsupportedPlatform }
func (e *Enumerator) Notify() <-chan struct{}             { return nil }
func (e *Enumerator) Close() error                        { return nil }

// Opener is a no-op stand-in matching the cgo build's Opener.
type Opener struct{}

func (Opener) Open(info platform.Info) (platform.Device, error) {
	return nil, ErrUnsupportedPlatform
}
