// Package platform is the contract the device monitor and board lifecycle
// core consumes from the host's USB/HID/CDC layer. Nothing in this module
// implements device enumeration or raw I/O itself — that is the job of a
// concrete adapter (see adapter/gousbhid and adapter/linuxserial) — but every
// other package in this repository is written against these interfaces only.
package platform

import "time"

// Status is the kind of change a platform-reported device event describes.
type Status int

const (
	// StatusOnline means a device (interface) has just become available.
	StatusOnline Status = iota
	// StatusDisconnected means a previously reported device has gone away.
	StatusDisconnected
)

func (s Status) String() string {
	if s == StatusOnline {
		return "online"
	}
	return "disconnected"
}

// Kind is the coarse transport kind of a device, as reported by the
// platform layer. The interface classifier uses this together with the HID
// usage page to decide a device's role.
type Kind int

const (
	KindHID Kind = iota
	KindCDCSerial
)

// Info is the set of pure, platform-supplied accessors for one USB
// interface. It corresponds 1:1 to spec.md §6's
// device_get_{vid,pid,type,location,serial_number_string,product_string,
// hid_usage_page,hid_usage} accessors.
type Info struct {
	VendorID      uint16
	ProductID     uint16
	Kind          Kind
	Location      string // stable USB path, e.g. "1-4.2"
	SerialString  string // raw, unparsed serial number string (may be empty)
	ProductString string
	HIDUsagePage  uint16
	HIDUsage      uint16

	// Handle is an opaque, comparable platform device pointer/handle used
	// as the key into the monitor's interface hash table (spec.md §3's
	// "hash table keyed by device-pointer"). Two Info values describe the
	// same physical interface iff their Handle compares equal.
	Handle any
}

// Event is what the platform layer reports through Enumerator.List/Refresh
// and through its notification channel.
type Event struct {
	Status Status
	Info   Info
}

// EventFunc processes one device event during enumeration. Returning false
// stops iteration early (spec.md §6: "returning a short-circuit nonzero to
// stop iteration").
type EventFunc func(Event) bool

// Enumerator is the platform monitor handle: it tracks USB hotplug state and
// reports it to the core in two ways — a synchronous walk of currently-known
// devices (List, used once for the monitor's initial enumeration) and an
// incremental walk of what changed since the last call (Refresh, used on
// every subsequent tick).
type Enumerator interface {
	// List invokes fn once per device currently known to the platform,
	// always with Status == StatusOnline.
	List(fn EventFunc) error

	// Refresh invokes fn once per device whose status changed since the
	// last List/Refresh call.
	Refresh(fn EventFunc) error

	// Notify returns a channel that receives a value whenever the platform
	// layer believes a Refresh would observe new events. It is the Go
	// translation of spec.md §4.4's "get_descriptors" poll-descriptor
	// registration — see SPEC_FULL.md §9.
	Notify() <-chan struct{}

	// Close releases the platform monitor handle.
	Close() error
}

// Device is the minimal I/O surface shared by every opened interface,
// regardless of role.
type Device interface {
	Close() error

	// Write sends a binary blob to the device.
	Write(p []byte) (int, error)

	// Read retrieves a binary blob from the device, blocking for up to
	// timeout (0 means block indefinitely).
	Read(p []byte, timeout time.Duration) (int, error)
}

// HIDDevice is implemented by devices opened for a HID-class interface
// (HalfKay, RawHID, Seremu). Feature reports are control-endpoint transfers,
// distinct from the interrupt Read/Write above.
type HIDDevice interface {
	Device

	// SendFeatureReport sends a feature report. The first byte of p is the
	// HID report id.
	SendFeatureReport(p []byte) (int, error)

	// GetFeatureReport retrieves a feature report. The first byte of p on
	// entry is the report id to request; on return p[1:] holds the report
	// data.
	GetFeatureReport(p []byte) (int, error)
}

// SerialConfig mirrors spec.md §6's serial_set_config contract.
type SerialConfig struct {
	BaudRate int
}

// SerialDevice is implemented by devices opened for the CDC serial
// interface.
type SerialDevice interface {
	Device
	SetConfig(cfg SerialConfig) error
}

// Opener opens the device handle described by an Info.
type Opener interface {
	Open(info Info) (Device, error)
}
