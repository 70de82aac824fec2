//go:build cgo

package gousbhid

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/gousb"
	"github.com/halfkay-tools/tycore/platform"
)

// Supported reports whether this platform's gousb/libusb bindings are
// available in this build (spec.md §2.G / karalabe/hid's Supported()).
func Supported() bool { return true }

// pollInterval is how often Enumerator polls libusb for attach/detach
// changes. gousb has no native hotplug callback wired through this package,
// so attach/detach is observed the same way karalabe/hid's enumerateLock
// serializes repeated Enumerate() calls — by re-listing and diffing.
const pollInterval = 500 * time.Millisecond

// Enumerator implements platform.Enumerator by periodically listing USB
// devices matching vendorID and diffing against the previously seen set.
type Enumerator struct {
	ctx      *gousb.Context
	vendorID uint16

	mu      sync.Mutex
	known   map[string]*gousb.Device // location -> device, current poll snapshot
	added   map[string]*gousb.Device // location -> device, seen but not yet reported
	removed map[string]*gousb.Device // location -> device, gone but not yet reported
	notify  chan struct{}
	stop    chan struct{}
}

// NewEnumerator opens a libusb context scoped to one vendor id.
func NewEnumerator(vendorID uint16) (*Enumerator, error) {
	e := &Enumerator{
		ctx:      gousb.NewContext(),
		vendorID: vendorID,
		known:    make(map[string]*gousb.Device),
		added:    make(map[string]*gousb.Device),
		removed:  make(map[string]*gousb.Device),
		notify:   make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
	go e.pollLoop()
	return e, nil
}

func (e *Enumerator) pollLoop() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			if e.poll() {
				select {
				case e.notify <- struct{}{}:
				default:
				}
			}
		}
	}
}

// poll re-lists devices matching vendorID and folds any newly-attached or
// newly-detached locations into e.added/e.removed, reusing the still-open
// gousb.Device for any location that was already known so a steady-state
// board keeps the same Handle across polls. It reports whether anything
// changed.
func (e *Enumerator) poll() bool {
	devices, _ := e.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return uint16(desc.Vendor) == e.vendorID
	})

	seen := make(map[string]*gousb.Device, len(devices))
	for _, dev := range devices {
		seen[deviceLocation(dev)] = dev
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := make(map[string]*gousb.Device, len(seen))
	changed := false
	for loc, dev := range seen {
		if old, ok := e.known[loc]; ok {
			dev.Close() // duplicate handle for a device already tracked
			next[loc] = old
			continue
		}
		next[loc] = dev
		e.added[loc] = dev
		delete(e.removed, loc)
		changed = true
	}
	for loc, old := range e.known {
		if _, ok := seen[loc]; !ok {
			e.removed[loc] = old
			delete(e.added, loc)
			changed = true
		}
	}
	e.known = next
	return changed
}

func deviceLocation(dev *gousb.Device) string {
	return fmt.Sprintf("%d-%d", dev.Desc.Bus, dev.Desc.Address)
}

// List invokes fn once per device currently known (spec.md §6
// "monitor_list"), then clears any pending delta — the caller now has a
// full picture and does not need those same devices replayed by Refresh.
func (e *Enumerator) List(fn platform.EventFunc) error {
	e.poll()

	e.mu.Lock()
	snapshot := make([]*gousb.Device, 0, len(e.known))
	for _, dev := range e.known {
		snapshot = append(snapshot, dev)
	}
	e.added = make(map[string]*gousb.Device)
	e.removed = make(map[string]*gousb.Device)
	e.mu.Unlock()

	for _, dev := range snapshot {
		info, err := describeDevice(dev)
		if err != nil {
			continue // ACCESS-class failures are soft during enumeration (spec.md §7)
		}
		if !fn(platform.Event{Status: platform.StatusOnline, Info: info}) {
			break
		}
	}
	return nil
}

// Refresh invokes fn only for locations that attached or detached since the
// last List/Refresh call, rather than replaying the whole known set — an
// unchanged board between polls produces no event at all.
func (e *Enumerator) Refresh(fn platform.EventFunc) error {
	e.poll()

	e.mu.Lock()
	added := make([]*gousb.Device, 0, len(e.added))
	for _, dev := range e.added {
		added = append(added, dev)
	}
	removed := make([]*gousb.Device, 0, len(e.removed))
	for _, dev := range e.removed {
		removed = append(removed, dev)
	}
	e.added = make(map[string]*gousb.Device)
	e.removed = make(map[string]*gousb.Device)
	e.mu.Unlock()

	for _, dev := range added {
		info, err := describeDevice(dev)
		if err != nil {
			continue // ACCESS-class failures are soft during enumeration (spec.md §7)
		}
		if !fn(platform.Event{Status: platform.StatusOnline, Info: info}) {
			return nil
		}
	}
	for _, dev := range removed {
		// The device is already unplugged; only its Handle is needed to
		// look up the interface the monitor is tracking.
		if !fn(platform.Event{Status: platform.StatusDisconnected, Info: platform.Info{Handle: dev}}) {
			return nil
		}
		dev.Close()
	}
	return nil
}

// Notify returns the channel this adapter signals on whenever its poll loop
// observes a change in the known device set (SPEC_FULL.md §9).
func (e *Enumerator) Notify() <-chan struct{} { return e.notify }

// Close stops the poll loop and releases the libusb context.
func (e *Enumerator) Close() error {
	close(e.stop)
	e.mu.Lock()
	for _, dev := range e.known {
		dev.Close()
	}
	for _, dev := range e.removed {
		dev.Close()
	}
	e.known = nil
	e.added = nil
	e.removed = nil
	e.mu.Unlock()
	return e.ctx.Close()
}
