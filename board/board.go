package board

import (
	"fmt"
	"sync"
	"time"
)

// State is a board's lifecycle state (spec.md §3, §7).
type State int

const (
	StateOnline State = iota
	StateMissing
	StateDropped
)

func (s State) String() string {
	switch s {
	case StateOnline:
		return "online"
	case StateMissing:
		return "missing"
	case StateDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Board is a logical microcontroller development device, aggregating one or
// more USB interfaces observed at the same hardware location (spec.md §3
// "Board record"). All mutation happens through its methods, which take its
// lock; reads of the aggregated fields are safe to call concurrently with a
// Monitor's own goroutine (spec.md §5).
type Board struct {
	mu sync.RWMutex

	location string
	serial   uint64
	model    *Model
	vid, pid uint16
	family   *Family

	interfaces   map[any]*Interface
	capProviders map[Capability]*Interface
	capabilities Capability

	state        State
	missingSince time.Time
}

// New creates a board at location, initially with no interfaces and the
// unknown model. Boards are always created ONLINE — a caller is only ever
// handed a new Board as part of processing an add-interface event.
func New(location string, family *Family) *Board {
	return &Board{
		location:     location,
		model:        Unknown,
		family:       family,
		interfaces:   make(map[any]*Interface),
		capProviders: make(map[Capability]*Interface),
		state:        StateOnline,
	}
}

// ID returns the board's stable identity string, spec.md §6's
// "<decimal-serial>-<family-name>" format. It never changes after the first
// real serial is recorded (spec.md §3 invariant (c)).
func (b *Board) ID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.idLocked()
}

func (b *Board) idLocked() string {
	name := "unknown"
	if b.family != nil {
		name = b.family.Name
	}
	return fmt.Sprintf("%d-%s", b.serial, name)
}

// Tag is an alias of ID (spec.md §3: "tag (alias of id)").
func (b *Board) Tag() string { return b.ID() }

func (b *Board) Location() string { return b.location }

func (b *Board) Serial() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.serial
}

func (b *Board) Model() *Model {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.model
}

func (b *Board) VIDPID() (uint16, uint16) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.vid, b.pid
}

func (b *Board) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *Board) MissingSince() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.missingSince
}

// Capabilities returns the union of every live interface's capability bits
// (spec.md §3, §8 invariant 1).
func (b *Board) Capabilities() Capability {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.capabilities
}

// HasCapability reports whether the board currently exposes every bit in c.
func (b *Board) HasCapability(c Capability) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.capabilities.Has(c)
}

// InterfaceFor returns the interface currently providing capability c, or
// nil if no live interface provides it.
func (b *Board) InterfaceFor(c Capability) *Interface {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.capProviders[c]
}

// Interfaces returns a snapshot slice of the board's live interfaces.
func (b *Board) Interfaces() []*Interface {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Interface, 0, len(b.interfaces))
	for _, iface := range b.interfaces {
		out = append(out, iface)
	}
	return out
}

// InterfaceCount reports how many live interfaces the board has.
func (b *Board) InterfaceCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.interfaces)
}

// SetVIDPID updates the board's most-recently-observed vendor/product id
// (spec.md §4.3 add-interface step 4).
func (b *Board) SetVIDPID(vid, pid uint16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.vid, b.pid = vid, pid
}

// UpgradeModel replaces the board's model with m if m is a real (non-
// placeholder) model and the board currently has none (spec.md §4.3
// add-interface step 5: "upgrade model if interface provides a real one").
func (b *Board) UpgradeModel(m *Model) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m != nil && !m.IsUnknown() && b.model.IsUnknown() {
		b.model = m
	}
}

// FillSerial sets the board's serial if it is currently zero (spec.md §4.3
// add-interface step 5: "fill serial if previously zero").
func (b *Board) FillSerial(serial uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.serial == 0 && serial != 0 {
		b.serial = serial
	}
}

// AddInterface inserts iface into the board's live interface set and
// incrementally unions its capabilities into the board (spec.md §4.3
// add-interface step 6). It does not change State; callers are responsible
// for the ONLINE transition and for removing the board from any missing
// queue.
func (b *Board) AddInterface(iface *Interface) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.interfaces[iface.Handle] = iface
	for _, bit := range allCapabilities {
		if iface.Capabilities.Has(bit) {
			b.capProviders[bit] = iface
		}
	}
	b.capabilities |= iface.Capabilities
}

// RemoveInterface removes the interface keyed by handle, if present, and
// fully recomputes the capability map and union from the remaining
// interfaces (spec.md §4.3 remove-interface step 2: "not incrementally").
// It reports whether the interface set is now empty.
func (b *Board) RemoveInterface(handle any) (removed *Interface, empty bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	removed = b.interfaces[handle]
	if removed == nil {
		return nil, len(b.interfaces) == 0
	}
	delete(b.interfaces, handle)

	b.capProviders = make(map[Capability]*Interface, len(allCapabilities))
	var union Capability
	for _, iface := range b.interfaces {
		union |= iface.Capabilities
		for _, bit := range allCapabilities {
			if iface.Capabilities.Has(bit) {
				b.capProviders[bit] = iface
			}
		}
	}
	b.capabilities = union
	return removed, len(b.interfaces) == 0
}

// ClearInterfaces removes every live interface and returns them, resetting
// the capability map and union to empty. Used when a board is closed
// wholesale (incompatible replacement, or monitor teardown) rather than
// losing interfaces one at a time.
func (b *Board) ClearInterfaces() []*Interface {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Interface, 0, len(b.interfaces))
	for _, iface := range b.interfaces {
		out = append(out, iface)
	}
	b.interfaces = make(map[any]*Interface)
	b.capProviders = make(map[Capability]*Interface)
	b.capabilities = 0
	return out
}

// MarkMissing transitions the board to MISSING, recording since as its
// missing_since timestamp (spec.md §3, §4.3 step 3).
func (b *Board) MarkMissing(since time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateMissing
	b.missingSince = since
}

// MarkOnline transitions the board back to ONLINE (spec.md §4.3 step 7).
func (b *Board) MarkOnline() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateOnline
}

// MarkDropped transitions the board to DROPPED, its final observable state
// (spec.md §4.3 drop-deadline handling).
func (b *Board) MarkDropped() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateDropped
}

// Family returns the family this board belongs to.
func (b *Board) Family() *Family { return b.family }
