package monitor

import "github.com/halfkay-tools/tycore/board"

// EventType is the kind of board lifecycle change a callback observes
// (spec.md §4.4 "Callback dispatch contract").
type EventType int

const (
	// EventAdded fires when a board is first seen.
	EventAdded EventType = iota
	// EventChanged fires when a board's interface set or capabilities change,
	// including when a missing board regains an interface within its grace
	// period.
	EventChanged
	// EventDisappeared fires when a board's last interface goes away; the
	// board enters the grace period rather than being dropped immediately.
	EventDisappeared
	// EventDropped fires once a missing board's grace period elapses, or
	// when an incompatible replacement forces an early close.
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventAdded:
		return "added"
	case EventChanged:
		return "changed"
	case EventDisappeared:
		return "disappeared"
	case EventDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// CallbackFunc is a registered (or one-off, via List) board event handler.
// The return value carries the tri-valued contract from spec.md §4.4: a
// negative value aborts dispatch (the monitor operation that triggered it
// fails), a positive value deregisters the callback, zero keeps it.
type CallbackFunc func(b *board.Board, event EventType) int

type callbackEntry struct {
	id int
	fn CallbackFunc
}
