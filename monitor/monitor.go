// Package monitor reconciles platform hotplug events into a stable view of
// logical boards: it owns the board aggregator (add/remove-interface,
// missing-queue, drop deadlines) and the monitor driver (refresh, wait,
// callback dispatch) described in spec.md §4.3/§4.4.
package monitor

import (
	"sync"
	"time"

	"github.com/halfkay-tools/tycore"
	"github.com/halfkay-tools/tycore/board"
	"github.com/halfkay-tools/tycore/platform"
)

// Flags controls Monitor's wait strategy (spec.md §4.4 "new(flags)").
type Flags uint8

const (
	// ParallelWait selects condvar-based Wait for callers that refresh on a
	// separate goroutine from the one that waits. The zero value uses
	// channel-select over the platform enumerator's notify channel instead.
	ParallelWait Flags = 1 << iota
)

// DropDeadline is the grace period a board spends MISSING before it is
// dropped (spec.md §4.3 "Drop deadline").
const DropDeadline = 15 * time.Second

// Infinite passed as a Wait timeout blocks until the predicate is satisfied
// (spec.md §5 "ty_adjust_timeout ... −1 for infinite").
const Infinite time.Duration = -1

// minPollInterval bounds how long waitParallel sleeps when a missing board's
// drop deadline has already elapsed but no producer-side Refresh has run yet
// to drain it; Wait itself never drains the queue in parallel mode.
const minPollInterval = 50 * time.Millisecond

// Monitor owns the set of live and missing boards for one platform
// enumerator (spec.md §3 "Monitor record"). Its lists (boards, missing,
// interfaces, callbacks) are mutated only by the goroutine that calls
// Refresh, RegisterCallback, or DeregisterCallback — concurrent calls to
// those three are not supported, matching spec.md §5's single-owner
// contract. Read-only methods (List, NextDeadline) and Wait are safe to call
// from other goroutines once ParallelWait is set.
type Monitor struct {
	enumerator platform.Enumerator
	opener     platform.Opener
	registry   *board.Registry
	flags      Flags

	boards     []*board.Board       // insertion order
	missing    []*board.Board       // FIFO by missing_since
	interfaces map[any]*board.Interface
	ifaceOwner map[any]*board.Board // interface handle -> owning board, by id not pointer (spec.md §9)

	callbacks       []callbackEntry
	nextCallbackID  int
	lastCallbackRet int

	initialDone bool

	cond *sync.Cond
}

// New builds a Monitor over enumerator (device hotplug source), opener
// (device handle opener), and registry (the families to classify against).
// opener may be nil for tests that only exercise classification/aggregation
// and never open a device.
func New(enumerator platform.Enumerator, opener platform.Opener, registry *board.Registry, flags Flags) *Monitor {
	m := &Monitor{
		enumerator: enumerator,
		opener:     opener,
		registry:   registry,
		flags:      flags,
		interfaces: make(map[any]*board.Interface, 64),
		ifaceOwner: make(map[any]*board.Board, 64),
	}
	if flags&ParallelWait != 0 {
		m.cond = sync.NewCond(&sync.Mutex{})
	}
	return m
}

// Free drops every board without emitting events and releases the platform
// enumerator handle (spec.md §4.4 "free").
func (m *Monitor) Free() error {
	for _, b := range m.boards {
		b.MarkDropped()
	}
	m.boards = nil
	m.missing = nil
	m.interfaces = make(map[any]*board.Interface)
	m.ifaceOwner = make(map[any]*board.Board)
	m.callbacks = nil
	return m.enumerator.Close()
}

// RegisterCallback appends fn to the dispatch list and returns a fresh,
// monotonically increasing, non-negative id (spec.md §4.4).
func (m *Monitor) RegisterCallback(fn CallbackFunc) int {
	id := m.nextCallbackID
	m.nextCallbackID++
	m.callbacks = append(m.callbacks, callbackEntry{id: id, fn: fn})
	return id
}

// DeregisterCallback removes the callback with id, if present.
func (m *Monitor) DeregisterCallback(id int) {
	for i, e := range m.callbacks {
		if e.id == id {
			m.callbacks = append(m.callbacks[:i], m.callbacks[i+1:]...)
			return
		}
	}
}

// List synchronously invokes fn(board, EventAdded) for every ONLINE board,
// in insertion order (spec.md §4.4 "list").
func (m *Monitor) List(fn CallbackFunc) error {
	for _, b := range m.boards {
		if b.State() != board.StateOnline {
			continue
		}
		if ret := fn(b, EventAdded); ret < 0 {
			m.lastCallbackRet = ret
			return tycore.New("monitor.List", tycore.CodeSystem)
		}
	}
	return nil
}

// NextDeadline reports the earliest pending drop deadline, if any missing
// board is queued. Parallel-mode callers that drive their own Refresh loop
// use this to size their own select/sleep (spec.md §4.3 "the timer is
// always set to the earliest pending deadline").
func (m *Monitor) NextDeadline() (time.Time, bool) {
	if len(m.missing) == 0 {
		return time.Time{}, false
	}
	return m.missing[0].MissingSince().Add(DropDeadline), true
}

// Refresh drains any expired missing boards, then walks the platform
// enumerator — a full List on the first call, an incremental Refresh
// thereafter — feeding every reported event through the aggregator. It
// broadcasts the condvar after a successful pass (spec.md §4.4 "refresh").
func (m *Monitor) Refresh() error {
	if err := m.processMissingQueue(); err != nil {
		return err
	}

	walk := m.enumerator.Refresh
	if !m.initialDone {
		walk = m.enumerator.List
	}

	var dispatchErr error
	walkErr := walk(func(ev platform.Event) bool {
		var err error
		switch ev.Status {
		case platform.StatusOnline:
			err = m.addInterface(ev.Info)
		case platform.StatusDisconnected:
			err = m.removeInterface(ev.Info.Handle)
		}
		if err != nil {
			dispatchErr = err
			return false
		}
		return true
	})
	m.initialDone = true

	if walkErr != nil {
		return walkErr
	}
	if dispatchErr != nil {
		return dispatchErr
	}

	if m.cond != nil {
		m.cond.L.Lock()
		m.cond.Broadcast()
		m.cond.L.Unlock()
	}
	return nil
}

// Wait blocks until predicate returns true or timeout elapses (Infinite
// blocks indefinitely). With ParallelWait set it evaluates predicate under
// the monitor's condvar; otherwise it drives its own Refresh/select loop
// against the platform enumerator's notify channel (spec.md §4.4 "wait",
// SPEC_FULL.md §9). Without ParallelWait, a nil predicate returns after the
// first successful refresh. With ParallelWait, a nil predicate is never
// satisfied, so Wait returns only once timeout elapses.
func (m *Monitor) Wait(predicate func() bool, timeout time.Duration) error {
	if m.flags&ParallelWait != 0 {
		return m.waitParallel(predicate, timeout)
	}
	return m.waitSerial(predicate, timeout)
}

func (m *Monitor) waitSerial(predicate func() bool, timeout time.Duration) error {
	start := time.Now()
	for {
		if err := m.Refresh(); err != nil {
			return err
		}
		if predicate == nil || predicate() {
			return nil
		}

		wait := clampTimeout(timeout, time.Since(start))
		if wait == 0 {
			return nil
		}
		if deadline, ok := m.NextDeadline(); ok {
			if until := time.Until(deadline); until <= 0 {
				continue // an entry is already due; loop straight back to Refresh
			} else if wait == Infinite || until < wait {
				wait = until
			}
		}

		if wait == Infinite {
			<-m.enumerator.Notify()
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-m.enumerator.Notify():
			timer.Stop()
		case <-timer.C:
		}
	}
}

func (m *Monitor) waitParallel(predicate func() bool, timeout time.Duration) error {
	start := time.Now()
	m.cond.L.Lock()
	defer m.cond.L.Unlock()

	for predicate == nil || !predicate() {
		wait := clampTimeout(timeout, time.Since(start))
		if wait == 0 {
			return nil
		}
		if deadline, ok := m.NextDeadline(); ok {
			if until := time.Until(deadline); until <= 0 {
				wait = minPollInterval
			} else if wait == Infinite || until < wait {
				wait = until
			}
		}

		var timer *time.Timer
		if wait != Infinite {
			timer = time.AfterFunc(wait, func() {
				m.cond.L.Lock()
				m.cond.Broadcast()
				m.cond.L.Unlock()
			})
		}
		m.cond.Wait()
		if timer != nil {
			timer.Stop()
		}
	}
	return nil
}

// clampTimeout is ty_adjust_timeout's Go translation (spec.md §5): it clamps
// total-minus-elapsed to non-negative remaining time, returning 0 once
// elapsed and passing Infinite through unchanged.
func clampTimeout(total, elapsed time.Duration) time.Duration {
	if total == Infinite {
		return Infinite
	}
	remaining := total - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
