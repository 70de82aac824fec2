package monitor

import (
	"time"

	"github.com/halfkay-tools/tycore"
	"github.com/halfkay-tools/tycore/board"
	"github.com/halfkay-tools/tycore/platform"
)

// addInterface implements spec.md §4.3's "Add-interface algorithm".
func (m *Monitor) addInterface(info platform.Info) error {
	const op = "monitor.addInterface"

	family, res, err := m.registry.Classify(info)
	if err != nil {
		if tycore.IsCode(err, tycore.CodeNotFound) || tycore.IsCode(err, tycore.CodeAccess) {
			return nil // step 1: soft-fail during classification (spec.md §7)
		}
		return tycore.Wrap(op, tycore.CodeSystem, err)
	}
	if res == nil {
		return nil // step 1: rejected
	}

	existing := m.boardAt(info.Location)
	if existing != nil && m.incompatible(existing, family, res) {
		// step 3: incompatible replacement — close then drop, proceed as new.
		if err := m.disappearAndDrop(existing); err != nil {
			return err
		}
		existing = nil
	}

	iface := board.NewInterface(info, res)
	if m.opener != nil {
		dev, err := m.opener.Open(info)
		if err != nil {
			return nil // ACCESS is soft during enumeration (spec.md §7)
		}
		iface.Device = dev
	}

	var b *board.Board
	event := EventAdded
	if existing != nil {
		b = existing
		// step 4: VID/PID drift at a stable location just updates the
		// record; it is not itself a disappear/reappear.
		if vid, pid := b.VIDPID(); vid != info.VendorID || pid != info.ProductID {
			b.SetVIDPID(info.VendorID, info.ProductID)
		}
		b.UpgradeModel(res.Model)
		b.FillSerial(res.Serial)
		event = EventChanged
	} else {
		b = board.New(info.Location, family)
		b.SetVIDPID(info.VendorID, info.ProductID)
		b.UpgradeModel(res.Model)
		b.FillSerial(res.Serial)
		m.boards = append(m.boards, b)
	}

	// step 6: union the interface into the board and index it.
	b.AddInterface(iface)
	m.interfaces[info.Handle] = iface
	m.ifaceOwner[info.Handle] = b

	// step 7: a board reappearing cancels its drop deadline.
	if b.State() == board.StateMissing {
		m.removeFromMissing(b)
	}
	b.MarkOnline()

	return m.dispatch(b, event)
}

// incompatible reports whether an already-known board at the same location
// cannot be the same physical device as the newly classified interface
// (spec.md §4.3 step 3: "different real model or conflicting serial").
func (m *Monitor) incompatible(existing *board.Board, family *board.Family, res *board.ClassifyResult) bool {
	if existing.Family() != family {
		return true
	}
	if em := existing.Model(); !em.IsUnknown() && res.Model != nil && !res.Model.IsUnknown() && em != res.Model {
		return true
	}
	if res.Serial != 0 && family.ReconcileSerial != nil {
		if family.ReconcileSerial(existing.Serial(), res.Serial) == board.ReconcileConflict {
			return true
		}
	}
	return false
}

// removeInterface implements spec.md §4.3's "Remove-interface algorithm".
func (m *Monitor) removeInterface(handle any) error {
	iface, ok := m.interfaces[handle]
	if !ok {
		return nil // step 1: no-op if absent
	}
	owner := m.ifaceOwner[handle]
	delete(m.interfaces, handle)
	delete(m.ifaceOwner, handle)
	if owner == nil {
		return nil
	}

	// step 2: remove and fully recompute from the remaining interfaces.
	_, empty := owner.RemoveInterface(handle)
	if iface.Device != nil {
		_ = iface.Device.Close()
	}

	if empty {
		// step 3: last interface gone — missing, not dropped yet.
		owner.MarkMissing(time.Now())
		m.enqueueMissing(owner)
		return m.dispatch(owner, EventDisappeared)
	}
	return m.dispatch(owner, EventChanged)
}

// disappearAndDrop closes a board outright — used only when an incompatible
// replacement is about to take its location (spec.md §4.3 step 3), which
// collapses the normal disappear-then-wait-then-drop sequence into one
// immediate pair of events.
func (m *Monitor) disappearAndDrop(b *board.Board) error {
	for _, iface := range b.ClearInterfaces() {
		delete(m.interfaces, iface.Handle)
		delete(m.ifaceOwner, iface.Handle)
		if iface.Device != nil {
			_ = iface.Device.Close()
		}
	}
	b.MarkMissing(time.Now())
	if err := m.dispatch(b, EventDisappeared); err != nil {
		return err
	}
	m.removeFromMissing(b)
	b.MarkDropped()
	m.removeFromBoards(b)
	return m.dispatch(b, EventDropped)
}

// processMissingQueue drains every missing board whose drop deadline has
// elapsed, in FIFO order, stopping at the first one still pending (spec.md
// §4.3 "Drop deadline").
func (m *Monitor) processMissingQueue() error {
	now := time.Now()
	for len(m.missing) > 0 {
		head := m.missing[0]
		if now.Before(head.MissingSince().Add(DropDeadline)) {
			return nil
		}
		m.missing = m.missing[1:]
		head.MarkDropped()
		m.removeFromBoards(head)
		if err := m.dispatch(head, EventDropped); err != nil {
			return err
		}
	}
	return nil
}

// dispatch invokes every registered callback for (b, event) in registration
// order, honoring the tri-valued return contract (spec.md §4.4). Callbacks
// run with no monitor or board lock held, per spec.md §5.
func (m *Monitor) dispatch(b *board.Board, event EventType) error {
	for i := 0; i < len(m.callbacks); {
		entry := m.callbacks[i]
		ret := entry.fn(b, event)
		switch {
		case ret < 0:
			m.lastCallbackRet = ret
			return tycore.New("monitor.dispatch", tycore.CodeSystem)
		case ret > 0:
			m.callbacks = append(m.callbacks[:i], m.callbacks[i+1:]...)
		default:
			i++
		}
	}
	return nil
}

func (m *Monitor) boardAt(location string) *board.Board {
	for _, b := range m.boards {
		if b.Location() == location {
			return b
		}
	}
	return nil
}

func (m *Monitor) removeFromBoards(target *board.Board) {
	for i, b := range m.boards {
		if b == target {
			m.boards = append(m.boards[:i], m.boards[i+1:]...)
			return
		}
	}
}

func (m *Monitor) enqueueMissing(b *board.Board) {
	m.missing = append(m.missing, b)
}

func (m *Monitor) removeFromMissing(b *board.Board) {
	for i, mb := range m.missing {
		if mb == b {
			m.missing = append(m.missing[:i], m.missing[i+1:]...)
			return
		}
	}
}
