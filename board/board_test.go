package board

import (
	"testing"
	"time"
)

func testModel() *Model {
	return &Model{Name: "Test Model", HalfKayVersion: 3, BlockSize: 1024, UsageID: 0x1d}
}

func TestAddInterfaceUnionsCapabilities(t *testing.T) {
	fam := RegisterFamily(&Family{Name: "Teensy", Models: []*Model{testModel()}})
	b := New("1-1", fam)

	hk := &Interface{Handle: 1, Capabilities: CapUpload | CapReset, Model: testModel()}
	b.AddInterface(hk)

	if got := b.Capabilities(); got != CapUpload|CapReset {
		t.Fatalf("capabilities = %v, want UPLOAD|RESET", got)
	}
	if b.InterfaceFor(CapUpload) != hk {
		t.Fatalf("InterfaceFor(CapUpload) did not return the HalfKay interface")
	}

	ser := &Interface{Handle: 2, Capabilities: CapRun | CapSerial | CapReboot}
	b.AddInterface(ser)

	want := CapUpload | CapReset | CapRun | CapSerial | CapReboot
	if got := b.Capabilities(); got != want {
		t.Fatalf("capabilities after merge = %v, want %v", got, want)
	}
	if b.InterfaceFor(CapSerial) != ser {
		t.Fatalf("InterfaceFor(CapSerial) did not return the serial interface")
	}
}

func TestRemoveInterfaceRecomputesFromScratch(t *testing.T) {
	fam := RegisterFamily(&Family{Name: "Teensy"})
	b := New("1-1", fam)

	hk := &Interface{Handle: 1, Capabilities: CapUpload | CapReset}
	ser := &Interface{Handle: 2, Capabilities: CapRun | CapSerial}
	b.AddInterface(hk)
	b.AddInterface(ser)

	removed, empty := b.RemoveInterface(1)
	if removed != hk {
		t.Fatalf("RemoveInterface returned %v, want hk", removed)
	}
	if empty {
		t.Fatalf("board reported empty with one interface remaining")
	}
	if got := b.Capabilities(); got != CapRun|CapSerial {
		t.Fatalf("capabilities after removing hk = %v, want RUN|SERIAL", got)
	}
	if b.InterfaceFor(CapUpload) != nil {
		t.Fatalf("InterfaceFor(CapUpload) should be nil once the provider is removed")
	}

	_, empty = b.RemoveInterface(2)
	if !empty {
		t.Fatalf("board should be empty after removing its last interface")
	}
	if b.Capabilities() != 0 {
		t.Fatalf("capabilities should be 0 once all interfaces are removed")
	}
}

func TestBoardIDFormat(t *testing.T) {
	fam := RegisterFamily(&Family{Name: "Teensy"})
	b := New("1-4.2", fam)

	if got, want := b.ID(), "0-Teensy"; got != want {
		t.Fatalf("ID() = %q, want %q", got, want)
	}

	b.FillSerial(1234567)
	if got, want := b.ID(), "1234567-Teensy"; got != want {
		t.Fatalf("ID() after FillSerial = %q, want %q", got, want)
	}
	if b.Tag() != b.ID() {
		t.Fatalf("Tag() must alias ID()")
	}

	// Once set, a later FillSerial with a different value must not change it.
	b.FillSerial(9999999)
	if got, want := b.ID(), "1234567-Teensy"; got != want {
		t.Fatalf("ID() changed after second FillSerial: got %q, want %q", got, want)
	}
}

func TestUpgradeModelOnlyFromUnknown(t *testing.T) {
	fam := RegisterFamily(&Family{Name: "Teensy"})
	b := New("1-1", fam)
	m1 := testModel()

	b.UpgradeModel(m1)
	if b.Model() != m1 {
		t.Fatalf("UpgradeModel did not set the first real model")
	}

	m2 := &Model{Name: "Other"}
	b.UpgradeModel(m2)
	if b.Model() != m1 {
		t.Fatalf("UpgradeModel replaced an already-real model")
	}
}

func TestMissingAndDropTransitions(t *testing.T) {
	fam := RegisterFamily(&Family{Name: "Teensy"})
	b := New("1-1", fam)
	if b.State() != StateOnline {
		t.Fatalf("new board should start ONLINE")
	}

	now := time.Now()
	b.MarkMissing(now)
	if b.State() != StateMissing {
		t.Fatalf("State() = %v, want MISSING", b.State())
	}
	if !b.MissingSince().Equal(now) {
		t.Fatalf("MissingSince() = %v, want %v", b.MissingSince(), now)
	}

	b.MarkOnline()
	if b.State() != StateOnline {
		t.Fatalf("State() = %v, want ONLINE", b.State())
	}

	b.MarkDropped()
	if b.State() != StateDropped {
		t.Fatalf("State() = %v, want DROPPED", b.State())
	}
}
