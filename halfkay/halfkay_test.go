package halfkay

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/halfkay-tools/tycore"
	"github.com/halfkay-tools/tycore/board"
	"github.com/halfkay-tools/tycore/platform"
)

// fakeHID is an in-memory platform.HIDDevice double.
type fakeHID struct {
	writes    [][]byte
	feature   [][]byte
	writeErrs []error
}

func (f *fakeHID) Close() error { return nil }

func (f *fakeHID) Write(p []byte) (int, error) {
	cp := append([]byte(nil), p...)
	f.writes = append(f.writes, cp)
	if len(f.writeErrs) > 0 {
		err := f.writeErrs[0]
		f.writeErrs = f.writeErrs[1:]
		if err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func (f *fakeHID) Read(p []byte, timeout time.Duration) (int, error) { return 0, nil }

func (f *fakeHID) SendFeatureReport(p []byte) (int, error) {
	cp := append([]byte(nil), p...)
	f.feature = append(f.feature, cp)
	return len(p), nil
}

func (f *fakeHID) GetFeatureReport(p []byte) (int, error) { return 0, nil }

type fakeSerial struct {
	configs []platform.SerialConfig
	failOn  int
}

func (f *fakeSerial) Close() error                                     { return nil }
func (f *fakeSerial) Write(p []byte) (int, error)                      { return len(p), nil }
func (f *fakeSerial) Read(p []byte, timeout time.Duration) (int, error) { return 0, nil }
func (f *fakeSerial) SetConfig(cfg platform.SerialConfig) error {
	f.configs = append(f.configs, cfg)
	if len(f.configs) == f.failOn {
		return errors.New("set config failed")
	}
	return nil
}

func TestBuildPacketV3Layout(t *testing.T) {
	data := []byte{0xAA, 0xBB}
	pkt := BuildPacket(3, 0x012345, data, 1024)
	if len(pkt) != 1+64+1024 {
		t.Fatalf("len(pkt) = %d, want %d", len(pkt), 1+64+1024)
	}
	if pkt[0] != 0 {
		t.Fatalf("pkt[0] (report id) = %d, want 0", pkt[0])
	}
	if pkt[1] != 0x45 || pkt[2] != 0x23 || pkt[3] != 0x01 {
		t.Fatalf("address header = % x, want 45 23 01", pkt[1:4])
	}
	if !bytes.Equal(pkt[65:67], data) {
		t.Fatalf("payload at byte 65 = % x, want % x", pkt[65:67], data)
	}
}

func TestBuildPacketDeterministic(t *testing.T) {
	a := BuildPacket(1, 0x100, []byte{1, 2, 3}, 128)
	b := BuildPacket(1, 0x100, []byte{1, 2, 3}, 128)
	if !bytes.Equal(a, b) {
		t.Fatalf("BuildPacket is not deterministic")
	}
}

// TestUploadScenarioS4 reproduces spec.md §8 scenario S4: a 2048-byte image
// uploaded to a Teensy 3.0 (v3, block 1024) produces exactly two writes of
// 1089 bytes and progress callbacks at 0, 1024, 2048.
func TestUploadScenarioS4(t *testing.T) {
	dev := &fakeHID{}
	image := make([]byte, 2048)
	for i := range image {
		image[i] = byte(i)
	}

	var offsets []uint32
	start := time.Now()
	eng := NewEngine(Config{})
	err := eng.Upload(dev, teensy30Model(), image, func(offset, total uint32) error {
		offsets = append(offsets, offset)
		if total != 2048 {
			t.Fatalf("total = %d, want 2048", total)
		}
		return nil
	})
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(dev.writes) != 2 {
		t.Fatalf("writes = %d, want 2", len(dev.writes))
	}
	for _, w := range dev.writes {
		if len(w) != 1089 {
			t.Errorf("write length = %d, want 1089", len(w))
		}
	}
	wantOffsets := []uint32{0, 1024, 2048}
	if len(offsets) != len(wantOffsets) {
		t.Fatalf("offsets = %v, want %v", offsets, wantOffsets)
	}
	for i, o := range wantOffsets {
		if offsets[i] != o {
			t.Errorf("offsets[%d] = %d, want %d", i, offsets[i], o)
		}
	}
	// 200ms (first block) + 20ms (second block) pacing, loosely bounded.
	if elapsed < 200*time.Millisecond {
		t.Errorf("elapsed = %v, want at least 200ms of erase/stall pacing", elapsed)
	}
}

func TestUploadRejectsOversizedImage(t *testing.T) {
	dev := &fakeHID{}
	eng := NewEngine(Config{})
	model := teensy30Model()
	image := make([]byte, model.CodeSize+1)
	err := eng.Upload(dev, model, image, nil)
	if !tycore.IsCode(err, tycore.CodeRange) {
		t.Fatalf("Upload(oversized) err = %v, want CodeRange", err)
	}
}

func TestUploadRefusesExperimentalWithoutFlag(t *testing.T) {
	dev := &fakeHID{}
	model := teensy30Model()
	model.Experimental = true
	eng := NewEngine(Config{ExperimentalEnabled: false})
	err := eng.Upload(dev, model, []byte{1, 2, 3}, nil)
	if !tycore.IsCode(err, tycore.CodeUnsupported) {
		t.Fatalf("Upload(experimental, disabled) err = %v, want CodeUnsupported", err)
	}

	eng2 := NewEngine(Config{ExperimentalEnabled: true})
	if err := eng2.Upload(dev, model, []byte{1, 2, 3}, nil); err != nil {
		t.Fatalf("Upload(experimental, enabled) err = %v, want nil", err)
	}
}

func TestUploadShortImageSendsOnePacket(t *testing.T) {
	dev := &fakeHID{}
	eng := NewEngine(Config{})
	model := teensy30Model()
	if err := eng.Upload(dev, model, []byte{1, 2, 3}, nil); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(dev.writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(dev.writes))
	}
}

// TestRebootScenarioS6Seremu reproduces spec.md §8 scenario S6's Seremu half.
func TestRebootScenarioS6Seremu(t *testing.T) {
	dev := &fakeHID{}
	iface := &board.Interface{Role: board.RoleSeremu, Device: dev}
	eng := NewEngine(Config{})
	if err := eng.Reboot(iface); err != nil {
		t.Fatalf("Reboot: %v", err)
	}
	if len(dev.feature) != 1 {
		t.Fatalf("feature reports sent = %d, want 1", len(dev.feature))
	}
	want := []byte{0x00, 0xA9, 0x45, 0xC2, 0x6B}
	if !bytes.Equal(dev.feature[0], want) {
		t.Fatalf("feature report = % x, want % x", dev.feature[0], want)
	}
}

// TestRebootScenarioS6Serial reproduces spec.md §8 scenario S6's Serial half:
// set_config(134) then set_config(115200), with the second call's error
// swallowed.
func TestRebootScenarioS6Serial(t *testing.T) {
	dev := &fakeSerial{failOn: 2}
	iface := &board.Interface{Role: board.RoleSerial, Device: dev}
	eng := NewEngine(Config{})
	if err := eng.Reboot(iface); err != nil {
		t.Fatalf("Reboot should swallow the restore-baud error, got %v", err)
	}
	if len(dev.configs) != 2 {
		t.Fatalf("SetConfig calls = %d, want 2", len(dev.configs))
	}
	if dev.configs[0].BaudRate != RebootBaud {
		t.Errorf("first baud = %d, want %d", dev.configs[0].BaudRate, RebootBaud)
	}
	if dev.configs[1].BaudRate != DefaultBaud {
		t.Errorf("second baud = %d, want %d", dev.configs[1].BaudRate, DefaultBaud)
	}
}

func teensy30Model() *board.Model {
	return &board.Model{Name: "Teensy 3.0", HalfKayVersion: 3, BlockSize: 1024, CodeSize: 131072, UsageID: 0x1D}
}
