// Package halfkay implements the HalfKay bootloader protocol: block-
// addressed firmware upload, application reset (jump), and runtime-to-
// bootloader reboot (spec.md §2 component 6, §4.5).
package halfkay

import (
	"time"

	"github.com/halfkay-tools/tycore"
	"github.com/halfkay-tools/tycore/board"
	"github.com/halfkay-tools/tycore/platform"
)

// ResetAddress is the address HalfKay jumps to on Reset (spec.md §6).
const ResetAddress uint32 = 0xFFFFFF

// RebootBaud is the magic baud rate that reboots a Teensy's CDC serial
// interface into the bootloader (spec.md §6).
const RebootBaud = 134

// DefaultBaud is restored immediately after RebootBaud so the host OS does
// not cache the magic value for the port's next open (spec.md §4.5).
const DefaultBaud = 115200

var seremuRebootPayload = [5]byte{0x00, 0xA9, 0x45, 0xC2, 0x6B}

const (
	uploadDeadline  = 3000 * time.Millisecond
	resetDeadline   = 250 * time.Millisecond
	firstBlockDelay = 200 * time.Millisecond
	laterBlockDelay = 20 * time.Millisecond
)

// ProgressFunc reports upload progress as bytes written out of total. A
// non-nil return aborts the upload (spec.md §4.5, §5: "progress callback
// returning nonzero aborts").
type ProgressFunc func(offset, total uint32) error

// Engine runs the HalfKay protocol against an opened bootloader interface.
type Engine struct {
	Config Config
}

// NewEngine builds an Engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{Config: cfg}
}

// Upload streams image to dev in model.BlockSize chunks (spec.md §4.5
// "Upload sequence").
func (e *Engine) Upload(dev platform.HIDDevice, model *board.Model, image []byte, progress ProgressFunc) error {
	const op = "halfkay.Upload"

	if model.Experimental && !e.Config.ExperimentalEnabled {
		return tycore.New(op, tycore.CodeUnsupported)
	}
	if uint32(len(image)) > model.CodeSize {
		return tycore.New(op, tycore.CodeRange)
	}

	total := uint32(len(image))
	if progress != nil {
		if err := progress(0, total); err != nil {
			return err
		}
	}

	blockSize := int(model.BlockSize)
	for addr := 0; addr < len(image); addr += blockSize {
		end := addr + blockSize
		var block []byte
		if end > len(image) {
			block = make([]byte, blockSize)
			copy(block, image[addr:])
		} else {
			block = image[addr:end]
		}

		pkt := BuildPacket(model.HalfKayVersion, uint32(addr), block, blockSize)
		if err := sendWithRetry(dev, pkt, uploadDeadline); err != nil {
			return tycore.Wrap(op, tycore.CodeIO, err)
		}

		if addr == 0 {
			time.Sleep(firstBlockDelay)
		} else {
			time.Sleep(laterBlockDelay)
		}

		if progress != nil {
			offset := uint32(end)
			if offset > total {
				offset = total
			}
			if err := progress(offset, total); err != nil {
				return err
			}
		}
	}
	return nil
}

// Reset sends the zero-length jump-to-application packet (spec.md §4.5
// "Reset").
func (e *Engine) Reset(dev platform.HIDDevice, model *board.Model) error {
	const op = "halfkay.Reset"
	if model.Experimental && !e.Config.ExperimentalEnabled {
		return tycore.New(op, tycore.CodeUnsupported)
	}
	blockSize := int(model.BlockSize)
	pkt := BuildPacket(model.HalfKayVersion, ResetAddress, nil, blockSize)
	if err := sendWithRetry(dev, pkt, resetDeadline); err != nil {
		return tycore.Wrap(op, tycore.CodeIO, err)
	}
	return nil
}

// Reboot requests a runtime board reboot into its bootloader, dispatching
// on the interface's role (spec.md §4.5 "Reboot").
func (e *Engine) Reboot(iface *board.Interface) error {
	const op = "halfkay.Reboot"
	switch iface.Role {
	case board.RoleSerial:
		dev, ok := iface.Device.(platform.SerialDevice)
		if !ok {
			return tycore.New(op, tycore.CodeUnsupported)
		}
		if err := dev.SetConfig(platform.SerialConfig{BaudRate: RebootBaud}); err != nil {
			return tycore.Wrap(op, tycore.CodeIO, err)
		}
		_ = dev.SetConfig(platform.SerialConfig{BaudRate: DefaultBaud})
		return nil

	case board.RoleSeremu:
		dev, ok := iface.Device.(platform.HIDDevice)
		if !ok {
			return tycore.New(op, tycore.CodeUnsupported)
		}
		payload := seremuRebootPayload
		if _, err := dev.SendFeatureReport(payload[:]); err != nil {
			return tycore.Wrap(op, tycore.CodeIO, err)
		}
		return nil

	default:
		return tycore.New(op, tycore.CodeUnsupported)
	}
}
