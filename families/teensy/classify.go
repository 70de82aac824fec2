package teensy

import (
	"github.com/halfkay-tools/tycore/board"
	"github.com/halfkay-tools/tycore/platform"
)

// classify implements the Teensy decision table from spec.md §4.1.
func classify(in board.ClassifyInput) (*board.ClassifyResult, error) {
	info := in.Info
	if info.VendorID != VendorID {
		return nil, nil
	}

	switch info.Kind {
	case platform.KindCDCSerial:
		return classifySerial(info)
	case platform.KindHID:
		return classifyHID(info)
	default:
		return nil, nil
	}
}

func classifySerial(info platform.Info) (*board.ClassifyResult, error) {
	if !serialProductIDs[info.ProductID] {
		return nil, nil
	}
	serial := parseRuntimeSerial(info.SerialString)
	caps := board.CapRun | board.CapSerial | board.CapReboot
	if isUniqueSerial(serial) {
		caps |= board.CapUnique
	}
	return &board.ClassifyResult{
		Role:         board.RoleSerial,
		Model:        board.Unknown,
		Capabilities: caps,
		Serial:       serial,
	}, nil
}

func classifyHID(info platform.Info) (*board.ClassifyResult, error) {
	switch info.HIDUsagePage {
	case UsagePageHalfKay:
		return classifyHalfKay(info)
	case UsagePageRawHID:
		return &board.ClassifyResult{
			Role:         board.RoleRawHID,
			Model:        board.Unknown,
			Capabilities: board.CapRun,
		}, nil
	case UsagePageSeremu:
		serial := parseRuntimeSerial(info.SerialString)
		caps := board.CapRun | board.CapSerial | board.CapReboot
		if isUniqueSerial(serial) {
			caps |= board.CapUnique
		}
		return &board.ClassifyResult{
			Role:         board.RoleSeremu,
			Model:        board.Unknown,
			Capabilities: caps,
			Serial:       serial,
		}, nil
	default:
		return nil, nil
	}
}

func classifyHalfKay(info platform.Info) (*board.ClassifyResult, error) {
	model := modelByUsageID(info.HIDUsage)
	serial := parseBootloaderSerial(info.SerialString)

	caps := board.CapUpload
	if !model.IsUnknown() {
		caps |= board.CapReset
	}
	if isUniqueSerial(serial) {
		caps |= board.CapUnique
	}
	return &board.ClassifyResult{
		Role:         board.RoleHalfKay,
		Model:        model,
		Capabilities: caps,
		Serial:       serial,
	}, nil
}
