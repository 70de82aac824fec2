// Package teensy implements the one board family this module ships:
// Teensy. It supplies the classify/reconcile/scan-firmware functions the
// board.Family descriptor needs (spec.md §4.1–§4.2, §4.6).
package teensy

import "github.com/halfkay-tools/tycore/board"

// VendorID is the USB vendor id shared by every Teensy board (spec.md §6).
const VendorID = 0x16C0

// HalfKay HID usage pages (spec.md §6).
const (
	UsagePageHalfKay uint16 = 0xFF9C
	UsagePageRawHID  uint16 = 0xFFAB
	UsagePageSeremu  uint16 = 0xFFC9
)

// CDC serial product ids recognized as Teensy boards (spec.md §4.1, §6).
var serialProductIDs = map[uint16]bool{
	0x478: true,
	0x482: true,
	0x483: true,
	0x484: true,
	0x485: true,
	0x486: true,
	0x487: true,
	0x488: true,
}

// Models, keyed by their bootloader HID usage id (spec.md §6: "HID usage
// IDs per model: 0x1A..0x23 mapped as in the model table"). Flash sizes and
// MCU names are the well-known values for each board; Teensy 3.6 is flagged
// experimental since it was the newest board at the time this loader's
// model table was last extended.
var (
	ModelTeensy       = &board.Model{Name: "Teensy", MCU: "at90usb162", CodeSize: 15872, HalfKayVersion: 1, BlockSize: 128, UsageID: 0x1A}
	ModelTeensyPP10   = &board.Model{Name: "Teensy++ 1.0", MCU: "at90usb646", CodeSize: 64512, HalfKayVersion: 1, BlockSize: 256, UsageID: 0x1B}
	ModelTeensy20     = &board.Model{Name: "Teensy 2.0", MCU: "atmega32u4", CodeSize: 32256, HalfKayVersion: 1, BlockSize: 128, UsageID: 0x1C}
	ModelTeensy30     = &board.Model{Name: "Teensy 3.0", MCU: "mk20dx128", CodeSize: 131072, HalfKayVersion: 3, BlockSize: 1024, UsageID: 0x1D}
	ModelTeensyPP20   = &board.Model{Name: "Teensy++ 2.0", MCU: "at90usb1286", CodeSize: 130048, HalfKayVersion: 2, BlockSize: 256, UsageID: 0x1E}
	ModelTeensy31     = &board.Model{Name: "Teensy 3.1", MCU: "mk20dx256", CodeSize: 262144, HalfKayVersion: 3, BlockSize: 1024, UsageID: 0x1F}
	ModelTeensy32     = &board.Model{Name: "Teensy 3.2", MCU: "mk20dx256", CodeSize: 262144, HalfKayVersion: 3, BlockSize: 1024, UsageID: 0x20}
	ModelTeensyLC     = &board.Model{Name: "Teensy LC", MCU: "mkl26z64", CodeSize: 63488, HalfKayVersion: 3, BlockSize: 512, UsageID: 0x21}
	ModelTeensy35     = &board.Model{Name: "Teensy 3.5", MCU: "mk64fx512", CodeSize: 524288, HalfKayVersion: 3, BlockSize: 1024, UsageID: 0x22}
	ModelTeensy36     = &board.Model{Name: "Teensy 3.6", MCU: "mk66fx1m0", CodeSize: 1048576, HalfKayVersion: 3, BlockSize: 1024, UsageID: 0x23, Experimental: true}
	modelsByUsage     = buildUsageIndex()
)

func allModels() []*board.Model {
	return []*board.Model{
		ModelTeensy, ModelTeensyPP10, ModelTeensy20, ModelTeensy30, ModelTeensyPP20,
		ModelTeensy31, ModelTeensy32, ModelTeensyLC, ModelTeensy35, ModelTeensy36,
	}
}

func buildUsageIndex() map[uint16]*board.Model {
	idx := make(map[uint16]*board.Model, len(allModels()))
	for _, m := range allModels() {
		idx[m.UsageID] = m
	}
	return idx
}

// modelByUsageID performs the linear search spec.md §4.1 describes ("linear
// search of family model table for matching usage_id; on miss, retain
// unknown"). It is a map lookup here — same contract, no family model table
// is large enough for the distinction to matter — but exposed as a function
// so families/teensy reads as one search, not an incidental map.
func modelByUsageID(usage uint16) *board.Model {
	if m, ok := modelsByUsage[usage]; ok {
		return m
	}
	return board.Unknown
}
