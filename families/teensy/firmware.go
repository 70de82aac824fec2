package teensy

import (
	"github.com/halfkay-tools/tycore/board"
	"github.com/halfkay-tools/tycore/firmware"
)

// signatures are the 8-byte reset-vector/flash-config magics distinguishing
// Teensy models in a compiled firmware image (spec.md §4.6). The ARM
// Kinetis parts (3.5/3.6) carry a flash-configuration-field pattern that is
// unambiguous enough to outrank the AVR/shared-MCU patterns below it, which
// is why they carry priority 2.
var signatures = []firmware.Signature{
	{Magic: 0x0C9476010C947A01, Model: ModelTeensy, Priority: 0},
	{Magic: 0x0C9480010C947601, Model: ModelTeensyPP10, Priority: 0},
	{Magic: 0x0C946A010C949401, Model: ModelTeensy20, Priority: 0},
	{Magic: 0x0C94CE010C949401, Model: ModelTeensyPP20, Priority: 0},
	{Magic: 0x3080044082020000, Model: ModelTeensy30, Priority: 0},
	{Magic: 0x3080044082_3F0400, Model: ModelTeensy31, Priority: 0},
	{Magic: 0x3080044082_3F0400, Model: ModelTeensy32, Priority: 0},
	{Magic: 0x3080044082_450400, Model: ModelTeensyLC, Priority: 0},
	{Magic: 0x0020_08E0_0300_0085, Model: ModelTeensy35, Priority: 2},
	{Magic: 0x0020_10E0_0300_0085, Model: ModelTeensy36, Priority: 2},
}

// scanFirmware wraps the generic firmware.Scan engine, translating its
// []any result back into []*board.Model.
func scanFirmware(image []byte, maxGuesses int) []*board.Model {
	raw := firmware.Scan(image, signatures, maxGuesses)
	out := make([]*board.Model, len(raw))
	for i, m := range raw {
		out[i] = m.(*board.Model)
	}
	return out
}
