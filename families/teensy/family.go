package teensy

import "github.com/halfkay-tools/tycore/board"

// Family is the Teensy board.Family descriptor (spec.md §2, §3).
var Family = board.RegisterFamily(&board.Family{
	Name:            "Teensy",
	Models:          allModels(),
	Classify:        classify,
	ReconcileSerial: reconcileSerial,
	ScanFirmware:    scanFirmware,
})
