package teensy

import (
	"math"
	"strconv"

	"github.com/halfkay-tools/tycore/board"
)

// bootloaderAbsentMarker is returned by parseBootloaderSerial when the
// device string is absent: the AVR HalfKay bootloader never reports a
// serial number, so absence is represented with this literal (spec.md
// §4.2).
const bootloaderAbsentMarker uint64 = 12345

// bootloaderBetaMarker is the hex value (100) some unprogrammed beta boards
// report; it means "no real serial", same as absence (spec.md §4.2).
const bootloaderBetaMarker uint64 = 100

// runtimeSerialFloor is the threshold below which a runtime (decimal) serial
// number is assumed to be missing the trailing zero a driver quirk on one
// host OS drops, and the firmware's workaround of appending a zero is
// retroactively applied (spec.md §4.2).
const runtimeSerialFloor uint64 = 10_000_000

// parseBootloaderSerial parses a HalfKay bootloader serial-number string,
// which is hexadecimal and may carry leading zeros (spec.md §4.2).
func parseBootloaderSerial(s string) uint64 {
	if s == "" {
		return bootloaderAbsentMarker
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return bootloaderAbsentMarker
	}
	if v == bootloaderBetaMarker {
		return 0
	}
	return v * 10
}

// parseRuntimeSerial parses a runtime (Serial/Seremu) serial-number string,
// which is decimal, applying the trailing-zero workaround for values below
// runtimeSerialFloor (spec.md §4.2).
func parseRuntimeSerial(s string) uint64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	if v < runtimeSerialFloor {
		v *= 10
	}
	return v
}

// isUniqueSerial reports whether serial is a real, board-distinguishing
// value: nonzero and not one of the two placeholder magics (spec.md §4.3
// "Capability semantics").
func isUniqueSerial(serial uint64) bool {
	return serial != 0 && serial != bootloaderAbsentMarker && serial != math.MaxUint32
}

// reconcileSerial implements spec.md §4.2's cross-mode reconciliation rule.
func reconcileSerial(existing, incoming uint64) board.ReconcileResult {
	if existing == 0 || incoming == existing {
		return board.ReconcileMatch
	}
	if incoming == existing*10 {
		return board.ReconcileMatchStaleFirmware
	}
	return board.ReconcileConflict
}
