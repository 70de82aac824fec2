package board

// Model is an immutable, statically-defined board variant descriptor
// (spec.md §3 "Model descriptor").
type Model struct {
	Name           string
	MCU            string
	CodeSize       uint32 // 0 for the unknown placeholder; never used for upload
	HalfKayVersion int    // 1, 2, or 3
	BlockSize      uint32
	UsageID        uint16 // HID usage id distinguishing models in bootloader mode
	Experimental   bool

	Family *Family // set once by RegisterFamily; nil until then
}

// IsUnknown reports whether m is the placeholder model used when an
// interface's model cannot be identified.
func (m *Model) IsUnknown() bool {
	return m == Unknown
}

// Unknown is the placeholder model carried by interfaces whose model could
// not be identified. It is never used for upload.
var Unknown = &Model{Name: "unknown"}

// ReconcileResult is the outcome of comparing an incoming interface's parsed
// serial number against a board's already-recorded serial (spec.md §4.2).
type ReconcileResult int

const (
	// ReconcileMatch means the interface belongs to the board as-is.
	ReconcileMatch ReconcileResult = iota
	// ReconcileMatchStaleFirmware means the interface belongs to the board,
	// but its runtime serial is 10x the board's recorded (bootloader)
	// serial — the board's firmware predates the decimal-serial
	// workaround (spec.md §4.2). Callers should warn, not reject.
	ReconcileMatchStaleFirmware
	// ReconcileConflict means the serials genuinely disagree: this is a
	// different physical board occupying the same USB location.
	ReconcileConflict
)

// Family is an immutable, statically-defined product line sharing
// identification, upload, and firmware-scan logic (spec.md §3 "Family
// descriptor").
type Family struct {
	Name   string
	Models []*Model

	// Classify maps one platform-reported interface to a ClassifyResult.
	// It returns (nil, nil) when the interface is not a member of this
	// family (spec.md §7: NOT_FOUND is soft during classification).
	Classify func(info ClassifyInput) (*ClassifyResult, error)

	// ReconcileSerial compares a newly-observed interface serial against a
	// board's already-recorded serial (spec.md §4.2's cross-mode
	// reconciliation rule). existing == 0 always yields ReconcileMatch.
	ReconcileSerial func(existing, incoming uint64) ReconcileResult

	// ScanFirmware scans a firmware image for this family's signatures
	// (spec.md §4.6), returning 0..maxGuesses candidate models.
	ScanFirmware func(image []byte, maxGuesses int) []*Model
}

// RegisterFamily sets the back-pointer from every model in f to f. Call once
// per family at program initialization (package families/teensy does this in
// its package-level Family variable), mirroring the "statically defined" nature of spec.md's
// registry.
func RegisterFamily(f *Family) *Family {
	for _, m := range f.Models {
		m.Family = f
	}
	return f
}
