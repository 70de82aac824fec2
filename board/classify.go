package board

import "github.com/halfkay-tools/tycore/platform"

// Role names an interface's function within a board (spec.md §4.1).
type Role string

const (
	RoleHalfKay Role = "HalfKay"
	RoleRawHID  Role = "RawHID"
	RoleSeremu  Role = "Seremu"
	RoleSerial  Role = "Serial"
)

// ClassifyInput is what a family's Classify function receives: the raw
// platform device info plus nothing else — classification must be a pure
// function of what the platform layer can report.
type ClassifyInput struct {
	Info platform.Info
}

// ClassifyResult is what a family's Classify function produces for an
// accepted interface (spec.md §4.1, §3 "Interface record ... Classification
// outputs").
type ClassifyResult struct {
	Role         Role
	Model        *Model // Unknown if the model could not be identified
	Capabilities Capability
	Serial       uint64 // parsed per spec.md §4.2; 0 if not applicable/absent
}
