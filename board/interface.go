package board

import "github.com/halfkay-tools/tycore/platform"

// Interface is one USB endpoint-set discovered by the platform layer and
// accepted by a family's classifier (spec.md §3 "Interface record").
type Interface struct {
	Handle any // platform.Info.Handle; key into the monitor's interface table
	Info   platform.Info

	Role         Role
	Model        *Model
	Capabilities Capability
	Serial       uint64

	// Device is the opened I/O handle for this interface. It is nil until
	// the owning monitor opens it, and satisfies platform.HIDDevice or
	// platform.SerialDevice depending on Role.
	Device platform.Device
}

// NewInterface builds an Interface from a classification result plus the
// platform info that produced it.
func NewInterface(info platform.Info, res *ClassifyResult) *Interface {
	return &Interface{
		Handle:       info.Handle,
		Info:         info,
		Role:         res.Role,
		Model:        res.Model,
		Capabilities: res.Capabilities,
		Serial:       res.Serial,
	}
}
