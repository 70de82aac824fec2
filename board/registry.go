package board

import "github.com/halfkay-tools/tycore/platform"

// Registry is a table of supported families, tried in order (spec.md §3
// "Family descriptor" / §2 "Board family registry"). This module registers
// exactly one family, Teensy, but the registry itself does not assume that.
type Registry struct {
	families []*Family
}

// NewRegistry builds a registry trying families in the given order.
func NewRegistry(families ...*Family) *Registry {
	return &Registry{families: families}
}

// Classify tries every registered family's Classify function in order and
// returns the first one that accepts info. If none accepts, it returns
// (nil, nil, nil) — spec.md §4.1/§7 treats "not our device" as a soft,
// non-error outcome.
func (r *Registry) Classify(info platform.Info) (*Family, *ClassifyResult, error) {
	for _, f := range r.families {
		res, err := f.Classify(ClassifyInput{Info: info})
		if err != nil {
			return nil, nil, err
		}
		if res != nil {
			return f, res, nil
		}
	}
	return nil, nil, nil
}

// Families returns the registered families in try order.
func (r *Registry) Families() []*Family {
	return r.families
}
