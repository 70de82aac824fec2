// Package firmware implements the generic signature-based model scanner
// (spec.md §2 component 7, §4.6). It knows nothing about any particular
// board family; each family supplies its own signature table.
package firmware

import "encoding/binary"

// Signature is one candidate-model marker: an 8-byte magic pattern, the
// model it identifies, and a priority used to arbitrate between
// simultaneously-matching signatures (spec.md §4.6).
type Signature struct {
	Magic    uint64
	Model    any // *board.Model, kept generic to avoid an import cycle
	Priority int
}

// Scan slides an 8-byte window across image, matching it against sigs, and
// returns 0..maxGuesses candidate models per spec.md §4.6's priority
// arbitration:
//
//   - a match with higher priority than the current best replaces the
//     candidate list outright;
//   - a match at the current best priority is appended, up to maxGuesses;
//   - scanning continues across the whole image even once the candidate
//     list is full, because a later higher-priority hit must still be able
//     to replace it.
//
// Images shorter than 8 bytes always yield an empty list.
func Scan(image []byte, sigs []Signature, maxGuesses int) []any {
	if len(image) < 8 || maxGuesses <= 0 {
		return nil
	}

	bestPriority := -1
	var candidates []any

	for i := 0; i+8 <= len(image); i++ {
		window := binary.BigEndian.Uint64(image[i : i+8])
		for _, sig := range sigs {
			if sig.Magic != window {
				continue
			}
			switch {
			case sig.Priority > bestPriority:
				bestPriority = sig.Priority
				candidates = append(candidates[:0], sig.Model)
			case sig.Priority == bestPriority:
				if !containsModel(candidates, sig.Model) && len(candidates) < maxGuesses {
					candidates = append(candidates, sig.Model)
				}
			}
		}
	}
	return candidates
}

func containsModel(candidates []any, m any) bool {
	for _, c := range candidates {
		if c == m {
			return true
		}
	}
	return false
}
