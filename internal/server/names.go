package server

import "fmt"

// namePool is the curated set of default identities handed out to a
// connection that doesn't supply its own name, per spec §4.7/§9.
var namePool = []string{
	"Bomber", "Ace", "Nova", "Blitz", "Ember", "Shrapnel", "Fuse", "Spark",
	"Cinder", "Volt", "Quake", "Ripple", "Crater", "Blaze", "Ash", "Flint",
}

// GenerateUniqueName returns the first pool entry for which isTaken
// reports false, falling back to a numeric suffix cycling through the
// pool ("Bomber1", "Ace1", ..., then "Bomber2", ...) when every bare entry
// is already in use.
// What must hold is the uniqueness contract, not the specific strategy
// (spec §9).
func GenerateUniqueName(isTaken func(string) bool) string {
	for _, base := range namePool {
		if !isTaken(base) {
			return base
		}
	}

	for suffix := 1; suffix < 100000; suffix++ {
		for _, base := range namePool {
			candidate := fmt.Sprintf("%s%d", base, suffix)
			if !isTaken(candidate) {
				return candidate
			}
		}
	}

	// Unreachable in practice: exhausting 16*100000 identities would mean
	// far more concurrent connections than this server admits.
	return fmt.Sprintf("Player%d", len(namePool))
}
