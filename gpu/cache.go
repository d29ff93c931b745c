package gpu

import "time"

// binaryIsFresh reports whether a cached kernel binary can be used in place
// of recompiling its source: the binary must exist and its mtime must be at
// or after the source's.
func binaryIsFresh(sourceModTime, binaryModTime time.Time, binaryExists bool) bool {
	if !binaryExists {
		return false
	}
	return !binaryModTime.Before(sourceModTime)
}
