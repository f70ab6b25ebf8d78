//go:build !darwin && !linux

package extract

// detectSystemMemory reports nothing so callers fall back to defaults.
func detectSystemMemory() (total, available int64) {
	return 0, 0
}
