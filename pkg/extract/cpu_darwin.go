//go:build darwin

package extract

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// detectOptimalWorkers prefers the performance cluster on Apple Silicon.
func detectOptimalWorkers() int {
	for _, name := range []string{"hw.perflevel0.physicalcpu", "hw.physicalcpu"} {
		if n, err := unix.SysctlUint32(name); err == nil && n > 0 {
			return int(n)
		}
	}
	return runtime.NumCPU()
}
