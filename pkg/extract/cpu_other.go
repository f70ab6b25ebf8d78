//go:build !darwin && !linux

package extract

import "runtime"

func detectOptimalWorkers() int {
	return runtime.NumCPU()
}
