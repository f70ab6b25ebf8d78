//go:build linux

package extract

import (
	"bufio"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// detectOptimalWorkers returns the number of performance cores on hybrid
// Intel parts, or all logical CPUs.
func detectOptimalWorkers() int {
	if perf := countPerfCores("/proc/cpuinfo"); perf > 0 {
		return perf
	}
	return runtime.NumCPU()
}

// countPerfCores groups logical CPUs by physical core and counts the cores
// clocked within 10% of the mean. It returns 0 when the machine looks
// homogeneous or cpuinfo cannot be read.
func countPerfCores(cpuinfo string) int {
	file, err := os.Open(cpuinfo)
	if err != nil {
		return 0
	}
	defer file.Close()

	coreFreq := make(map[int]float64)
	coreID, freq := -1, 0.0
	flush := func() {
		if coreID >= 0 && freq > coreFreq[coreID] {
			coreFreq[coreID] = freq
		}
		coreID, freq = -1, 0
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "processor":
			flush()
		case "core id":
			if id, err := strconv.Atoi(value); err == nil {
				coreID = id
			}
		case "cpu MHz":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				freq = f
			}
		}
	}
	flush()

	if len(coreFreq) <= 2 {
		return 0
	}
	var sum float64
	for _, f := range coreFreq {
		sum += f
	}
	threshold := sum / float64(len(coreFreq)) * 0.9

	perf := 0
	for _, f := range coreFreq {
		if f >= threshold {
			perf++
		}
	}
	if perf == len(coreFreq) {
		return 0
	}
	return perf
}
