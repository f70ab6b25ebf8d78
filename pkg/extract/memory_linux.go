//go:build linux

package extract

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// detectSystemMemory reads total and available bytes from /proc/meminfo.
// Kernels without MemAvailable get MemFree+Buffers+Cached instead, and
// sysinfo(2) is used when procfs is not mounted.
func detectSystemMemory() (total, available int64) {
	file, err := os.Open("/proc/meminfo")
	if err != nil {
		return sysinfoMemory()
	}
	defer file.Close()

	fields := make(map[string]int64)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}
		kb, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			continue
		}
		fields[strings.TrimSuffix(parts[0], ":")] = kb * KB
	}

	total = fields["MemTotal"]
	available, ok := fields["MemAvailable"]
	if !ok {
		available = fields["MemFree"] + fields["Buffers"] + fields["Cached"]
	}
	return total, available
}

func sysinfoMemory() (total, available int64) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, 0
	}
	unit := uint64(info.Unit)
	total = int64(uint64(info.Totalram) * unit)
	available = int64((uint64(info.Freeram) + uint64(info.Bufferram)) * unit)
	return total, available
}
