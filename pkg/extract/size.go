package extract

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Byte size units.
const (
	KB = 1024
	MB = 1024 * KB
	GB = 1024 * MB
)

// SystemMemory holds system memory information in bytes.
type SystemMemory struct {
	Total     int64
	Available int64
}

// getSystemMemory falls back to 16GB total and 12GB available when the
// platform cannot report memory.
func getSystemMemory() SystemMemory {
	total, available := detectSystemMemory()
	if total == 0 {
		return SystemMemory{Total: 16 * GB, Available: 12 * GB}
	}
	return SystemMemory{Total: total, Available: available}
}

// ParseSize parses sizes such as "512K", "8G" or "1048576" into bytes.
func ParseSize(s string) (int64, error) {
	text := strings.ToUpper(strings.TrimSpace(s))
	text = strings.TrimSuffix(text, "B")

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(text, "K"):
		multiplier = KB
	case strings.HasSuffix(text, "M"):
		multiplier = MB
	case strings.HasSuffix(text, "G"):
		multiplier = GB
	}
	if multiplier > 1 {
		text = text[:len(text)-1]
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid size: %q", s)
	}
	return int64(value * float64(multiplier)), nil
}

// FormatSize renders bytes with the largest whole unit.
func FormatSize(bytes int64) string {
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	}
	return fmt.Sprintf("%d B", bytes)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
