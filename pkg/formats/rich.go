package formats

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/scttfrdmn/readstats-go/pkg/metrics"
)

// parseRichMetadata reads key=value pairs from a FASTQ header description.
// Unknown keys and unparsable values are skipped. ok is false when no
// recognized key was parsed.
func parseRichMetadata(desc string) (meta metrics.RunMetadata, ok bool) {
	for _, field := range strings.Fields(desc) {
		key, value, found := strings.Cut(field, "=")
		if !found {
			continue
		}
		switch key {
		case "ch":
			if ch, err := strconv.ParseUint(value, 10, 16); err == nil {
				meta.ChannelID = metrics.Ptr(uint16(ch))
			}
		case "start_time":
			if ts, ok := parseTimestamp(value); ok {
				meta.StartTime = &ts
			}
		case "duration":
			if d, ok := parseFinite(value); ok {
				meta.Duration = &d
			}
		case "runid":
			if value != "" {
				meta.RunID = metrics.Ptr(value)
			}
		}
	}

	ok = meta.ChannelID != nil || meta.StartTime != nil || meta.Duration != nil || meta.RunID != nil
	return meta, ok
}

// parseTimestamp accepts RFC 3339 timestamps or epoch seconds with an
// optional fractional part. Results are in UTC.
func parseTimestamp(value string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), true
	}
	secs, ok := parseFinite(value)
	if !ok {
		return time.Time{}, false
	}
	return epochTime(secs), true
}

// parseFinite parses a decimal number, rejecting NaN and infinities which
// strconv accepts.
func parseFinite(value string) (float64, bool) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func epochTime(secs float64) time.Time {
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}
