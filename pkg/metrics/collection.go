package metrics

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnsupportedPolicy is returned for an unknown combine policy name.
var ErrUnsupportedPolicy = errors.New("unsupported combine policy")

// CombinePolicy selects how per-file collections are merged.
type CombinePolicy int

const (
	// Simple concatenates reads in file order.
	Simple CombinePolicy = iota
	// Track additionally labels every read with its source dataset.
	Track
)

func (p CombinePolicy) String() string {
	switch p {
	case Simple:
		return "simple"
	case Track:
		return "track"
	}
	return fmt.Sprintf("CombinePolicy(%d)", int(p))
}

// ParseCombinePolicy parses "simple" or "track".
func ParseCombinePolicy(s string) (CombinePolicy, error) {
	switch s {
	case "simple":
		return Simple, nil
	case "track":
		return Track, nil
	}
	return Simple, fmt.Errorf("%w: %q (expected simple or track)", ErrUnsupportedPolicy, s)
}

// Collection is an ordered set of reads with the Summary derived from them.
// Collections are never modified after construction; every transformation
// returns a new Collection with a freshly computed Summary.
type Collection struct {
	Reads   []Read  `json:"reads"`
	Summary Summary `json:"summary"`
}

// NewCollection takes ownership of reads and summarizes them.
func NewCollection(reads []Read) *Collection {
	return &Collection{
		Reads:   reads,
		Summary: Summarize(reads),
	}
}

// Combine merges collections in order under the given policy. With Track,
// reads of the i-th collection are labelled names[i], or dataset_<i> when no
// usable name is given. The input collections are left untouched.
func Combine(collections []*Collection, policy CombinePolicy, names []string) *Collection {
	total := 0
	for _, c := range collections {
		total += len(c.Reads)
	}

	reads := make([]Read, 0, total)
	for i, c := range collections {
		if policy != Track {
			reads = append(reads, c.Reads...)
			continue
		}
		label := DatasetLabel(i, names)
		for _, r := range c.Reads {
			r.Dataset = &label
			reads = append(reads, r)
		}
	}

	return NewCollection(reads)
}

// DatasetLabel returns the dataset name for the i-th input.
func DatasetLabel(i int, names []string) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}
	return fmt.Sprintf("dataset_%d", i)
}

// Filter returns a new collection with the reads that satisfy keep.
func (c *Collection) Filter(keep func(*Read) bool) *Collection {
	var reads []Read
	for i := range c.Reads {
		if keep(&c.Reads[i]) {
			reads = append(reads, c.Reads[i])
		}
	}
	return NewCollection(reads)
}

// FilterByLength keeps reads with Length >= min.
func (c *Collection) FilterByLength(min uint32) *Collection {
	return c.Filter(func(r *Read) bool { return r.Length >= min })
}

// FilterByQuality keeps reads whose quality is reported and >= min.
func (c *Collection) FilterByQuality(min float64) *Collection {
	return c.Filter(func(r *Read) bool { return r.Quality != nil && *r.Quality >= min })
}

// AboveLengthPercentile keeps reads at least as long as the length found at
// the given percentile rank (0-100) of the sorted read lengths.
func (c *Collection) AboveLengthPercentile(p float64) *Collection {
	if len(c.Reads) == 0 {
		return NewCollection(nil)
	}
	lengths := make([]uint32, len(c.Reads))
	for i := range c.Reads {
		lengths[i] = c.Reads[i].Length
	}
	sort.Slice(lengths, func(i, j int) bool { return lengths[i] < lengths[j] })

	index := int(p / 100 * float64(len(lengths)-1))
	if index < 0 {
		index = 0
	}
	if index >= len(lengths) {
		index = len(lengths) - 1
	}
	return c.FilterByLength(lengths[index])
}

// ForDataset keeps the reads labelled with the given dataset name.
func (c *Collection) ForDataset(name string) *Collection {
	return c.Filter(func(r *Read) bool { return r.Dataset != nil && *r.Dataset == name })
}

// DatasetNames returns the sorted, distinct dataset labels of the reads.
func (c *Collection) DatasetNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for i := range c.Reads {
		d := c.Reads[i].Dataset
		if d == nil {
			continue
		}
		if _, ok := seen[*d]; ok {
			continue
		}
		seen[*d] = struct{}{}
		names = append(names, *d)
	}
	sort.Strings(names)
	return names
}
