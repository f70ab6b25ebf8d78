package metrics

import "time"

// Read is one normalized read or alignment observation.
// Nil pointer fields mean the source format does not report the attribute.
type Read struct {
	ID     *string `json:"read_id,omitempty"`
	Length uint32  `json:"length"`

	Quality *float64 `json:"quality,omitempty"`

	// Alignment-derived fields
	AlignedLength   *uint32  `json:"aligned_length,omitempty"`
	AlignedQuality  *float64 `json:"aligned_quality,omitempty"`
	MappingQuality  *uint8   `json:"mapping_quality,omitempty"`
	PercentIdentity *float64 `json:"percent_identity,omitempty"`

	// Sequencing run metadata
	ChannelID *uint16    `json:"channel_id,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	Duration  *float64   `json:"duration,omitempty"`
	Barcode   *string    `json:"barcode,omitempty"`
	RunID     *string    `json:"run_id,omitempty"`

	// Dataset is set only when combining with dataset tracking
	Dataset *string `json:"dataset,omitempty"`
}

// Alignment groups the alignment-derived fields of a Read.
type Alignment struct {
	AlignedLength   uint32
	AlignedQuality  *float64
	MappingQuality  *uint8
	PercentIdentity *float64
}

// RunMetadata groups the sequencing run fields of a Read.
type RunMetadata struct {
	ChannelID *uint16
	StartTime *time.Time
	Duration  *float64
	RunID     *string
}

// NewRead creates a Read with an optional identifier and a length.
func NewRead(id *string, length uint32) Read {
	return Read{ID: id, Length: length}
}

// WithQuality returns a copy of r carrying the given average quality.
func (r Read) WithQuality(q float64) Read {
	r.Quality = &q
	return r
}

// WithAlignment returns a copy of r carrying alignment fields.
func (r Read) WithAlignment(a Alignment) Read {
	r.AlignedLength = &a.AlignedLength
	r.AlignedQuality = a.AlignedQuality
	r.MappingQuality = a.MappingQuality
	r.PercentIdentity = a.PercentIdentity
	return r
}

// WithRunMetadata returns a copy of r carrying run metadata.
func (r Read) WithRunMetadata(m RunMetadata) Read {
	r.ChannelID = m.ChannelID
	r.StartTime = m.StartTime
	r.Duration = m.Duration
	r.RunID = m.RunID
	return r
}

// WithBarcode returns a copy of r carrying a barcode assignment.
func (r Read) WithBarcode(barcode string) Read {
	r.Barcode = &barcode
	return r
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

// PercentIdentity converts a match count over aligned bases to a percentage.
// It returns 0 when nothing is aligned.
func PercentIdentity(matches, aligned uint32) float64 {
	if aligned == 0 {
		return 0
	}
	return float64(matches) / float64(aligned) * 100
}
