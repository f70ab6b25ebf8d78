package formats

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies the layout of an input file.
type Format int

const (
	Fastq Format = iota
	FastqRich
	FastqMinimal
	Fasta
	Bam
	Cram
	Ubam
	Summary
)

var formatNames = [...]string{
	Fastq:        "fastq",
	FastqRich:    "fastq_rich",
	FastqMinimal: "fastq_minimal",
	Fasta:        "fasta",
	Bam:          "bam",
	Cram:         "cram",
	Ubam:         "ubam",
	Summary:      "summary",
}

func (f Format) String() string {
	if f.Valid() {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f >= 0 && int(f) < len(formatNames)
}

// Names lists every accepted format name.
func Names() []string {
	return append([]string(nil), formatNames[:]...)
}

// ParseFormat parses a format name such as "fastq" or "bam".
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range formatNames {
		if n == name {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("%w: format %q (expected one of %s)", ErrUnsupported, s, strings.Join(formatNames[:], ", "))
}

var compressionSuffixes = []string{".gz", ".bz2", ".xz", ".zst"}

// FromExtension guesses the format from a file name. Compression suffixes
// are ignored. Tab-separated or text files are only recognized as summary
// tables when their name contains "summary".
func FromExtension(path string) (Format, bool) {
	base := strings.ToLower(filepath.Base(path))
	for _, suffix := range compressionSuffixes {
		if strings.HasSuffix(base, suffix) {
			base = strings.TrimSuffix(base, suffix)
			break
		}
	}

	switch filepath.Ext(base) {
	case ".fastq", ".fq":
		return Fastq, true
	case ".fasta", ".fa", ".fas":
		return Fasta, true
	case ".bam", ".sam":
		return Bam, true
	case ".cram":
		return Cram, true
	case ".txt", ".tsv":
		if strings.Contains(base, "summary") {
			return Summary, true
		}
	}
	return 0, false
}

// SupportsParallel reports whether several files of this format may be
// normalized at the same time. Summary tables are loaded one at a time.
func (f Format) SupportsParallel() bool {
	return f != Summary
}

// Aligned reports whether records of this format carry alignment fields.
func (f Format) Aligned() bool {
	return f == Bam || f == Cram
}
