package formats

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/bgzf"
	"github.com/biogo/hts/sam"

	"github.com/scttfrdmn/readstats-go/pkg/metrics"
	"github.com/scttfrdmn/readstats-go/pkg/quality"
)

// PlaceholderIdentity is reported as percent identity for every aligned
// record. Identity is not derived from NM/MD tags.
const PlaceholderIdentity = 95.0

// missingMapQ is the SAM value for an unavailable mapping quality.
const missingMapQ = 255

var (
	gzipMagic = []byte{0x1f, 0x8b}
	cramMagic = []byte("CRAM")
)

// RecordSource yields alignment records until io.EOF.
// *bam.Reader and *sam.Reader both satisfy it.
type RecordSource interface {
	Read() (*sam.Record, error)
}

// normalizeBamFile opens a BAM file, or a SAM text file when the input is
// not BGZF compressed, and normalizes its records.
func normalizeBamFile(ctx context.Context, path string, opts Options, aligned bool) ([]metrics.Read, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}
	if len(head) == 0 {
		return []metrics.Read{}, nil
	}

	var src RecordSource
	if bytes.Equal(head, gzipMagic) {
		if ok, err := bgzf.HasEOF(f); err == nil && !ok {
			opts.logger().Warn("BAM file has no EOF marker, it may be truncated", "path", path)
		}
		bamReader, err := bam.NewReader(br, 1)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create BAM reader: %v", ErrMalformedRecord, err)
		}
		defer bamReader.Close()
		src = bamReader
	} else {
		samReader, err := sam.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create SAM reader: %v", ErrMalformedRecord, err)
		}
		src = samReader
	}

	if aligned {
		return normalizeAligned(ctx, src, opts, path)
	}
	return normalizeUnaligned(ctx, src, opts, path)
}

// normalizeAligned drops unmapped records, and supplementary records unless
// opts.KeepSupplementary is set, and fills the alignment fields.
func normalizeAligned(ctx context.Context, src RecordSource, opts Options, path string) ([]metrics.Read, error) {
	prog := newProgress(ctx, opts, path)
	var reads []metrics.Read
	for {
		record, err := src.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: failed to read alignment record: %v", ErrMalformedRecord, err)
		}
		if err := prog.tick(); err != nil {
			return nil, err
		}

		if record.Flags&sam.Unmapped != 0 {
			continue
		}
		if record.Flags&sam.Supplementary != 0 && !opts.KeepSupplementary {
			continue
		}
		reads = append(reads, alignedRead(record))
	}
	if reads == nil {
		reads = []metrics.Read{}
	}
	return reads, nil
}

// normalizeUnaligned keeps every record and reports only identifier,
// length and quality.
func normalizeUnaligned(ctx context.Context, src RecordSource, opts Options, path string) ([]metrics.Read, error) {
	prog := newProgress(ctx, opts, path)
	reads := []metrics.Read{}
	for {
		record, err := src.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: failed to read record: %v", ErrMalformedRecord, err)
		}
		if err := prog.tick(); err != nil {
			return nil, err
		}
		reads = append(reads, baseRead(record))
	}
	return reads, nil
}

func baseRead(record *sam.Record) metrics.Read {
	read := metrics.NewRead(metrics.Ptr(record.Name), uint32(record.Seq.Length))
	if q, ok := recordQuality(record.Qual); ok {
		read = read.WithQuality(q)
	}
	return read
}

func alignedRead(record *sam.Record) metrics.Read {
	alignment := metrics.Alignment{
		AlignedLength:   alignedLength(record.Cigar),
		PercentIdentity: metrics.Ptr(PlaceholderIdentity),
	}
	if record.MapQ != missingMapQ {
		alignment.MappingQuality = metrics.Ptr(record.MapQ)
	}

	lead, trail := softClips(record.Cigar)
	if lead+trail < len(record.Qual) {
		if q, ok := recordQuality(record.Qual[lead : len(record.Qual)-trail]); ok {
			alignment.AlignedQuality = &q
		}
	}

	return baseRead(record).WithAlignment(alignment)
}

// recordQuality averages raw Phred scores. Absent or all-unknown (0xff)
// quality arrays have no average.
func recordQuality(qual []byte) (float64, bool) {
	if quality.AllUnknown(qual) {
		return 0, false
	}
	return quality.Average(qual)
}

// alignedLength counts read bases consumed by M, I, = and X operations.
func alignedLength(cigar sam.Cigar) uint32 {
	var n int
	for _, op := range cigar {
		switch op.Type() {
		case sam.CigarMatch, sam.CigarInsertion, sam.CigarEqual, sam.CigarMismatch:
			n += op.Len()
		}
	}
	return uint32(n)
}

// softClips returns the number of soft clipped bases at each end of the
// read. Hard clips are skipped since they consume no stored bases.
func softClips(cigar sam.Cigar) (lead, trail int) {
	for _, op := range cigar {
		t := op.Type()
		if t == sam.CigarHardClipped {
			continue
		}
		if t != sam.CigarSoftClipped {
			break
		}
		lead += op.Len()
	}
	for i := len(cigar) - 1; i >= 0; i-- {
		t := cigar[i].Type()
		if t == sam.CigarHardClipped {
			continue
		}
		if t != sam.CigarSoftClipped {
			break
		}
		trail += cigar[i].Len()
	}
	// an all-clipped CIGAR is counted once
	if lead+trail > 0 && onlyClips(cigar) {
		trail = 0
	}
	return lead, trail
}

func onlyClips(cigar sam.Cigar) bool {
	for _, op := range cigar {
		if t := op.Type(); t != sam.CigarSoftClipped && t != sam.CigarHardClipped {
			return false
		}
	}
	return true
}

// normalizeCram checks the CRAM container signature. biogo/hts/cram only
// reads container and block structure, so a valid container is reported
// as unsupported.
func normalizeCram(path string) ([]metrics.Read, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	magic := make([]byte, len(cramMagic))
	if _, err := io.ReadFull(f, magic); err != nil || !bytes.Equal(magic, cramMagic) {
		return nil, fmt.Errorf("%w: not a CRAM container", ErrMalformedRecord)
	}
	return nil, fmt.Errorf("%w: CRAM record decoding is not implemented by github.com/biogo/hts (its cram package reads containers only); convert to BAM first", ErrUnsupported)
}
