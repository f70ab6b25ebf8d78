package formats

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceSource replays records from memory.
type sliceSource struct {
	records []*sam.Record
	err     error
}

func (s *sliceSource) Read() (*sam.Record, error) {
	if len(s.records) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	r := s.records[0]
	s.records = s.records[1:]
	return r, nil
}

func testReference(t *testing.T) (*sam.Header, *sam.Reference) {
	t.Helper()
	ref, err := sam.NewReference("chr1", "", "", 100000, nil, nil)
	require.NoError(t, err)
	header, err := sam.NewHeader(nil, []*sam.Reference{ref})
	require.NoError(t, err)
	return header, ref
}

func uniform(n int, q byte) []byte {
	return bytes.Repeat([]byte{q}, n)
}

func newRecord(t *testing.T, ref *sam.Reference, name string, flags sam.Flags, mapQ byte, cigar []sam.CigarOp, qual []byte) *sam.Record {
	t.Helper()
	pos := 100
	if ref == nil {
		pos = -1
	}
	rec, err := sam.NewRecord(name, ref, nil, pos, -1, 0, mapQ, cigar, bytes.Repeat([]byte("A"), len(qual)), qual, nil)
	require.NoError(t, err)
	rec.Flags = flags
	return rec
}

func op(t sam.CigarOpType, n int) sam.CigarOp {
	return sam.NewCigarOp(t, n)
}

func writeBam(t *testing.T, header *sam.Header, records ...*sam.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aln.bam")
	f, err := os.Create(path)
	require.NoError(t, err)
	w, err := bam.NewWriter(f, header, 1)
	require.NoError(t, err)
	for _, r := range records {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestNormalizeBam(t *testing.T) {
	header, ref := testReference(t)
	mapped := newRecord(t, ref, "mapped", 0, 60,
		[]sam.CigarOp{op(sam.CigarSoftClipped, 2), op(sam.CigarMatch, 6), op(sam.CigarInsertion, 1), op(sam.CigarDeletion, 3), op(sam.CigarEqual, 1)},
		append(uniform(2, 3), uniform(8, 30)...))
	unmapped := newRecord(t, nil, "unmapped", sam.Unmapped, 0, nil, uniform(5, 20))
	supplementary := newRecord(t, ref, "supp", sam.Supplementary, 255, []sam.CigarOp{op(sam.CigarMatch, 4)}, uniform(4, 0xff))

	path := writeBam(t, header, mapped, unmapped, supplementary)

	reads, err := Normalize(context.Background(), path, Bam, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, reads, 2)

	r := reads[0]
	assert.Equal(t, "mapped", *r.ID)
	assert.Equal(t, uint32(10), r.Length)
	require.NotNil(t, r.AlignedLength)
	assert.Equal(t, uint32(8), *r.AlignedLength)
	require.NotNil(t, r.MappingQuality)
	assert.Equal(t, uint8(60), *r.MappingQuality)
	require.NotNil(t, r.AlignedQuality)
	assert.InDelta(t, 30.0, *r.AlignedQuality, 1e-9)
	require.NotNil(t, r.Quality)
	assert.Less(t, *r.Quality, 30.0)
	assert.Equal(t, PlaceholderIdentity, *r.PercentIdentity)

	s := reads[1]
	assert.Equal(t, "supp", *s.ID)
	assert.Nil(t, s.MappingQuality, "MAPQ 255 is absent")
	assert.Nil(t, s.Quality, "all 0xff quality is absent")
	assert.Nil(t, s.AlignedQuality)
	assert.Equal(t, uint32(4), *s.AlignedLength)
}

func TestNormalizeBamDropsSupplementary(t *testing.T) {
	header, ref := testReference(t)
	primary := newRecord(t, ref, "primary", 0, 50, []sam.CigarOp{op(sam.CigarMatch, 4)}, uniform(4, 20))
	supplementary := newRecord(t, ref, "supp", sam.Supplementary, 50, []sam.CigarOp{op(sam.CigarMatch, 4)}, uniform(4, 20))
	path := writeBam(t, header, primary, supplementary)

	opts := DefaultOptions()
	opts.KeepSupplementary = false
	reads, err := Normalize(context.Background(), path, Bam, opts)
	require.NoError(t, err)
	require.Len(t, reads, 1)
	assert.Equal(t, "primary", *reads[0].ID)
}

func TestNormalizeUbam(t *testing.T) {
	header, _ := testReference(t)
	a := newRecord(t, nil, "u1", sam.Unmapped, 0, nil, uniform(6, 25))
	b := newRecord(t, nil, "u2", sam.Unmapped, 0, nil, uniform(3, 0xff))
	path := writeBam(t, header, a, b)

	reads, err := Normalize(context.Background(), path, Ubam, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, reads, 2)

	assert.Equal(t, "u1", *reads[0].ID)
	assert.Equal(t, uint32(6), reads[0].Length)
	assert.InDelta(t, 25.0, *reads[0].Quality, 1e-9)
	assert.Nil(t, reads[0].AlignedLength)
	assert.Nil(t, reads[0].MappingQuality)
	assert.Nil(t, reads[0].PercentIdentity)

	assert.Nil(t, reads[1].Quality)
}

func TestNormalizeSamText(t *testing.T) {
	content := "@HD\tVN:1.6\n@SQ\tSN:chr1\tLN:1000\n" +
		"r1\t0\tchr1\t10\t42\t4M\t*\t0\t0\tACGT\tIIII\n" +
		"r2\t4\t*\t0\t0\t*\t*\t0\t0\tACGT\tIIII\n"
	path := writeFile(t, "aln.sam", content)

	reads, err := Normalize(context.Background(), path, Bam, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, reads, 1)
	assert.Equal(t, "r1", *reads[0].ID)
	assert.Equal(t, uint8(42), *reads[0].MappingQuality)
	assert.InDelta(t, 40.0, *reads[0].Quality, 1e-9)
}

func TestNormalizeAlignedSource(t *testing.T) {
	_, ref := testReference(t)
	src := &sliceSource{records: []*sam.Record{
		newRecord(t, ref, "a", 0, 7, []sam.CigarOp{op(sam.CigarMatch, 3), op(sam.CigarMismatch, 1), op(sam.CigarSoftClipped, 2)}, append(uniform(4, 40), uniform(2, 2)...)),
	}}

	reads, err := normalizeAligned(context.Background(), src, DefaultOptions(), "mem")
	require.NoError(t, err)
	require.Len(t, reads, 1)
	assert.Equal(t, uint32(4), *reads[0].AlignedLength)
	assert.InDelta(t, 40.0, *reads[0].AlignedQuality, 1e-9)
}

func TestNormalizeAlignedSourceError(t *testing.T) {
	src := &sliceSource{err: io.ErrUnexpectedEOF}
	_, err := normalizeAligned(context.Background(), src, DefaultOptions(), "mem")
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestAlignedLength(t *testing.T) {
	cigar := sam.Cigar{
		op(sam.CigarHardClipped, 5), op(sam.CigarSoftClipped, 3), op(sam.CigarMatch, 10),
		op(sam.CigarInsertion, 2), op(sam.CigarDeletion, 4), op(sam.CigarSkipped, 100),
		op(sam.CigarEqual, 5), op(sam.CigarMismatch, 1), op(sam.CigarSoftClipped, 7),
	}
	assert.Equal(t, uint32(18), alignedLength(cigar))
	assert.Equal(t, uint32(0), alignedLength(nil))

	lead, trail := softClips(cigar)
	assert.Equal(t, 3, lead)
	assert.Equal(t, 7, trail)

	lead, trail = softClips(sam.Cigar{op(sam.CigarSoftClipped, 9)})
	assert.Equal(t, 9, lead)
	assert.Equal(t, 0, trail)
}

func TestNormalizeCram(t *testing.T) {
	path := writeFile(t, "aln.cram", "CRAM\x03\x00rest-of-container")
	_, err := Normalize(context.Background(), path, Cram, DefaultOptions())
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.ErrorContains(t, err, "github.com/biogo/hts")
	assert.ErrorContains(t, err, "convert to BAM")

	bad := writeFile(t, "bad.cram", "BAM\x01")
	_, err = Normalize(context.Background(), bad, Cram, DefaultOptions())
	assert.ErrorIs(t, err, ErrMalformedRecord)
}
