package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scttfrdmn/readstats-go/pkg/metrics"
)

func sampleCollection() *metrics.Collection {
	start := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)
	reads := []metrics.Read{
		metrics.NewRead(metrics.Ptr("r1"), 1000).
			WithQuality(12.5).
			WithAlignment(metrics.Alignment{AlignedLength: 950, AlignedQuality: metrics.Ptr(13.0), MappingQuality: metrics.Ptr[uint8](60), PercentIdentity: metrics.Ptr(95.0)}).
			WithRunMetadata(metrics.RunMetadata{ChannelID: metrics.Ptr[uint16](7), StartTime: &start, Duration: metrics.Ptr(2.5), RunID: metrics.Ptr("run1")}).
			WithBarcode("barcode01"),
		metrics.NewRead(nil, 200),
	}
	return metrics.Combine([]*metrics.Collection{metrics.NewCollection(reads)}, metrics.Track, []string{"s1"})
}

func TestWriteTSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, sampleCollection().Reads))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(Columns, "\t"), lines[0])
	assert.Equal(t, "r1\t1000\t12.5\t950\t13\t60\t95\t7\t2020-05-01T12:00:00Z\t2.5\tbarcode01\trun1\ts1", lines[1])
	assert.Equal(t, "\t200\t\t\t\t\t\t\t\t\t\t\ts1", lines[2])
}

func TestWriteJSONOmitsAbsent(t *testing.T) {
	c := metrics.NewCollection([]metrics.Read{metrics.NewRead(nil, 10)})

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, c))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	read := doc["reads"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{"length": 10.0}, read)

	summary := doc["summary"].(map[string]any)
	assert.Equal(t, 1.0, summary["read_count"])
	assert.NotContains(t, summary, "quality_stats")
	assert.NotContains(t, summary, "channel_distribution")
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleCollection().Summary))

	out := buf.String()
	assert.Contains(t, out, "Number of reads:")
	assert.Contains(t, out, "Read length (n=2):")
	assert.Contains(t, out, "Read quality (n=1):")
	assert.Contains(t, out, "Reads per channel (1 channels):")
	assert.Contains(t, out, "barcode01:")
}

func TestWriteStatsTSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, metrics.NewCollection([]metrics.Read{metrics.NewRead(nil, 10), metrics.NewRead(nil, 20)}).Summary, TSV))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "length\t2\t15\t15\t10\t20\t5\t12.5\t17.5", lines[1])
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"tsv", "json", "summary"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, name, f.String())
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestCompressionFor(t *testing.T) {
	assert.Equal(t, Gzip, CompressionFor("out.tsv.gz"))
	assert.Equal(t, Zstd, CompressionFor("out.json.ZST"))
	assert.Equal(t, None, CompressionFor("out.tsv"))
}

func TestCreateLocalCompressed(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	gzPath := filepath.Join(dir, "reads.tsv.gz")
	w, err := Create(ctx, gzPath, false)
	require.NoError(t, err)
	_, err = io.WriteString(w, "hello gzip")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	f, err := os.Open(gzPath)
	require.NoError(t, err)
	defer f.Close()
	zr, err := pgzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "hello gzip", string(data))

	zstPath := filepath.Join(dir, "reads.json.zst")
	w, err = Create(ctx, zstPath, false)
	require.NoError(t, err)
	_, err = io.WriteString(w, "hello zstd")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	raw, err := os.ReadFile(zstPath)
	require.NoError(t, err)
	dec, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer dec.Close()
	data, err = dec.DecodeAll(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello zstd", string(data))
}

func TestCreateRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	_, err := Create(context.Background(), path, false)
	assert.ErrorIs(t, err, ErrOutputExists)

	w, err := Create(context.Background(), path, true)
	require.NoError(t, err)
	_, err = io.WriteString(w, "new")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestCreateCloseWithErrorRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reads.tsv.gz")

	w, err := Create(context.Background(), path, false)
	require.NoError(t, err)
	_, err = io.WriteString(w, "id\tlength\n")
	require.NoError(t, err)
	require.NoError(t, w.CloseWithError(errors.New("render failed")))

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	// a retry is not refused by the abandoned attempt
	w, err = Create(context.Background(), path, false)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, path, w.Location())
	assert.Zero(t, w.Uploaded())
}
