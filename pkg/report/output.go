package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/scttfrdmn/readstats-go/pkg/storage"
)

// ErrOutputExists is returned when the destination is present and
// overwriting was not requested.
var ErrOutputExists = errors.New("output already exists")

// Create opens a report destination. An empty path or "-" writes to
// stdout. Paths starting with s3:// are uploaded. A .gz or .zst suffix
// compresses the stream.
func Create(ctx context.Context, dest string, overwrite bool) (*Output, error) {
	if dest == "" || dest == "-" {
		return &Output{enc: nopCloser{os.Stdout}}, nil
	}

	st, name, err := storage.Split(ctx, dest)
	if err != nil {
		return nil, err
	}
	return createIn(ctx, st, name, overwrite)
}

func createIn(ctx context.Context, st storage.Storage, name string, overwrite bool) (*Output, error) {
	if !overwrite {
		exists, err := st.Exists(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: %s", ErrOutputExists, name)
		}
	}

	raw, err := st.Create(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", name, err)
	}
	enc, err := compressWriter(raw, CompressionFor(name))
	if err != nil {
		raw.CloseWithError(err)
		return nil, err
	}
	return &Output{enc: enc, raw: raw, st: st, name: name}, nil
}

// Output is an open report destination. The codec is closed before the
// underlying file or upload.
type Output struct {
	enc  io.WriteCloser
	raw  storage.Writer
	st   storage.Storage
	name string
}

func (o *Output) Write(p []byte) (int, error) {
	return o.enc.Write(p)
}

// Close flushes the codec and commits the report.
func (o *Output) Close() error {
	encErr := o.enc.Close()
	if o.raw == nil {
		return encErr
	}
	if encErr != nil {
		o.raw.CloseWithError(encErr)
		return fmt.Errorf("failed to finish compression: %w", encErr)
	}
	return o.raw.Close()
}

// CloseWithError abandons the report. Nothing is left at the destination.
func (o *Output) CloseWithError(err error) error {
	if o.raw == nil {
		return o.enc.Close()
	}
	abortErr := o.raw.CloseWithError(err)
	o.enc.Close()
	return abortErr
}

// Location returns the path or URI the report is written to.
func (o *Output) Location() string {
	if o.st == nil {
		return "stdout"
	}
	base := o.st.Location()
	if storage.IsS3URI(base) {
		return base + "/" + o.name
	}
	return filepath.Join(base, o.name)
}

// Uploaded returns the bytes sent to object storage. It is zero for local
// and stdout destinations.
func (o *Output) Uploaded() int64 {
	if s3, ok := o.st.(*storage.S3Storage); ok {
		return s3.UploadedBytes()
	}
	return 0
}
