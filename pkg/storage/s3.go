package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Multipart upload settings.
const (
	uploadPartSize    = 10 * 1024 * 1024
	uploadConcurrency = 3
)

// S3URI is a parsed s3://bucket/key URI.
type S3URI struct {
	Bucket string
	Key    string
}

func (u S3URI) String() string {
	if u.Key == "" {
		return "s3://" + u.Bucket
	}
	return "s3://" + u.Bucket + "/" + u.Key
}

// IsS3URI reports whether path is an s3:// URI.
func IsS3URI(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// ParseS3URI parses a URI like s3://bucket/path/to/object.
func ParseS3URI(uri string) (S3URI, error) {
	if !IsS3URI(uri) {
		return S3URI{}, fmt.Errorf("invalid S3 URI %q: must start with s3://", uri)
	}
	bucket, key, _ := strings.Cut(strings.TrimPrefix(uri, "s3://"), "/")
	if bucket == "" {
		return S3URI{}, fmt.Errorf("invalid S3 URI %q: missing bucket name", uri)
	}
	return S3URI{Bucket: bucket, Key: strings.Trim(key, "/")}, nil
}

func errMissingKey(uri string) error {
	return fmt.Errorf("invalid S3 URI %q: missing object name", uri)
}

// s3API is the part of *s3.Client used directly.
type s3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// uploader is the part of *manager.Uploader used for writes.
type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Storage stores files under a key prefix of one bucket.
type S3Storage struct {
	bucket   string
	prefix   string
	client   s3API
	uploader uploader

	mu            sync.Mutex
	uploadedBytes int64
}

// NewS3Storage creates an S3 backend using the default AWS credential chain.
func NewS3Storage(ctx context.Context, uri S3URI) (*S3Storage, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	up := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = uploadPartSize
		u.Concurrency = uploadConcurrency
	})
	return newS3Storage(uri, client, up), nil
}

func newS3Storage(uri S3URI, client s3API, up uploader) *S3Storage {
	return &S3Storage{
		bucket:   uri.Bucket,
		prefix:   uri.Key,
		client:   client,
		uploader: up,
	}
}

func (s *S3Storage) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

// Create streams writes through a pipe into a multipart upload. Close
// waits for the upload to finish and returns its error. CloseWithError
// fails the upload so the object is never committed.
func (s *S3Storage) Create(ctx context.Context, name string) (Writer, error) {
	pr, pw := io.Pipe()
	w := &uploadWriter{pw: pw, done: make(chan error, 1)}
	go func() {
		err := s.upload(ctx, name, pr)
		pr.CloseWithError(err)
		w.done <- err
	}()
	return w, nil
}

func (s *S3Storage) upload(ctx context.Context, name string, body io.Reader) error {
	key := s.key(name)
	counter := &countingReader{r: body}
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   counter,
	})
	if err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", s.bucket, key, err)
	}

	s.mu.Lock()
	s.uploadedBytes += counter.n
	s.mu.Unlock()
	return nil
}

func (s *S3Storage) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err == nil {
		return true, nil
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check s3://%s/%s: %w", s.bucket, s.key(name), err)
}

func (s *S3Storage) Location() string {
	return S3URI{Bucket: s.bucket, Key: s.prefix}.String()
}

// UploadedBytes returns the total bytes uploaded so far.
func (s *S3Storage) UploadedBytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadedBytes
}

type uploadWriter struct {
	pw   *io.PipeWriter
	done chan error
}

func (w *uploadWriter) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *uploadWriter) Close() error {
	if err := w.pw.Close(); err != nil {
		return err
	}
	return <-w.done
}

func (w *uploadWriter) CloseWithError(err error) error {
	w.pw.CloseWithError(err)
	<-w.done
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
