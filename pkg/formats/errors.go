package formats

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord reports a record that could not be decoded.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrMissingField reports a required column that is absent or unparsable.
	ErrMissingField = errors.New("missing field")
	// ErrUnsupported reports an option or format that cannot be handled.
	ErrUnsupported = errors.New("unsupported")
)

// FileError attaches the input path to a normalization failure.
type FileError struct {
	Path string
	Kind string
	Err  error
}

func (e *FileError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func fileError(path string, format Format, err error) error {
	var fe *FileError
	if errors.As(err, &fe) {
		return err
	}
	return &FileError{Path: path, Kind: format.String(), Err: err}
}
