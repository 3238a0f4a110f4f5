package productimage

import (
	"errors"
	"fmt"
)

var (
	ErrObjectNotFound = errors.New("storage: object not found")
	ErrBucketNotFound = errors.New("storage: bucket not found")
	ErrUnauthorized   = errors.New("storage: unauthorized")
	ErrInternal       = errors.New("storage: internal error")

	ErrImageNotFound     = errors.New("product image not found")
	ErrAlreadyProcessing = errors.New("product image is already being processed")
)

// FetchError means the source image could not be downloaded. It aborts the
// whole run before anything is written.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to download source image %q: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PersistError means derived outputs were produced but could not be recorded.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist processing result: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
