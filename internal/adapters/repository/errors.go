package repository

import (
	"errors"

	"github.com/okian/runboard/pkg/metrics"
)

// Sentinel kinds for leaderboard store errors.
var (
	ErrStorage           = errors.New("storage failure")
	ErrInvalidPage       = errors.New("invalid leaderboard page")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// StorageError reports a failure of the backing database during op.
// It matches ErrStorage with errors.Is and unwraps to the driver error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + ErrStorage.Error() + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func newStorageError(op string, err error) error {
	metrics.RecordStoreError(op)
	return &StorageError{Op: op, Err: err}
}
