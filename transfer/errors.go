package transfer

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBatch is returned by Start when nothing is selected.
	ErrEmptyBatch = errors.New("empty batch: add at least one file")
	// ErrInvalidTransition is returned when an operation is not allowed in the
	// current batch status. State is left untouched.
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnknownEntry      = errors.New("unknown entry")
	ErrTransferFailed    = errors.New("transfer failed")
)

// TransferError reports a single entry that could not be transferred.
type TransferError struct {
	EntryID string
	Err     error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer of %s failed: %v", e.EntryID, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

func (e *TransferError) Is(target error) bool { return target == ErrTransferFailed }
