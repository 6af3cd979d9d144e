package transfer

import (
	"context"

	"github.com/moyoez/dropvault-go/types"
)

// Transferer moves one file. Implementations call report with increasing
// percentages and return when the transfer ends. They must return promptly
// once ctx is cancelled.
type Transferer interface {
	Transfer(ctx context.Context, entry types.FileEntry, report func(percent int)) error
}

// TransferFunc adapts a function to Transferer.
type TransferFunc func(ctx context.Context, entry types.FileEntry, report func(percent int)) error

func (f TransferFunc) Transfer(ctx context.Context, entry types.FileEntry, report func(percent int)) error {
	return f(ctx, entry, report)
}
