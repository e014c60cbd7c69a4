package batch

import (
	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/errors"
)

const (
	Section     = "Utility"
	BatchMethod = "batch_all"
)

// Batcher combines calls into a single atomic call.
type Batcher struct {
	// MaxCalls limits the number of calls in a single batch. Zero means no
	// limit.
	MaxCalls int
}

// NewBatcher returns a batcher accepting at most max calls per batch.
func NewBatcher(max int) Batcher {
	return Batcher{MaxCalls: max}
}

// Batch wraps given calls into an all or nothing batch call. Call order is
// preserved.
func (b Batcher) Batch(calls []linker.Call) (linker.Call, error) {
	if len(calls) == 0 {
		return linker.Call{}, errors.Wrap(errors.ErrEmpty, "no calls to batch")
	}
	if b.MaxCalls > 0 && len(calls) > b.MaxCalls {
		return linker.Call{}, errors.Wrapf(errors.ErrInvalidInput,
			"%d calls exceed the batch limit of %d", len(calls), b.MaxCalls)
	}

	// Copy so that later changes to the input do not alter the batch.
	inner := make([]linker.Call, len(calls))
	copy(inner, calls)

	return linker.Call{
		Section: Section,
		Method:  BatchMethod,
		Args:    []interface{}{inner},
	}, nil
}

// Batch wraps given calls using a batcher without a size limit.
func Batch(calls []linker.Call) (linker.Call, error) {
	return Batcher{}.Batch(calls)
}
