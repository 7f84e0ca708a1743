package memzone

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when operating on a closed store.
	ErrClosed = errors.New("store is closed")

	// ErrStaleReference is returned when a handle's owning frame has been
	// popped. It is an ordinary, recoverable result: the caller must
	// re-derive the value or drop the view object holding the handle.
	ErrStaleReference = errors.New("stale reference")

	// ErrFrameOrderViolation is returned when frames are popped out of LIFO
	// order. It indicates a programming error in the host pipeline and
	// should be treated as fatal: the strict-nesting invariant no longer
	// holds, so the enclosing zone stack cannot safely continue.
	ErrFrameOrderViolation = errors.New("frame order violation")

	// ErrZonesOpen is returned by Close while zones are still open.
	ErrZonesOpen = errors.New("store has open zones")

	// ErrInvalidShardCount is returned for a non-positive shard count.
	ErrInvalidShardCount = errors.New("shard count must be positive")
)

// StaleReferenceError reports a handle whose owning frame has been popped.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type StaleReferenceError struct {
	Key   uint64
	Epoch uint64
}

func (e *StaleReferenceError) Error() string {
	return fmt.Sprintf("stale reference: key %#x minted in closed frame %d", e.Key, e.Epoch)
}

func (e *StaleReferenceError) Unwrap() error { return ErrStaleReference }

// FrameOrderViolationError reports an attempt to pop a frame that is not the
// innermost open frame.
type FrameOrderViolationError struct {
	Top   uint64 // epoch of the innermost open frame
	Epoch uint64 // epoch the caller tried to pop
}

func (e *FrameOrderViolationError) Error() string {
	return fmt.Sprintf("frame order violation: cannot pop frame %d while frame %d is innermost", e.Epoch, e.Top)
}

func (e *FrameOrderViolationError) Unwrap() error { return ErrFrameOrderViolation }
