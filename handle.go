package memzone

// Handle is a checked reference to an interned Entry.
//
// It pairs the entry's normalized key with the epoch of the frame that owned
// the entry when the handle was minted. Handles are cheap to copy and carry no
// ownership of memory, only a lookup capability: once the owning frame is
// popped the handle is permanently invalid and every Resolve returns a
// StaleReferenceError. Re-interning the same key later produces a handle with
// a fresh epoch, never a resurrected one.
//
// The zero Handle is invalid.
type Handle struct {
	Key   uint64
	Epoch uint64
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h == Handle{}
}
