// Package memzone provides a scoped memory arena over a deduplicating intern
// store for long-running text-processing services.
//
// A shared Store interns recurring tokens once; per-request view objects hold
// checked handles into the table instead of raw pointers. Zones bound the
// lifetime of request-scoped entries:
//
//   - Frame 0 is persistent and never closes.
//   - OpenZone pushes a frame; entries interned while it is innermost belong
//     to it.
//   - Closing the zone bulk-frees every entry it owns, without per-entry
//     reference counting.
//
// Handles carry the owning frame's epoch and are validated on every access:
// resolving a handle after its zone closed returns a StaleReferenceError
// instead of touching freed memory. Zones must close in reverse order of
// opening; violations report FrameOrderViolationError and indicate a
// programming error in the host pipeline.
//
// # Quick Start
//
//	store := memzone.New()
//	defer store.Close()
//
//	// Persistent vocabulary lives in frame 0.
//	dog, _ := store.Intern("dog")
//
//	// Request-scoped entries live and die with a zone.
//	err := store.WithZone(func(z *memzone.Zone) error {
//	    cat, _ := z.Intern("cat")
//	    doc := memzone.NewDoc("cat dog", cat, dog)
//	    _, err := doc.Words(store) // valid while the zone is open
//	    return err
//	})
//
//	store.Resolve(dog) // still valid: frame 0 never closes
//
// Oversized per-document values (model tensors and the like) do not belong in
// the intern table at all: attach them as transient attributes on the Doc and
// clear them with a Cleaner stage once consumed, independent of any zone.
//
// A Store supports one logical mutator; for concurrent workers use
// NewSharded, which gives each worker an independent store.
package memzone
