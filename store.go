package memzone

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/memzone/internal/hash"
)

// entryOverhead approximates the fixed per-entry bookkeeping cost (struct,
// map slots, bitmap membership) charged against the resource controller in
// addition to the text itself.
const entryOverhead = 64

// Store is a deduplicating intern table layered with a stack of allocation
// frames.
//
// Frame 0 is persistent and exists for the lifetime of the store; every open
// zone pushes one frame on top of it. Interning lands entries in the
// innermost open frame; popping a frame bulk-frees every entry it owns.
//
// A Store supports a single logical mutator: Intern, OpenZone and zone Close
// are serialized behind the write lock. Resolve and Lookup take the read
// lock, so readers proceed concurrently with each other and are excluded
// while a frame is being popped. For parallel workers, use Sharded.
type Store struct {
	mu   sync.RWMutex
	opts options

	entries map[uint64]*Entry // key -> live entry, open frames only
	byID    map[uint32]*Entry // dense id -> entry, for bulk frees
	nextID  uint32

	frames   []*frame // stack; frames[0] is persistent
	epochSeq uint64   // last epoch handed out; never reused

	closed bool

	internHits    atomic.Int64
	internMisses  atomic.Int64
	resolves      atomic.Int64
	staleResolves atomic.Int64
}

// frame is one allocation epoch.
type frame struct {
	epoch uint64
	owned *roaring.Bitmap // dense ids of entries this frame owns
	bytes int64           // accounted bytes, released in bulk on pop
}

// New creates an empty store with an open persistent frame 0.
func New(optFns ...Option) *Store {
	return &Store{
		opts:    applyOptions(optFns),
		entries: make(map[uint64]*Entry),
		byID:    make(map[uint32]*Entry),
		frames:  []*frame{{epoch: 0, owned: roaring.New()}},
	}
}

// Intern deduplicates text against all currently-open frames and returns a
// handle to its entry, creating the entry in the innermost open frame if
// absent. The key is the FNV-1a hash of text.
func (s *Store) Intern(text string) (Handle, error) {
	return s.InternKey(hash.Sum64(text), text, nil)
}

// InternKey interns under a caller-supplied normalized key.
//
// If the key is already present in any open frame the existing entry wins and
// build is not invoked. Otherwise build (or the store's configured builder if
// nil) constructs the entry, which is tagged with the innermost open frame's
// epoch and inserted. Interning never fails for capacity reasons unless a
// resource controller with a hard memory limit is configured.
func (s *Store) InternKey(key uint64, text string, build Builder) (Handle, error) {
	start := time.Now()
	h, hit, err := s.internKey(key, text, build)
	s.opts.metricsCollector.RecordIntern(time.Since(start), hit, err)
	if err == nil {
		s.opts.logger.LogIntern(key, hit)
	}
	return h, err
}

func (s *Store) internKey(key uint64, text string, build Builder) (Handle, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Handle{}, false, ErrClosed
	}

	if e, ok := s.entries[key]; ok {
		s.internHits.Add(1)
		return e.Handle(), true, nil
	}
	s.internMisses.Add(1)

	if build == nil {
		build = s.opts.builder
	}
	e, err := build(key, text)
	if err != nil {
		return Handle{}, false, err
	}

	size := int64(len(e.Text)) + entryOverhead
	if err := s.opts.rc.AcquireMemory(size); err != nil {
		return Handle{}, false, err
	}

	top := s.frames[len(s.frames)-1]
	e.Key = key
	e.Epoch = top.epoch
	e.id = s.nextID
	s.nextID++

	s.entries[key] = e
	s.byID[e.id] = e
	top.owned.Add(e.id)
	top.bytes += size

	return e.Handle(), false, nil
}

// Lookup returns the entry for h if it is still valid. A false result is a
// defined miss, not a fault.
func (s *Store) Lookup(h Handle) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false
	}
	// Presence in the key index implies the owning frame is still open;
	// the epoch check rejects handles to a re-interned key.
	e, ok := s.entries[h.Key]
	if !ok || e.Epoch != h.Epoch {
		return nil, false
	}
	return e, true
}

// Resolve returns the entry for h, or a StaleReferenceError if the handle's
// owning frame has been popped.
func (s *Store) Resolve(h Handle) (*Entry, error) {
	start := time.Now()

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrClosed
	}
	e, ok := s.entries[h.Key]
	if ok && e.Epoch == h.Epoch {
		s.resolves.Add(1)
		s.mu.RUnlock()
		s.opts.metricsCollector.RecordResolve(time.Since(start), false)
		return e, nil
	}
	s.staleResolves.Add(1)
	s.mu.RUnlock()

	s.opts.metricsCollector.RecordResolve(time.Since(start), true)
	return nil, &StaleReferenceError{Key: h.Key, Epoch: h.Epoch}
}

// pushFrame opens a new innermost frame and returns its epoch.
func (s *Store) pushFrame() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	s.epochSeq++
	s.frames = append(s.frames, &frame{epoch: s.epochSeq, owned: roaring.New()})
	s.opts.metricsCollector.RecordZoneOpen()
	return s.epochSeq, nil
}

// popFrame closes the frame with the given epoch, which must be the innermost
// open frame, and bulk-frees every entry it owns.
func (s *Store) popFrame(epoch uint64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	top := s.frames[len(s.frames)-1]
	if top.epoch != epoch || epoch == 0 {
		return 0, &FrameOrderViolationError{Top: top.epoch, Epoch: epoch}
	}

	freed := 0
	it := top.owned.Iterator()
	for it.HasNext() {
		id := it.Next()
		e, ok := s.byID[id]
		if !ok {
			continue
		}
		delete(s.byID, id)
		delete(s.entries, e.Key)
		freed++
	}

	s.opts.rc.ReleaseMemory(top.bytes)
	s.frames = s.frames[:len(s.frames)-1]
	return freed, nil
}

// Close releases the store. It fails with ErrZonesOpen while any zone is
// still open; afterwards every operation returns ErrClosed. Close is
// idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	if len(s.frames) > 1 {
		return ErrZonesOpen
	}

	s.opts.rc.ReleaseMemory(s.frames[0].bytes)
	s.entries = nil
	s.byID = nil
	s.frames = nil
	s.closed = true
	return nil
}

// Stats is a point-in-time snapshot of store counters.
type Stats struct {
	Entries       int    // live entries across all open frames
	BaseEntries   int    // entries owned by the persistent frame 0
	OpenZones     int    // currently open zones
	EpochsOpened  uint64 // total epochs ever handed out
	BytesInterned int64  // accounted bytes across all open frames
	InternHits    int64
	InternMisses  int64
	Resolves      int64
	StaleResolves int64
}

// Stats returns the current store statistics.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Entries:       len(s.entries),
		EpochsOpened:  s.epochSeq,
		InternHits:    s.internHits.Load(),
		InternMisses:  s.internMisses.Load(),
		Resolves:      s.resolves.Load(),
		StaleResolves: s.staleResolves.Load(),
	}
	if !s.closed {
		st.BaseEntries = int(s.frames[0].owned.GetCardinality())
		st.OpenZones = len(s.frames) - 1
		for _, f := range s.frames {
			st.BytesInterned += f.bytes
		}
	}
	return st
}
