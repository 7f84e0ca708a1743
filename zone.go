package memzone

import (
	"time"
)

// Zone is a scoped allocation frame over a store.
//
// Opening a zone pushes a frame; closing it pops the frame and bulk-frees
// every entry interned while the zone was innermost. Zones nest: opening zone
// B while zone A is open is fine, but zones must close in exact reverse order
// of opening or Close fails with a FrameOrderViolationError.
//
// Prefer WithZone, which guarantees the pop on every exit path.
type Zone struct {
	store  *Store
	epoch  uint64
	closed bool
}

// OpenZone pushes a new frame and returns its controlling zone.
func (s *Store) OpenZone() (*Zone, error) {
	epoch, err := s.pushFrame()
	if err != nil {
		return nil, err
	}
	s.opts.logger.LogZoneOpen(epoch)
	return &Zone{store: s, epoch: epoch}, nil
}

// Epoch returns the epoch of the zone's frame.
func (z *Zone) Epoch() uint64 {
	return z.epoch
}

// Intern interns through the zone's store. The entry lands in the innermost
// open frame, which is this zone's frame only while no deeper zone is open.
func (z *Zone) Intern(text string) (Handle, error) {
	return z.store.Intern(text)
}

// Close pops the zone's frame, freeing every entry it owns and invalidating
// every handle minted against them. Closing an already-closed zone is a
// no-op, so a deferred Close composes with an explicit one.
func (z *Zone) Close() error {
	if z.closed {
		return nil
	}

	start := time.Now()
	freed, err := z.store.popFrame(z.epoch)
	z.store.opts.metricsCollector.RecordZoneClose(freed, time.Since(start), err)
	z.store.opts.logger.LogZoneClose(z.epoch, freed, err)
	if err != nil {
		return err
	}

	z.closed = true
	return nil
}

// WithZone runs fn inside a freshly opened zone and guarantees the zone is
// closed on every exit path: normal return, error return, or panic
// unwinding through fn.
func (s *Store) WithZone(fn func(*Zone) error) (err error) {
	z, zerr := s.OpenZone()
	if zerr != nil {
		return zerr
	}
	defer func() {
		cerr := z.Close()
		if err == nil {
			err = cerr
		}
	}()
	return fn(z)
}
