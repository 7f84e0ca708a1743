package memzone

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordIntern is called after each intern operation.
	// hit reports dedup against an existing entry, err is nil if successful.
	RecordIntern(duration time.Duration, hit bool, err error)

	// RecordResolve is called after each handle resolution.
	// stale reports that the handle's owning frame was closed.
	RecordResolve(duration time.Duration, stale bool)

	// RecordZoneOpen is called when a zone opens.
	RecordZoneOpen()

	// RecordZoneClose is called after a zone close attempt.
	// freed is the number of entries bulk-freed, err is nil if successful.
	RecordZoneClose(freed int, duration time.Duration, err error)

	// RecordSnapshotSave is called after a base snapshot save.
	RecordSnapshotSave(entries int, duration time.Duration, err error)

	// RecordSnapshotLoad is called after a base snapshot load.
	RecordSnapshotLoad(entries int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIntern(time.Duration, bool, error)      {}
func (NoopMetricsCollector) RecordResolve(time.Duration, bool)            {}
func (NoopMetricsCollector) RecordZoneOpen()                              {}
func (NoopMetricsCollector) RecordZoneClose(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordSnapshotSave(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSnapshotLoad(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InternCount      atomic.Int64
	InternHits       atomic.Int64
	InternErrors     atomic.Int64
	InternTotalNanos atomic.Int64

	ResolveCount atomic.Int64
	ResolveStale atomic.Int64

	ZoneOpenCount  atomic.Int64
	ZoneCloseCount atomic.Int64
	ZoneCloseFreed atomic.Int64
	ZoneCloseError atomic.Int64

	SnapshotSaves      atomic.Int64
	SnapshotSaveErrors atomic.Int64
	SnapshotLoads      atomic.Int64
	SnapshotLoadErrors atomic.Int64
}

// RecordIntern implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIntern(duration time.Duration, hit bool, err error) {
	b.InternCount.Add(1)
	b.InternTotalNanos.Add(duration.Nanoseconds())
	if hit {
		b.InternHits.Add(1)
	}
	if err != nil {
		b.InternErrors.Add(1)
	}
}

// RecordResolve implements MetricsCollector.
func (b *BasicMetricsCollector) RecordResolve(duration time.Duration, stale bool) {
	b.ResolveCount.Add(1)
	if stale {
		b.ResolveStale.Add(1)
	}
}

// RecordZoneOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordZoneOpen() {
	b.ZoneOpenCount.Add(1)
}

// RecordZoneClose implements MetricsCollector.
func (b *BasicMetricsCollector) RecordZoneClose(freed int, duration time.Duration, err error) {
	b.ZoneCloseCount.Add(1)
	b.ZoneCloseFreed.Add(int64(freed))
	if err != nil {
		b.ZoneCloseError.Add(1)
	}
}

// RecordSnapshotSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshotSave(entries int, duration time.Duration, err error) {
	b.SnapshotSaves.Add(1)
	if err != nil {
		b.SnapshotSaveErrors.Add(1)
	}
}

// RecordSnapshotLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshotLoad(entries int, duration time.Duration, err error) {
	b.SnapshotLoads.Add(1)
	if err != nil {
		b.SnapshotLoadErrors.Add(1)
	}
}
