package memzone

import "sync"

// Attrs is a transient attribute store: named, independently-lifetimed values
// attached to a view object.
//
// Attributes live outside the intern table and outside any zone. They exist
// for values (model-derived tensors, large scratch buffers) that must outlive
// the zone that produced the owning view object's entries, yet are too large
// to retain by default; a pipeline stage clears them explicitly once they are
// consumed. Clearing an attribute never affects handle validity, and popping
// a frame never touches attributes.
type Attrs struct {
	mu     sync.RWMutex
	values map[string]any
}

// Set stores a value under name, replacing any previous value.
func (a *Attrs) Set(name string, value any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.values == nil {
		a.values = make(map[string]any)
	}
	a.values[name] = value
}

// Get returns the value stored under name. A false result is the ordinary
// absent case, returned both for never-set and for cleared names.
func (a *Attrs) Get(name string) (any, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	v, ok := a.values[name]
	return v, ok
}

// Clear removes the value stored under name, releasing it to the garbage
// collector, and reports whether a value was present.
func (a *Attrs) Clear(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.values[name]; !ok {
		return false
	}
	delete(a.values, name)
	return true
}

// Names returns the currently-set attribute names in unspecified order.
func (a *Attrs) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, 0, len(a.values))
	for name := range a.values {
		names = append(names, name)
	}
	return names
}

// Cleaner clears a configured set of transient attributes from view objects.
//
// It is the hook for a pipeline cleanup stage: once downstream consumers are
// done with oversized per-document values, the cleaner drops them without
// waiting for the document itself to go out of use.
type Cleaner struct {
	names []string
}

// NewCleaner creates a cleaner for the given attribute names.
func NewCleaner(names ...string) *Cleaner {
	return &Cleaner{names: names}
}

// Clean clears the configured attributes from doc and returns how many were
// present.
func (c *Cleaner) Clean(doc *Doc) int {
	cleared := 0
	for _, name := range c.names {
		if doc.ClearAttr(name) {
			cleared++
		}
	}
	return cleared
}
