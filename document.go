package memzone

// Doc is a view object produced by a processing pipeline: an ordered sequence
// of handles into the intern table plus data the pipeline owns independently.
//
// The raw text is owned by the document and outlives any zone. The handles do
// not: a document produced while zone Z was open must not be dereferenced
// after Z closes - Resolve on its handles then reports StaleReferenceError
// instead of touching freed entries.
type Doc struct {
	// Text is the raw input, owned by the document.
	Text string

	// Tokens are handles into the intern table, in document order.
	Tokens []Handle

	attrs Attrs
}

// NewDoc creates a document over text with the given token handles.
func NewDoc(text string, tokens ...Handle) *Doc {
	return &Doc{Text: text, Tokens: tokens}
}

// Len returns the number of tokens.
func (d *Doc) Len() int {
	return len(d.Tokens)
}

// Entry resolves the i-th token against s.
func (d *Doc) Entry(s *Store, i int) (*Entry, error) {
	return s.Resolve(d.Tokens[i])
}

// Words resolves every token and returns the canonical texts in order. The
// first stale handle aborts with its error.
func (d *Doc) Words(s *Store) ([]string, error) {
	words := make([]string, 0, len(d.Tokens))
	for _, h := range d.Tokens {
		e, err := s.Resolve(h)
		if err != nil {
			return nil, err
		}
		words = append(words, e.Text)
	}
	return words, nil
}

// SetAttr stores a transient attribute on the document.
func (d *Doc) SetAttr(name string, value any) {
	d.attrs.Set(name, value)
}

// GetAttr returns a transient attribute; false means absent.
func (d *Doc) GetAttr(name string) (any, bool) {
	return d.attrs.Get(name)
}

// ClearAttr removes a transient attribute and reports whether it was set.
func (d *Doc) ClearAttr(name string) bool {
	return d.attrs.Clear(name)
}

// AttrNames returns the names of the currently-set transient attributes.
func (d *Doc) AttrNames() []string {
	return d.attrs.Names()
}
