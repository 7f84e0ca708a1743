package memzone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoc_Words(t *testing.T) {
	s := New()
	defer s.Close()

	the, err := s.Intern("the")
	require.NoError(t, err)
	dog, err := s.Intern("dog")
	require.NoError(t, err)

	doc := NewDoc("the dog", the, dog)
	require.Equal(t, 2, doc.Len())

	words, err := doc.Words(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"the", "dog"}, words)

	e, err := doc.Entry(s, 1)
	require.NoError(t, err)
	assert.Equal(t, "dog", e.Text)
}

func TestDoc_StaleAfterZoneClose(t *testing.T) {
	s := New()
	defer s.Close()

	base, err := s.Intern("the")
	require.NoError(t, err)

	var doc *Doc
	err = s.WithZone(func(z *Zone) error {
		cat, err := z.Intern("cat")
		require.NoError(t, err)
		doc = NewDoc("the cat", base, cat)

		words, err := doc.Words(s)
		require.NoError(t, err)
		assert.Equal(t, []string{"the", "cat"}, words)
		return nil
	})
	require.NoError(t, err)

	// The doc escaped its zone: dereferencing it now is a defined error,
	// not a crash.
	_, err = doc.Words(s)
	assert.ErrorIs(t, err, ErrStaleReference)

	// The persistent token alone still resolves.
	e, err := doc.Entry(s, 0)
	require.NoError(t, err)
	assert.Equal(t, "the", e.Text)
}
