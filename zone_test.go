package memzone

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZone_StrictNesting(t *testing.T) {
	s := New()
	defer s.Close()

	a, err := s.OpenZone()
	require.NoError(t, err)
	b, err := s.OpenZone()
	require.NoError(t, err)

	// Closing A before B violates LIFO order.
	err = a.Close()
	require.ErrorIs(t, err, ErrFrameOrderViolation)

	var violation *FrameOrderViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, b.Epoch(), violation.Top)
	assert.Equal(t, a.Epoch(), violation.Epoch)

	// Reverse order succeeds.
	require.NoError(t, b.Close())
	require.NoError(t, a.Close())
}

func TestZone_Nesting(t *testing.T) {
	s := New()
	defer s.Close()

	err := s.WithZone(func(outer *Zone) error {
		hOuter, err := outer.Intern("outer")
		require.NoError(t, err)

		var hInner Handle
		err = s.WithZone(func(inner *Zone) error {
			hInner, err = inner.Intern("inner")
			require.NoError(t, err)
			assert.Equal(t, inner.Epoch(), hInner.Epoch, "intern lands in the innermost frame")
			return nil
		})
		require.NoError(t, err)

		// Inner frame is gone, outer frame still live.
		_, err = s.Resolve(hInner)
		assert.ErrorIs(t, err, ErrStaleReference)
		_, err = s.Resolve(hOuter)
		assert.NoError(t, err)
		return nil
	})
	require.NoError(t, err)
}

func TestZone_CloseIdempotent(t *testing.T) {
	s := New()
	defer s.Close()

	z, err := s.OpenZone()
	require.NoError(t, err)

	require.NoError(t, z.Close())
	require.NoError(t, z.Close(), "second close is a no-op")
}

func TestWithZone_GuaranteedRelease(t *testing.T) {
	t.Run("error return", func(t *testing.T) {
		s := New()
		defer s.Close()

		boom := errors.New("pipeline failed")
		var h Handle
		err := s.WithZone(func(z *Zone) error {
			var ierr error
			h, ierr = z.Intern("cat")
			require.NoError(t, ierr)
			return boom
		})
		require.ErrorIs(t, err, boom)

		// The frame was popped despite the error.
		assert.Equal(t, 0, s.Stats().OpenZones)
		_, err = s.Resolve(h)
		assert.ErrorIs(t, err, ErrStaleReference)
	})

	t.Run("panic unwinding", func(t *testing.T) {
		s := New()
		defer s.Close()

		var h Handle
		func() {
			defer func() {
				require.NotNil(t, recover())
			}()
			_ = s.WithZone(func(z *Zone) error {
				var err error
				h, err = z.Intern("cat")
				require.NoError(t, err)
				panic("pipeline panic")
			})
		}()

		assert.Equal(t, 0, s.Stats().OpenZones)
		_, err := s.Resolve(h)
		assert.ErrorIs(t, err, ErrStaleReference)
	})

	t.Run("close error surfaces when fn succeeds", func(t *testing.T) {
		s := New()
		defer s.Close()

		err := s.WithZone(func(z *Zone) error {
			// Leak a deeper zone so the outer close is out of order.
			_, err := s.OpenZone()
			require.NoError(t, err)
			return nil
		})
		assert.ErrorIs(t, err, ErrFrameOrderViolation)
	})
}

func TestZone_EmptyClose(t *testing.T) {
	s := New()
	defer s.Close()

	z, err := s.OpenZone()
	require.NoError(t, err)
	assert.NoError(t, z.Close(), "closing a zone with no entries is fine")
}
