package server

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(max int) *Registry {
	return NewRegistry(max, log.New(io.Discard))
}

func TestRegisterAndUnregister(t *testing.T) {
	r := newTestRegistry(0)

	a, err := r.Register("alice")
	require.NoError(t, err)
	b, err := r.Register("bob")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, r.Count())

	r.Unregister(a.ID)
	r.Unregister(a.ID)
	assert.Equal(t, 1, r.Count())
}

func TestRegisterEnforcesLimit(t *testing.T) {
	r := newTestRegistry(1)

	_, err := r.Register("alice")
	require.NoError(t, err)
	_, err = r.Register("bob")
	require.ErrorIs(t, err, ErrFull)
}

func TestShutdownNotifiesAndWaits(t *testing.T) {
	r := newTestRegistry(0)
	h, err := r.Register("alice")
	require.NoError(t, err)

	go func() {
		ev := <-h.EventsCh
		if ev.Type == EventServerShutdown {
			r.Unregister(h.ID)
		}
	}()

	done := make(chan struct{})
	go func() {
		r.Shutdown(5 * time.Second)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not return after the last viewer left")
	}
	assert.Zero(t, r.Count())

	_, err = r.Register("late")
	require.ErrorIs(t, err, ErrShuttingDown)
}

func TestShutdownTimesOut(t *testing.T) {
	r := newTestRegistry(0)
	_, err := r.Register("stuck")
	require.NoError(t, err)

	start := time.Now()
	r.Shutdown(100 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, 1, r.Count())
}
