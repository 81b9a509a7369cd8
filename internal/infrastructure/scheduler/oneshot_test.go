package scheduler

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietRegistry() *OneShotRegistry {
	return NewOneShotRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestOneShotRegistry_FiresAtDeadline(t *testing.T) {
	r := quietRegistry()
	defer r.Close()

	fired := make(chan int64, 1)
	r.ScheduleAt(7, "u1", time.Now().Add(20*time.Millisecond), func(sessionID int64, userID string) {
		fired <- sessionID
	})

	select {
	case id := <-fired:
		assert.Equal(t, int64(7), id)
	case <-time.After(2 * time.Second):
		t.Fatal("callback did not fire")
	}
}

func TestOneShotRegistry_PastDeadlineFiresImmediately(t *testing.T) {
	r := quietRegistry()
	defer r.Close()

	fired := make(chan struct{}, 1)
	r.ScheduleAt(1, "u1", time.Now().Add(-time.Minute), func(int64, string) {
		fired <- struct{}{}
	})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("past deadline did not fire immediately")
	}
}

func TestOneShotRegistry_Cancel(t *testing.T) {
	r := quietRegistry()
	defer r.Close()

	var fired atomic.Bool
	r.ScheduleAt(3, "u1", time.Now().Add(50*time.Millisecond), func(int64, string) {
		fired.Store(true)
	})

	require.True(t, r.Cancel(3))
	assert.False(t, r.Cancel(3), "second cancel finds nothing")

	time.Sleep(120 * time.Millisecond)
	assert.False(t, fired.Load())
	assert.Equal(t, 0, r.PendingCount())
}

func TestOneShotRegistry_RescheduleReplacesTimer(t *testing.T) {
	r := quietRegistry()
	defer r.Close()

	fired := make(chan string, 2)
	r.ScheduleAt(5, "first", time.Now().Add(30*time.Millisecond), func(_ int64, userID string) {
		fired <- userID
	})
	r.ScheduleAt(5, "second", time.Now().Add(60*time.Millisecond), func(_ int64, userID string) {
		fired <- userID
	})

	assert.Equal(t, 1, r.PendingCount())

	select {
	case userID := <-fired:
		assert.Equal(t, "second", userID)
	case <-time.After(2 * time.Second):
		t.Fatal("replacement timer did not fire")
	}

	select {
	case <-fired:
		t.Fatal("replaced timer fired anyway")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestOneShotRegistry_CloseStopsPending(t *testing.T) {
	r := quietRegistry()

	var fired atomic.Bool
	r.ScheduleAt(9, "u1", time.Now().Add(time.Hour), func(int64, string) {
		fired.Store(true)
	})

	r.Close()

	assert.False(t, fired.Load())
	assert.Equal(t, 0, r.PendingCount())

	// Scheduling after close is ignored.
	r.ScheduleAt(10, "u1", time.Now(), func(int64, string) {})
	assert.Equal(t, 0, r.PendingCount())
}
