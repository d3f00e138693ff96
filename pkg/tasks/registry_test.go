package tasks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"contentpilot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return NewRegistry(logger.NewNop())
}

func waitForTerminal(t *testing.T, r *Registry, taskID string) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatalf("task %s never reached a terminal state", taskID)
		case <-time.After(5 * time.Millisecond):
			snap, ok := r.GetStatus(taskID)
			require.True(t, ok)
			if snap.Status == StatusCompleted || snap.Status == StatusFailed {
				return snap
			}
		}
	}
}

func TestRegistry_EnqueueAndPoll(t *testing.T) {
	r := newTestRegistry()
	release := make(chan struct{})

	r.Enqueue("article-42", func(ctx context.Context) (interface{}, error) {
		<-release
		return map[string]string{"id": "42"}, nil
	})

	snap, ok := r.GetStatus("article-42")
	require.True(t, ok)
	assert.Equal(t, StatusRunning, snap.Status)
	assert.Nil(t, snap.CompletedAt)

	close(release)
	snap = waitForTerminal(t, r, "article-42")
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Equal(t, map[string]interface{}{"id": "42"}, snap.Result)
	assert.Empty(t, snap.Error)
	require.NotNil(t, snap.CompletedAt)
}

func TestRegistry_SnapshotResultDetached(t *testing.T) {
	r := newTestRegistry()

	r.Enqueue("article-8", func(ctx context.Context) (interface{}, error) {
		return map[string]string{"id": "8"}, nil
	})
	waitForTerminal(t, r, "article-8")

	snap, ok := r.GetStatus("article-8")
	require.True(t, ok)
	payload, ok := snap.Result.(map[string]interface{})
	require.True(t, ok)
	payload["id"] = "tampered"

	again, ok := r.GetStatus("article-8")
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"id": "8"}, again.Result)
}

func TestRegistry_FailureCaptured(t *testing.T) {
	r := newTestRegistry()

	r.Enqueue("article-1", func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("model overloaded")
	})

	snap := waitForTerminal(t, r, "article-1")
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "model overloaded", snap.Error)
	assert.Nil(t, snap.Result)
}

func TestRegistry_PanicCaptured(t *testing.T) {
	r := newTestRegistry()

	r.Enqueue("outline-7", func(ctx context.Context) (interface{}, error) {
		panic("boom")
	})

	snap := waitForTerminal(t, r, "outline-7")
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Contains(t, snap.Error, "boom")
}

func TestRegistry_DuplicateSuppression(t *testing.T) {
	r := newTestRegistry()
	release := make(chan struct{})
	var ranA, ranB int32

	r.Enqueue("img-1", func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&ranA, 1)
		<-release
		return "a", nil
	})
	r.Enqueue("img-1", func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&ranB, 1)
		return "b", nil
	})

	close(release)
	snap := waitForTerminal(t, r, "img-1")

	assert.Equal(t, "a", snap.Result)
	assert.Equal(t, int32(1), atomic.LoadInt32(&ranA))
	assert.Equal(t, int32(0), atomic.LoadInt32(&ranB), "second unit of work must never start")
}

func TestRegistry_ConcurrentEnqueueSameID(t *testing.T) {
	r := newTestRegistry()
	release := make(chan struct{})
	var executions int32

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Enqueue("article-9", func(ctx context.Context) (interface{}, error) {
				atomic.AddInt32(&executions, 1)
				<-release
				return nil, nil
			})
		}()
	}
	wg.Wait()
	close(release)

	waitForTerminal(t, r, "article-9")
	assert.Equal(t, int32(1), atomic.LoadInt32(&executions))
}

func TestRegistry_ReEnqueueAfterTerminal(t *testing.T) {
	r := newTestRegistry()

	r.Enqueue("article-5", func(ctx context.Context) (interface{}, error) {
		return "first", nil
	})
	waitForTerminal(t, r, "article-5")

	// A terminal entry does not block a fresh run under the same id.
	r.Enqueue("article-5", func(ctx context.Context) (interface{}, error) {
		return "second", nil
	})
	snap := waitForTerminal(t, r, "article-5")
	assert.Equal(t, "second", snap.Result)
}

func TestRegistry_TerminalStateFrozen(t *testing.T) {
	r := newTestRegistry()

	r.Enqueue("article-3", func(ctx context.Context) (interface{}, error) {
		return 42, nil
	})
	first := waitForTerminal(t, r, "article-3")

	// A late finish for the same id must not overwrite the terminal record.
	r.finish("article-3", nil, errors.New("late failure"))

	second, ok := r.GetStatus("article-3")
	require.True(t, ok)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Result, second.Result)
	assert.Empty(t, second.Error)
	assert.Equal(t, *first.CompletedAt, *second.CompletedAt)
}

func TestRegistry_GetStatusUnknown(t *testing.T) {
	r := newTestRegistry()

	_, ok := r.GetStatus("nonexistent")
	assert.False(t, ok)
}

func TestRegistry_CleanupOld(t *testing.T) {
	r := newTestRegistry()
	twoHoursAgo := time.Now().Add(-2 * time.Hour)

	// Seed records directly so ages are deterministic.
	r.mu.Lock()
	r.tasks["running-old"] = &record{id: "running-old", status: StatusRunning, createdAt: twoHoursAgo}
	r.tasks["done-old"] = &record{id: "done-old", status: StatusCompleted, createdAt: twoHoursAgo, completedAt: twoHoursAgo}
	r.tasks["done-fresh"] = &record{id: "done-fresh", status: StatusFailed, createdAt: time.Now(), completedAt: time.Now()}
	r.mu.Unlock()

	removed := r.CleanupOld(time.Hour)
	assert.Equal(t, 1, removed)

	_, ok := r.GetStatus("done-old")
	assert.False(t, ok)
	_, ok = r.GetStatus("running-old")
	assert.True(t, ok, "running entries are never evicted regardless of age")
	_, ok = r.GetStatus("done-fresh")
	assert.True(t, ok)
}

func TestRegistry_Stats(t *testing.T) {
	r := newTestRegistry()
	release := make(chan struct{})

	r.Enqueue("a", func(ctx context.Context) (interface{}, error) {
		<-release
		return nil, nil
	})
	r.Enqueue("b", func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("x")
	})
	waitForTerminal(t, r, "b")

	stats := r.Stats()
	assert.Equal(t, 1, stats[StatusRunning])
	assert.Equal(t, 1, stats[StatusFailed])
	assert.Equal(t, 0, stats[StatusCompleted])

	close(release)
	waitForTerminal(t, r, "a")
	stats = r.Stats()
	assert.Equal(t, 1, stats[StatusCompleted])
}
