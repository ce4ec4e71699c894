package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubWorker struct {
	name     string
	startErr error
	stopErr  error
	started  atomic.Bool
	stopped  atomic.Bool
	stopSeq  *[]string
}

func (s *stubWorker) Name() string { return s.name }

func (s *stubWorker) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	s.started.Store(true)
	return nil
}

func (s *stubWorker) Stop() error {
	s.stopped.Store(true)
	if s.stopSeq != nil {
		*s.stopSeq = append(*s.stopSeq, s.name)
	}
	return s.stopErr
}

func TestManager_StartAndStopAll(t *testing.T) {
	var order []string
	a := &stubWorker{name: "a", stopSeq: &order}
	b := &stubWorker{name: "b", stopSeq: &order}

	m := NewManager(zap.NewNop())
	m.Register(a)
	m.Register(b)
	assert.Equal(t, 2, m.Count())

	require.NoError(t, m.StartAll(context.Background()))
	assert.True(t, m.IsRunning())
	assert.True(t, a.started.Load())
	assert.True(t, b.started.Load())

	assert.Error(t, m.StartAll(context.Background()), "second start is refused")

	require.NoError(t, m.StopAll())
	assert.False(t, m.IsRunning())
	assert.Equal(t, []string{"b", "a"}, order)

	// Stopping again is a no-op
	assert.NoError(t, m.StopAll())
}

func TestManager_SkipsWorkerThatFailsToStart(t *testing.T) {
	bad := &stubWorker{name: "bad", startErr: errors.New("boom")}
	good := &stubWorker{name: "good"}

	m := NewManager(zap.NewNop())
	m.Register(bad)
	m.Register(good)

	require.NoError(t, m.StartAll(context.Background()))
	assert.False(t, bad.started.Load())
	assert.True(t, good.started.Load())
	require.NoError(t, m.StopAll())
}

func TestManager_ReportsStopFailures(t *testing.T) {
	m := NewManager(zap.NewNop())
	m.Register(&stubWorker{name: "x", stopErr: errors.New("stuck")})

	require.NoError(t, m.StartAll(context.Background()))
	err := m.StopAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 workers")
}

func TestLoopWorker_RunsUntilStopped(t *testing.T) {
	var ticks atomic.Int32
	exited := make(chan struct{})

	w := NewLoopWorker("sweeper", func(ctx context.Context) {
		defer close(exited)
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ticks.Add(1)
			}
		}
	})
	assert.Equal(t, "sweeper", w.Name())

	require.NoError(t, w.Start(context.Background()))
	assert.True(t, w.Running())
	assert.Error(t, w.Start(context.Background()))

	assert.Eventually(t, func() bool { return ticks.Load() > 0 }, time.Second, time.Millisecond)

	require.NoError(t, w.Stop())
	assert.False(t, w.Running())
	select {
	case <-exited:
	default:
		t.Fatal("loop still running after Stop")
	}

	assert.NoError(t, w.Stop())
}

func TestLoopWorker_StopsWhenParentCancelled(t *testing.T) {
	exited := make(chan struct{})
	w := NewLoopWorker("loop", func(ctx context.Context) {
		<-ctx.Done()
		close(exited)
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("loop did not observe parent cancellation")
	}
	require.NoError(t, w.Stop())
}
