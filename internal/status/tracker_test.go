package status

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTrackerStartsDisconnected(t *testing.T) {
	tr := NewTracker(zap.NewNop(), time.Second, MongoDB, PostgreSQL, Redis)

	assert.Equal(t, map[string]State{
		MongoDB:    Disconnected,
		PostgreSQL: Disconnected,
		Redis:      Disconnected,
	}, tr.Snapshot())
}

func TestTrackerResolvesProbesIndependently(t *testing.T) {
	tr := NewTracker(zap.NewNop(), time.Second, MongoDB, PostgreSQL, Redis)
	release := make(chan struct{})

	done := tr.Start(context.Background(),
		Probe{Name: MongoDB, Check: func(context.Context) error { return nil }},
		Probe{Name: PostgreSQL, Check: func(context.Context) error { return errors.New("refused") }},
		Probe{Name: Redis, Check: func(context.Context) error { <-release; return nil }},
	)

	assert.Eventually(t, func() bool {
		return tr.Get(MongoDB) == Connected && tr.Get(PostgreSQL) == Errored
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, Disconnected, tr.Get(Redis))

	close(release)
	<-done
	assert.Equal(t, Connected, tr.Get(Redis))
}

func TestTrackerProbesRunOnce(t *testing.T) {
	tr := NewTracker(zap.NewNop(), time.Second, Redis)
	var calls int32

	<-tr.Start(context.Background(), Probe{Name: Redis, Check: func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("down")
	}})

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, Errored, tr.Get(Redis))
}

func TestTrackerAppliesTimeout(t *testing.T) {
	tr := NewTracker(zap.NewNop(), 10*time.Millisecond, MongoDB)

	<-tr.Start(context.Background(), Probe{Name: MongoDB, Check: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})

	assert.Equal(t, Errored, tr.Get(MongoDB))
}
