// Package status tracks the connectivity of the backing databases as
// observed once at process start.
package status

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the connectivity of one database.
type State string

const (
	Disconnected State = "disconnected"
	Connected    State = "connected"
	Errored      State = "error"
)

// Database names reported by the status endpoint.
const (
	MongoDB    = "mongodb"
	PostgreSQL = "postgresql"
	Redis      = "redis"
)

// Probe performs a single connection attempt.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// Tracker holds one State per database. Every database starts
// Disconnected and moves at most once, to Connected or Errored.
type Tracker struct {
	mu      sync.RWMutex
	states  map[string]State
	logger  *zap.Logger
	timeout time.Duration
}

// NewTracker creates a tracker for the named databases.
func NewTracker(logger *zap.Logger, timeout time.Duration, names ...string) *Tracker {
	states := make(map[string]State, len(names))
	for _, name := range names {
		states[name] = Disconnected
	}
	return &Tracker{states: states, logger: logger, timeout: timeout}
}

// Start runs every probe concurrently, once, and returns a channel closed
// when all of them have resolved. Failed probes are not retried.
func (t *Tracker) Start(ctx context.Context, probes ...Probe) <-chan struct{} {
	done := make(chan struct{})
	var wg sync.WaitGroup
	for _, p := range probes {
		t.ensure(p.Name)
		wg.Add(1)
		go func(p Probe) {
			defer wg.Done()
			t.run(ctx, p)
		}(p)
	}
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}

func (t *Tracker) run(ctx context.Context, p Probe) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	if err := p.Check(ctx); err != nil {
		t.logger.Warn("database unreachable", zap.String("database", p.Name), zap.Error(err))
		t.set(p.Name, Errored)
		return
	}
	t.set(p.Name, Connected)
}

func (t *Tracker) ensure(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.states[name]; !ok {
		t.states[name] = Disconnected
	}
}

func (t *Tracker) set(name string, s State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[name] = s
}

// Get returns the state of one database.
func (t *Tracker) Get(name string) State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if s, ok := t.states[name]; ok {
		return s
	}
	return Disconnected
}

// Snapshot returns a copy of every tracked state.
func (t *Tracker) Snapshot() map[string]State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]State, len(t.states))
	for k, v := range t.states {
		out[k] = v
	}
	return out
}
