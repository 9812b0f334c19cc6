package ratelimit

import (
	"sync"
	"time"
)

// Store records hits per key inside fixed windows.
type Store interface {
	// Hit counts one request for key at now. A new window starts when none
	// exists or the current one has elapsed. The returned count includes this hit.
	Hit(key string, now time.Time, window time.Duration) (count int, windowStart time.Time)
}

type windowState struct {
	start     time.Time
	expiresAt time.Time
	count     int
}

// MemoryStore keeps windows in process memory. State is lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]windowState

	cleanupInterval time.Duration
	now             func() time.Time
	stop            chan struct{}
	stopOnce        sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often expired windows are pruned.
// Zero disables the background loop.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// WithStoreClock overrides the clock used by the prune loop.
func WithStoreClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		windows:         make(map[string]windowState),
		cleanupInterval: time.Minute,
		now:             time.Now,
		stop:            make(chan struct{}),
	}

	for _, opt := range opts {
		opt(ms)
	}

	if ms.cleanupInterval > 0 {
		go ms.cleanupLoop()
	}

	return ms
}

func (ms *MemoryStore) Hit(key string, now time.Time, window time.Duration) (int, time.Time) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	state, ok := ms.windows[key]
	if !ok || !now.Before(state.expiresAt) {
		state = windowState{start: now, expiresAt: now.Add(window)}
	}
	state.count++
	ms.windows[key] = state
	return state.count, state.start
}

// Len reports how many windows are currently tracked.
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.windows)
}

// Prune drops every window that has elapsed at now.
func (ms *MemoryStore) Prune(now time.Time) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	removed := 0
	for key, state := range ms.windows {
		if !now.Before(state.expiresAt) {
			delete(ms.windows, key)
			removed++
		}
	}
	return removed
}

// Close stops the background prune loop. Safe to call more than once.
func (ms *MemoryStore) Close() error {
	ms.stopOnce.Do(func() {
		close(ms.stop)
	})
	return nil
}

func (ms *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stop:
			return
		case <-ticker.C:
			ms.Prune(ms.now())
		}
	}
}
