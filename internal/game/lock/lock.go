// Package lock serialises mutation of characters: every engine operation holds
// exclusive rights on each character it reads-then-writes.
package lock

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTimeout is returned when a character lock could not be acquired within the wait bound.
var ErrTimeout = errors.New("timed out waiting for character lock")

// Manager hands out per-character exclusive locks. Locks are acquired in
// ascending ID order so two operations over the same pair never deadlock.
// An entry lives only while some caller holds or waits on it.
type Manager struct {
	mu      sync.Mutex
	entries map[int64]*entry
	timeout time.Duration
}

type entry struct {
	sem *semaphore.Weighted
	// refs counts holders plus waiters.
	refs int
}

// NewManager returns a Manager whose acquisitions give up after timeout.
//
// Precondition: timeout > 0.
func NewManager(timeout time.Duration) *Manager {
	return &Manager{
		entries: make(map[int64]*entry),
		timeout: timeout,
	}
}

func (m *Manager) ref(id int64) *semaphore.Weighted {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		m.entries[id] = e
	}
	e.refs++
	return e.sem
}

func (m *Manager) unref(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entries[id]
	e.refs--
	if e.refs == 0 {
		delete(m.entries, id)
	}
}

// Tracked returns how many characters currently have a lock entry.
func (m *Manager) Tracked() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Acquire locks every distinct id, lowest first, waiting at most the manager
// timeout overall. The returned release func unlocks in reverse order and is
// safe to call more than once.
//
// Postcondition: On error no locks are held; the error wraps ErrTimeout on
// contention or ctx.Err() on cancellation.
func (m *Manager) Acquire(ctx context.Context, ids ...int64) (func(), error) {
	ordered := slices.Clone(ids)
	slices.Sort(ordered)
	ordered = slices.Compact(ordered)

	waitCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	held := make([]int64, 0, len(ordered))
	sems := make([]*semaphore.Weighted, 0, len(ordered))
	unlock := func() {
		for i := len(held) - 1; i >= 0; i-- {
			sems[i].Release(1)
			m.unref(held[i])
		}
		held, sems = held[:0], sems[:0]
	}

	for _, id := range ordered {
		s := m.ref(id)
		if err := s.Acquire(waitCtx, 1); err != nil {
			m.unref(id)
			unlock()
			if ctx.Err() != nil {
				return nil, fmt.Errorf("locking character %d: %w", id, ctx.Err())
			}
			return nil, fmt.Errorf("locking character %d: %w", id, ErrTimeout)
		}
		held = append(held, id)
		sems = append(sems, s)
	}

	var once sync.Once
	return func() { once.Do(unlock) }, nil
}
