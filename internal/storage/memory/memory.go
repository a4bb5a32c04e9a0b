// Package memory provides an in-process implementation of store.Store for
// tests and single-process tooling.
//
// Transactions are serialised behind one mutex and operate on a private copy of
// the state that replaces the committed state only when the transaction succeeds.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cory-johannsen/doorgame/internal/game/activity"
	"github.com/cory-johannsen/doorgame/internal/game/character"
	"github.com/cory-johannsen/doorgame/internal/game/store"
)

type state struct {
	characters map[int64]character.Character
	entries    []activity.Entry
	nextCharID int64
	nextLogID  int64
}

func (s *state) clone() *state {
	out := &state{
		characters: make(map[int64]character.Character, len(s.characters)),
		entries:    make([]activity.Entry, len(s.entries)),
		nextCharID: s.nextCharID,
		nextLogID:  s.nextLogID,
	}
	for id, c := range s.characters {
		out.characters[id] = c
	}
	copy(out.entries, s.entries)
	return out
}

// Store is an in-memory store.Store.
type Store struct {
	mu        sync.Mutex
	committed *state
	// failCommit, when set, aborts the next commit with this error.
	failCommit error
}

// New returns an empty Store.
func New() *Store {
	return &Store{committed: &state{
		characters: make(map[int64]character.Character),
		nextCharID: 1,
		nextLogID:  1,
	}}
}

// FailNextCommit makes the next transaction roll back with err at commit time,
// after fn has run successfully.
func (s *Store) FailNextCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCommit = err
}

// WithTx runs fn against a private copy of the state.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{st: s.committed.clone()}
	if err := fn(ctx, t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.failCommit != nil {
		err := s.failCommit
		s.failCommit = nil
		return err
	}
	s.committed = t.st
	return nil
}

// Character returns a copy of the committed character, for assertions.
func (s *Store) Character(id int64) (*character.Character, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.committed.characters[id]
	if !ok {
		return nil, false
	}
	return &c, true
}

// Activity returns a copy of every committed entry addressed to toID, oldest first.
func (s *Store) Activity(toID int64) []activity.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []activity.Entry
	for _, e := range s.committed.entries {
		if e.ToID == toID {
			out = append(out, e)
		}
	}
	return out
}

// ActivityCount returns the number of committed entries for all recipients.
func (s *Store) ActivityCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.committed.entries)
}

var (
	_ store.Store = (*Store)(nil)
	_ store.Tx    = (*tx)(nil)
)

type tx struct {
	st *state
}

func (t *tx) Character(_ context.Context, id int64) (*character.Character, error) {
	c, ok := t.st.characters[id]
	if !ok {
		return nil, store.ErrCharacterNotFound
	}
	return &c, nil
}

// PeekCharacter is Character; transactions here are already serialised.
func (t *tx) PeekCharacter(ctx context.Context, id int64) (*character.Character, error) {
	return t.Character(ctx, id)
}

func (t *tx) CharactersAt(_ context.Context, cellID int64, since time.Time) ([]*character.Character, error) {
	var out []*character.Character
	for _, c := range t.st.characters {
		if c.CellID == cellID && c.HereSince.After(since) {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *tx) CreateCharacter(_ context.Context, c *character.Character) (*character.Character, error) {
	for _, existing := range t.st.characters {
		if strings.EqualFold(existing.Handle, c.Handle) {
			return nil, store.ErrHandleTaken
		}
	}
	out := *c
	out.ID = t.st.nextCharID
	t.st.nextCharID++
	t.st.characters[out.ID] = out
	return &out, nil
}

func (t *tx) SaveCharacter(_ context.Context, c *character.Character) error {
	if _, ok := t.st.characters[c.ID]; !ok {
		return store.ErrCharacterNotFound
	}
	t.st.characters[c.ID] = *c
	return nil
}

func (t *tx) CreateActivity(_ context.Context, entries []activity.Entry) error {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	for _, e := range entries {
		e.ID = t.st.nextLogID
		t.st.nextLogID++
		t.st.entries = append(t.st.entries, e)
	}
	return nil
}

func (t *tx) Inbox(_ context.Context, toID int64, limit int) ([]activity.Entry, error) {
	var out []activity.Entry
	for i := len(t.st.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if e := t.st.entries[i]; e.ToID == toID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (t *tx) PurgeViewed(_ context.Context, toID int64, cutoff time.Time) error {
	kept := t.st.entries[:0:0]
	for _, e := range t.st.entries {
		if e.ToID == toID && e.Viewed && (e.CreatedAt.Before(cutoff) || e.Category.Transient()) {
			continue
		}
		kept = append(kept, e)
	}
	t.st.entries = kept
	return nil
}

func (t *tx) MarkViewed(_ context.Context, toID int64) error {
	for i := range t.st.entries {
		if t.st.entries[i].ToID == toID {
			t.st.entries[i].Viewed = true
		}
	}
	return nil
}
