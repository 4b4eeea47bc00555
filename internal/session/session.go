package session

import (
	"sync"

	"github.com/spigell/hh-matcher/internal/matching"
	"github.com/spigell/hh-matcher/internal/skills"
)

// Session is the per-user state between calls.
type Session struct {
	ID string
	// Extracted keeps the categories of the last processed document. It is used to
	// pick search terms and is not updated by manual edits.
	Extracted *skills.Extracted
	Skills    *skills.Set
	// Batch is the ranked result of the last search. Nil means no search was run.
	Batch matching.Batch
}

// Store gives exclusive access to a session for the duration of fn.
type Store interface {
	Update(id string, fn func(s *Session) error) error
	Reset(id string)
}

type entry struct {
	mu      sync.Mutex
	session *Session
}

// MemoryStore keeps sessions in process memory. Calls for the same id are
// serialized, calls for different ids run in parallel.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*entry)}
}

func (m *MemoryStore) get(id string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		e = &entry{session: newSession(id)}
		m.entries[id] = e
	}
	return e
}

// Update runs fn with the session locked. A new empty session is created on first use.
func (m *MemoryStore) Update(id string, fn func(s *Session) error) error {
	e := m.get(id)

	e.mu.Lock()
	defer e.mu.Unlock()

	return fn(e.session)
}

// Reset replaces the session state with an empty one.
func (m *MemoryStore) Reset(id string) {
	e := m.get(id)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.session = newSession(id)
}

func newSession(id string) *Session {
	return &Session{ID: id, Skills: skills.NewSet()}
}
