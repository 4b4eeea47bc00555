package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/hh-matcher/internal/matching"
)

func TestUpdateSerializesPerSession(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Update("alice", func(s *Session) error {
				s.Skills.Add(fmt.Sprintf("skill-%d", i))
				return nil
			})
		}(i)
	}
	wg.Wait()

	require.NoError(t, store.Update("alice", func(s *Session) error {
		assert.Equal(t, 50, s.Skills.Len())
		return nil
	}))
}

func TestSessionsAreIndependent(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Update("alice", func(s *Session) error {
		s.Skills.Add("go")
		s.Batch = matching.Batch{{Count: 1}}
		return nil
	}))

	require.NoError(t, store.Update("bob", func(s *Session) error {
		assert.Equal(t, "bob", s.ID)
		assert.Zero(t, s.Skills.Len())
		assert.Nil(t, s.Batch)
		return nil
	}))

	require.NoError(t, store.Update("alice", func(s *Session) error {
		assert.Equal(t, []string{"go"}, s.Skills.Terms())
		assert.Len(t, s.Batch, 1)
		return nil
	}))
}

func TestUpdateReturnsError(t *testing.T) {
	store := NewMemoryStore()
	boom := errors.New("boom")

	err := store.Update("alice", func(*Session) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestReset(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Update("alice", func(s *Session) error {
		s.Skills.Add("go")
		return nil
	}))

	store.Reset("alice")

	require.NoError(t, store.Update("alice", func(s *Session) error {
		assert.Zero(t, s.Skills.Len())
		assert.Nil(t, s.Extracted)
		return nil
	}))
}
