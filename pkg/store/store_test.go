package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/folio/pkg/project"
)

func TestNewSnapshot(t *testing.T) {
	s := NewSnapshot("OctoCat", []project.Project{{Title: "hello"}})
	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, "octocat", s.User)
	assert.WithinDuration(t, time.Now(), s.TakenAt, time.Minute)
	assert.Len(t, s.Projects, 1)
}

// storeContract runs the behavior every Store must share.
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Latest(ctx, "nobody")
	require.ErrorIs(t, err, ErrNotFound)

	older := NewSnapshot("octocat", []project.Project{{Title: "old"}})
	older.TakenAt = time.Now().Add(-time.Hour).UTC().Truncate(time.Millisecond)
	newer := NewSnapshot("octocat", []project.Project{{Title: "new"}})
	newer.TakenAt = newer.TakenAt.Truncate(time.Millisecond)

	require.NoError(t, s.Save(ctx, newer))
	require.NoError(t, s.Save(ctx, older))

	got, err := s.Latest(ctx, "OCTOCAT")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)
	require.Len(t, got.Projects, 1)
	assert.Equal(t, "new", got.Projects[0].Title)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Save(ctx, NewSnapshot("octocat", nil))
			_, _ = s.Latest(ctx, "octocat")
		}()
	}
	wg.Wait()

	_, err := s.Latest(ctx, "octocat")
	assert.NoError(t, err)
}
