// Package store keeps snapshots of built project lists.
//
// A [Snapshot] freezes the projects of one user at one point in time, so a
// portfolio can be served while GitHub is unreachable or rate limited.
// [MemoryStore] keeps snapshots in process; [MongoStore] persists them in a
// MongoDB collection.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/folio/pkg/project"
)

// ErrNotFound is returned by Latest when a user has no snapshot.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is a saved project list.
type Snapshot struct {
	ID       uuid.UUID         `json:"id"`
	User     string            `json:"user"`
	TakenAt  time.Time         `json:"takenAt"`
	Projects []project.Project `json:"projects"`
}

// NewSnapshot returns a snapshot of projects taken now, with a fresh ID.
func NewSnapshot(user string, projects []project.Project) Snapshot {
	return Snapshot{
		ID:       uuid.New(),
		User:     normalizeUser(user),
		TakenAt:  time.Now().UTC(),
		Projects: projects,
	}
}

// Store saves snapshots and returns the latest one per user.
// Implementations are safe for concurrent use.
type Store interface {
	// Save stores s. Users are compared case-insensitively.
	Save(ctx context.Context, s Snapshot) error
	// Latest returns the most recent snapshot of user, or ErrNotFound.
	Latest(ctx context.Context, user string) (*Snapshot, error)
	// Close releases resources held by the store.
	Close() error
}

// GitHub logins are case-insensitive.
func normalizeUser(user string) string {
	return strings.ToLower(user)
}
