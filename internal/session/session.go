// Package session holds the client-side session state: a persisted snapshot
// of the logged-in user plus a supervisor that notices when the session
// disappears. The store is an explicit object owned by the application
// shell, not a package-level singleton, and every storage fault degrades to
// "not authenticated" instead of propagating.
package session

import (
	"encoding/json"
	"log/slog"

	"github.com/hasanbasri/attendance-management/internal/auth"
)

// SnapshotKey is the well-known storage key the session snapshot lives
// under. Older client builds kept extra keys next to it; ClearSession
// removes those too.
const SnapshotKey = "current_user"

var legacyKeys = []string{"logged_in", "user_role"}

// Store persists "is a user logged in" plus their last-known profile.
// Cached capability flags may be stale relative to the credential store;
// staleness is resolved only by an explicit permission refresh overwriting
// the snapshot via StartSession.
type Store struct {
	storage Storage
	logger  *slog.Logger
}

func NewStore(storage Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{storage: storage, logger: logger}
}

// IsAuthenticated reports whether a non-empty snapshot is present. It never
// fails: a broken storage backend reads as "not authenticated".
func (s *Store) IsAuthenticated() bool {
	data, err := s.storage.Get(SnapshotKey)
	if err != nil {
		if err != ErrNotFound {
			s.logger.Warn("session storage unavailable, treating as unauthenticated", "error", err)
		}
		return false
	}
	return len(data) > 0
}

// StartSession persists the snapshot, unconditionally overwriting any prior
// session. The snapshot is taken as given; validating it is the caller's
// responsibility.
func (s *Store) StartSession(snap *auth.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := s.storage.Set(SnapshotKey, data); err != nil {
		s.logger.Error("failed to persist session snapshot", "error", err)
		return err
	}
	return nil
}

// ClearSession removes the snapshot and any legacy auxiliary keys. Safe to
// call when no session exists.
func (s *Store) ClearSession() {
	if err := s.storage.Delete(SnapshotKey); err != nil {
		s.logger.Warn("failed to clear session snapshot", "error", err)
	}
	for _, key := range legacyKeys {
		if err := s.storage.Delete(key); err != nil {
			s.logger.Warn("failed to clear legacy session key", "key", key, "error", err)
		}
	}
}

// CurrentUser returns the cached snapshot, or nil when absent. Corrupt data
// reads as absent; the parse error is logged, never propagated.
func (s *Store) CurrentUser() *auth.Snapshot {
	data, err := s.storage.Get(SnapshotKey)
	if err != nil {
		if err != ErrNotFound {
			s.logger.Warn("session storage unavailable, no current user", "error", err)
		}
		return nil
	}

	var snap auth.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("session snapshot corrupt, treating as absent", "error", err)
		return nil
	}
	return &snap
}
