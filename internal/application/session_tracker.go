package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-igdl-bot/internal/domain"
	"telegram-igdl-bot/internal/domain/model"
	"telegram-igdl-bot/internal/domain/ports/repository"
	"telegram-igdl-bot/internal/infra/metrics"
)

// SessionTracker owns the in-memory session and persists it through a
// SessionRepository when it has changed.
type SessionTracker struct {
	mu    sync.Mutex
	repo  repository.SessionRepository
	s     *model.Session
	dirty bool
	log   *zerolog.Logger
	now   func() time.Time
}

var _ UserTracker = (*SessionTracker)(nil)

func NewSessionTracker(repo repository.SessionRepository, logger *zerolog.Logger) *SessionTracker {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &SessionTracker{repo: repo, s: model.NewSession(), log: logger, now: time.Now}
}

// Load replaces the in-memory session with the stored one. A missing session
// starts fresh; one written by a newer version fails with domain.ErrSessionVersion.
func (t *SessionTracker) Load(ctx context.Context) error {
	s, err := t.repo.Load(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		t.log.Info().Msg("no stored session, starting fresh")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	migrated, changed, err := migrateSession(s)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.s = migrated
	t.dirty = changed
	t.mu.Unlock()

	t.log.Info().
		Int("version", migrated.Version).
		Int("users", len(migrated.Users)).
		Int("offset", migrated.UpdateOffset).
		Msg("session loaded")
	return nil
}

// migrateSession upgrades older layouts in place. Version 0 predates the
// version field and may lack the users map.
func migrateSession(s *model.Session) (*model.Session, bool, error) {
	if s.Version > model.SessionVersion {
		return nil, false, fmt.Errorf("%w: got %d, support %d", domain.ErrSessionVersion, s.Version, model.SessionVersion)
	}
	changed := false
	if s.Version == 0 {
		if s.Users == nil {
			s.Users = make(map[int64]model.UserRecord)
		}
		if s.UpdateOffset < 0 {
			s.UpdateOffset = 0
		}
		s.Version = 1
		changed = true
	}
	if s.Users == nil {
		s.Users = make(map[int64]model.UserRecord)
	}
	return s, changed, nil
}

func (t *SessionTracker) Touch(userID int64, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	u, ok := t.s.Users[userID]
	if !ok {
		u.FirstSeen = now
	}
	u.LastSeen = now
	t.s.Users[userID] = u
	t.dirty = true
	return !ok
}

func (t *SessionTracker) RecordDownload(userID int64, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	u, ok := t.s.Users[userID]
	if !ok {
		u.FirstSeen = now
	}
	u.LastSeen = now
	u.Downloads++
	t.s.Users[userID] = u
	t.dirty = true
}

// UpdateOffset is the first update id the poller should ask for.
func (t *SessionTracker) UpdateOffset() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.s.UpdateOffset
}

// AdvanceOffset records that updateID was handled. The offset never moves back.
func (t *SessionTracker) AdvanceOffset(updateID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if next := updateID + 1; next > t.s.UpdateOffset {
		t.s.UpdateOffset = next
		t.dirty = true
	}
}

func (t *SessionTracker) Stats() model.SessionStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.s.Stats()
}

// Snapshot returns a copy of the current session.
func (t *SessionTracker) Snapshot() *model.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.s.Clone()
}

// Flush saves the session if anything changed since the last successful save.
func (t *SessionTracker) Flush(ctx context.Context) error {
	t.mu.Lock()
	if !t.dirty {
		t.mu.Unlock()
		return nil
	}
	snap := t.s.Clone()
	snap.SavedAt = t.now()
	t.dirty = false
	t.mu.Unlock()

	if err := t.repo.Save(ctx, snap); err != nil {
		t.mu.Lock()
		t.dirty = true
		t.mu.Unlock()
		metrics.IncSessionFlush("error")
		return fmt.Errorf("save session: %w", err)
	}

	t.mu.Lock()
	t.s.SavedAt = snap.SavedAt
	t.mu.Unlock()
	metrics.IncSessionFlush("ok")
	t.log.Debug().Int("users", len(snap.Users)).Int("offset", snap.UpdateOffset).Msg("session flushed")
	return nil
}
