package repository

import (
	"context"

	"telegram-igdl-bot/internal/domain/model"
)

// SessionRepository persists the bot session. Load returns domain.ErrNotFound
// when nothing was saved yet.
type SessionRepository interface {
	Load(ctx context.Context) (*model.Session, error)
	Save(ctx context.Context, s *model.Session) error
}
