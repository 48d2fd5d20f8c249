package adapter

import (
	"context"

	"telegram-igdl-bot/internal/domain/model"
)

// ProgressFunc receives upload progress as an integer percent (0-100).
type ProgressFunc func(percent int)

// Upload describes one media file to deliver into a chat. SourceURL is
// fetched and relayed by the messenger.
type Upload struct {
	ChatID    int64
	ReplyTo   int
	SourceURL string
	FileName  string
	Caption   string
	Kind      model.MediaKind
	Progress  ProgressFunc
}

// Messenger is the chat platform as seen by the application layer.
type Messenger interface {
	Reply(ctx context.Context, to model.InboundMessage, text string, markdown bool) (model.SentMessage, error)
	Edit(ctx context.Context, msg model.SentMessage, text string) error
	Delete(ctx context.Context, msg model.SentMessage) error
	Upload(ctx context.Context, up Upload) error
	// Report forwards an operator alert to the configured report peers.
	Report(ctx context.Context, text string) error
}
