package telegram

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"telegram-igdl-bot/internal/domain/model"
	"telegram-igdl-bot/internal/domain/ports/adapter"
)

var _ adapter.Messenger = (*NoopMessenger)(nil)

// NoopMessenger implements adapter.Messenger for local/dev runs.
// It logs messages instead of sending them.
type NoopMessenger struct {
	log    *zerolog.Logger
	nextID int64
}

func NewNoopMessenger(logger *zerolog.Logger) *NoopMessenger {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &NoopMessenger{log: logger}
}

func (b *NoopMessenger) Reply(ctx context.Context, to model.InboundMessage, text string, markdown bool) (model.SentMessage, error) {
	if err := ctx.Err(); err != nil {
		return model.SentMessage{}, err
	}
	id := int(atomic.AddInt64(&b.nextID, 1))
	b.log.Info().Int64("chat_id", to.ChatID).Int("message_id", id).Bool("markdown", markdown).Str("text", text).Msg("[noop-telegram] reply")
	return model.SentMessage{ChatID: to.ChatID, MessageID: id}, nil
}

func (b *NoopMessenger) Edit(ctx context.Context, msg model.SentMessage, text string) error {
	b.log.Info().Int64("chat_id", msg.ChatID).Int("message_id", msg.MessageID).Str("text", text).Msg("[noop-telegram] edit")
	return nil
}

func (b *NoopMessenger) Delete(ctx context.Context, msg model.SentMessage) error {
	b.log.Info().Int64("chat_id", msg.ChatID).Int("message_id", msg.MessageID).Msg("[noop-telegram] delete")
	return nil
}

func (b *NoopMessenger) Upload(ctx context.Context, up adapter.Upload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.log.Info().
		Int64("chat_id", up.ChatID).
		Str("kind", string(up.Kind)).
		Str("file", up.FileName).
		Str("source", up.SourceURL).
		Msg("[noop-telegram] upload")
	if up.Progress != nil {
		up.Progress(100)
	}
	return nil
}

func (b *NoopMessenger) Report(ctx context.Context, text string) error {
	b.log.Warn().Str("text", text).Msg("[noop-telegram] report")
	return nil
}
