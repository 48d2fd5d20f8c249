package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"telegram-igdl-bot/internal/domain/model"
	"telegram-igdl-bot/internal/infra/logging"
	"telegram-igdl-bot/internal/infra/metrics"
)

// UpdateHandler is the application side of the bot. LinkFacade implements it.
type UpdateHandler interface {
	HandleStart(ctx context.Context, msg model.InboundMessage) error
	HandleLink(ctx context.Context, msg model.InboundMessage) error
}

type commandHandler func(ctx context.Context, msg model.InboundMessage) error

// commandRoutes maps slash commands to handlers. Anything else is treated as a link.
func commandRoutes(h UpdateHandler) map[string]commandHandler {
	return map[string]commandHandler{
		"start": h.HandleStart,
	}
}

// StartPolling long-polls from the stored offset and hands every update to
// the worker pool. It returns when ctx is done or the update channel closes.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context, h UpdateHandler) error {
	u := tgbotapi.NewUpdate(r.offsets.UpdateOffset())
	u.Timeout = 60
	u.AllowedUpdates = []string{"message"}
	updates := r.bot.GetUpdatesChan(u)
	defer r.bot.StopReceivingUpdates()

	routes := commandRoutes(h)
	r.log.Info().Int("offset", u.Offset).Msg("telegram polling started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case up, ok := <-updates:
			if !ok {
				return nil
			}
			err := r.pool.SubmitWait(ctx, func(ctx context.Context) error {
				defer r.offsets.AdvanceOffset(up.UpdateID)
				return r.handleUpdate(ctx, routes, h, up)
			})
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return ctx.Err()
				}
				r.log.Warn().Err(err).Int("update_id", up.UpdateID).Msg("update dropped")
				r.offsets.AdvanceOffset(up.UpdateID)
			}
		}
	}
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, routes map[string]commandHandler, h UpdateHandler, update tgbotapi.Update) error {
	msg, ok := inboundFromUpdate(update)
	if !ok || !msg.Private || msg.Edited || msg.Text == "" {
		return nil
	}
	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithTgID(ctx, msg.SenderID)
	ctx = logging.WithChatID(ctx, msg.ChatID)

	m := update.Message
	if m.IsCommand() {
		metrics.IncTelegramCommand("/" + m.Command())
		if handler, found := routes[m.Command()]; found {
			return handler(ctx, msg)
		}
	} else {
		metrics.IncTelegramCommand("message")
	}
	return h.HandleLink(ctx, msg)
}

// inboundFromUpdate keeps only incoming messages from humans.
func inboundFromUpdate(update tgbotapi.Update) (model.InboundMessage, bool) {
	m := update.Message
	edited := false
	if m == nil {
		m = update.EditedMessage
		edited = true
	}
	if m == nil || m.From == nil || m.Chat == nil || m.From.IsBot {
		return model.InboundMessage{}, false
	}
	return model.InboundMessage{
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		SenderID:  m.From.ID,
		Username:  m.From.UserName,
		Private:   m.Chat.IsPrivate(),
		Edited:    edited || m.EditDate != 0,
		Text:      m.Text,
	}, true
}
