package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-igdl-bot/internal/config"
	"telegram-igdl-bot/internal/domain"
	"telegram-igdl-bot/internal/domain/model"
	"telegram-igdl-bot/internal/domain/ports/adapter"
	"telegram-igdl-bot/internal/httpreq"
	"telegram-igdl-bot/internal/infra/metrics"
	"telegram-igdl-bot/internal/infra/worker"
)

// Telegram rejects text messages longer than this.
const maxMessageLen = 4096

// botAPI is the part of *tgbotapi.BotAPI the adapter uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// OffsetStore remembers the next update id to poll. SessionTracker implements it.
type OffsetStore interface {
	UpdateOffset() int
	AdvanceOffset(updateID int)
}

var _ adapter.Messenger = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter uses tgbotapi to poll updates and to deliver replies and media.
type RealTelegramBotAdapter struct {
	bot     botAPI
	cfg     *config.BotConfig
	offsets OffsetStore
	pool    *worker.Pool
	fetch   httpreq.Builder
	log     *zerolog.Logger
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, offsets OffsetStore, pool *worker.Pool, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram login: %w", err)
	}
	if cfg.Username == "" {
		cfg.Username = bot.Self.UserName
	}
	return newAdapter(bot, cfg, offsets, pool, logger), nil
}

func newAdapter(bot botAPI, cfg *config.BotConfig, offsets OffsetStore, pool *worker.Pool, logger *zerolog.Logger) *RealTelegramBotAdapter {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &RealTelegramBotAdapter{
		bot:     bot,
		cfg:     cfg,
		offsets: offsets,
		pool:    pool,
		// the transfer is bounded by the caller's upload timeout
		fetch: httpreq.New().Method("GET").Timeout(0).VerifyPeer(true),
		log:   logger,
	}
}

func (r *RealTelegramBotAdapter) Reply(ctx context.Context, to model.InboundMessage, text string, markdown bool) (model.SentMessage, error) {
	msg := tgbotapi.NewMessage(to.ChatID, truncate(text))
	msg.ReplyToMessageID = to.MessageID
	if markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	sent, err := r.bot.Send(msg)
	if err != nil {
		return model.SentMessage{}, fmt.Errorf("send message: %w", err)
	}
	return model.SentMessage{ChatID: to.ChatID, MessageID: sent.MessageID}, nil
}

func (r *RealTelegramBotAdapter) Edit(ctx context.Context, msg model.SentMessage, text string) error {
	if _, err := r.bot.Send(tgbotapi.NewEditMessageText(msg.ChatID, msg.MessageID, truncate(text))); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

func (r *RealTelegramBotAdapter) Delete(ctx context.Context, msg model.SentMessage) error {
	if _, err := r.bot.Request(tgbotapi.NewDeleteMessage(msg.ChatID, msg.MessageID)); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// Upload streams up.SourceURL straight into a Telegram upload; nothing is
// written to disk.
func (r *RealTelegramBotAdapter) Upload(ctx context.Context, up adapter.Upload) error {
	if _, err := url.ParseRequestURI(up.SourceURL); err != nil {
		return err
	}
	stream, err := r.fetch.URL(up.SourceURL).Stream(ctx)
	if err != nil {
		return fmt.Errorf("fetch media: %w", err)
	}
	defer stream.Close()
	if stream.StatusCode < 200 || stream.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", domain.ErrMediaUnavailable, stream.StatusCode)
	}

	pr := newProgressReader(stream, stream.ContentLength, up.Progress)
	file := tgbotapi.FileReader{Name: up.FileName, Reader: pr}

	if _, err := r.bot.Send(mediaConfig(up, file)); err != nil {
		return fmt.Errorf("send media: %w", err)
	}
	pr.finish()
	metrics.AddUploadBytes(pr.Count())
	return nil
}

func mediaConfig(up adapter.Upload, file tgbotapi.RequestFileData) tgbotapi.Chattable {
	switch up.Kind {
	case model.MediaVideo:
		v := tgbotapi.NewVideo(up.ChatID, file)
		v.Caption = up.Caption
		v.ReplyToMessageID = up.ReplyTo
		v.SupportsStreaming = true
		return v
	case model.MediaPhoto:
		p := tgbotapi.NewPhoto(up.ChatID, file)
		p.Caption = up.Caption
		p.ReplyToMessageID = up.ReplyTo
		return p
	default:
		d := tgbotapi.NewDocument(up.ChatID, file)
		d.Caption = up.Caption
		d.ReplyToMessageID = up.ReplyTo
		return d
	}
}

// Report sends text to every configured admin. It fails only if no admin got it.
func (r *RealTelegramBotAdapter) Report(ctx context.Context, text string) error {
	if len(r.cfg.AdminIDs) == 0 {
		r.log.Warn().Str("report", text).Msg("no report peers configured")
		return nil
	}
	var errs []error
	for _, id := range r.cfg.AdminIDs {
		if _, err := r.bot.Send(tgbotapi.NewMessage(id, truncate(text))); err != nil {
			errs = append(errs, fmt.Errorf("report to %d: %w", id, err))
		}
	}
	if len(errs) == len(r.cfg.AdminIDs) {
		return errors.Join(errs...)
	}
	for _, err := range errs {
		r.log.Warn().Err(err).Msg("report partially failed")
	}
	return nil
}

func truncate(text string) string {
	if len(text) <= maxMessageLen {
		return text
	}
	cut := text[:maxMessageLen-3]
	for !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut + "..."
}
