package application

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-igdl-bot/internal/cobalt"
	"telegram-igdl-bot/internal/domain/model"
	"telegram-igdl-bot/internal/domain/ports/adapter"
	"telegram-igdl-bot/internal/infra/logging"
	"telegram-igdl-bot/internal/infra/metrics"
)

// LinkFacadeConfig carries the knobs the facade needs from config.Config.
type LinkFacadeConfig struct {
	BotUsername      string
	ResolveTimeout   time.Duration
	UploadTimeout    time.Duration
	ProgressInterval time.Duration

	VideoQuality    string
	VideoCodec      string
	AudioFormat     string
	FilenamePattern string
	AcceptLanguage  string
	DisableMetadata bool
}

// LinkFacade turns incoming chat messages into Cobalt lookups and uploads.
type LinkFacade struct {
	messenger adapter.Messenger
	resolver  adapter.MediaResolver
	tr        Translator
	users     UserTracker
	cfg       LinkFacadeConfig
	log       *zerolog.Logger

	now      func() time.Time
	randIntn func(int) int
}

// NewLinkFacade validates the configured Cobalt defaults eagerly so a bad
// value fails at startup instead of on the first link.
func NewLinkFacade(
	messenger adapter.Messenger,
	resolver adapter.MediaResolver,
	tr Translator,
	users UserTracker,
	cfg LinkFacadeConfig,
	logger *zerolog.Logger,
) (*LinkFacade, error) {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = 10 * time.Second
	}
	f := &LinkFacade{
		messenger: messenger,
		resolver:  resolver,
		tr:        tr,
		users:     users,
		cfg:       cfg,
		log:       logger,
		now:       time.Now,
		randIntn:  rand.IntN,
	}
	if _, err := f.newOptions(""); err != nil {
		return nil, fmt.Errorf("cobalt defaults: %w", err)
	}
	return f, nil
}

// HandleStart greets the user.
func (f *LinkFacade) HandleStart(ctx context.Context, msg model.InboundMessage) error {
	f.touch(msg)
	_, err := f.messenger.Reply(ctx, msg, f.tr.T("welcome_message"), true)
	return err
}

// HandleLink resolves an Instagram link and uploads what Cobalt returns.
// Only failures to talk to the user are returned; everything else is
// answered in the chat.
func (f *LinkFacade) HandleLink(ctx context.Context, msg model.InboundMessage) error {
	log := logging.With(ctx, f.log)
	defer logging.TraceDuration(log, "LinkFacade.HandleLink")()

	link := strings.TrimSpace(msg.Text)
	if link == "/start" {
		return nil
	}
	f.touch(msg)

	if !IsInstagramURL(link) {
		metrics.IncLinkRejected()
		return f.reply(ctx, msg, f.tr.T("invalid_link"))
	}

	opts, err := f.newOptions(link)
	if err != nil {
		return f.reply(ctx, msg, f.tr.T("download_failed_reason", err.Error()))
	}

	rctx := ctx
	if f.cfg.ResolveTimeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, f.cfg.ResolveTimeout)
		defer cancel()
	}
	res, err := f.resolver.Dispatch(rctx, opts)
	if err != nil {
		log.Warn().Err(err).Str("link", link).Msg("cobalt dispatch failed")
		return f.reply(ctx, msg, f.tr.T("download_failed_reason", err.Error()))
	}
	if !res.OK {
		log.Info().Int("status", res.StatusCode).Str("text", res.Text).Msg("cobalt returned no media")
		return f.reply(ctx, msg, f.tr.T("download_failed_reason", res.Text))
	}

	poweredBy := f.tr.T("caption_powered_by", f.cfg.BotUsername)
	media := res.Media()
	switch media.Kind() {
	case cobalt.KindSingle:
		f.deliver(ctx, msg, adapter.Upload{
			SourceURL: media.URL,
			FileName:  f.fileName("video", "mp4"),
			Caption:   poweredBy,
			Kind:      model.MediaDocument,
		})
	case cobalt.KindPicker:
		for i, item := range media.Picker {
			up := adapter.Upload{
				SourceURL: item.URL,
				Caption:   f.tr.T("caption_file", i+1) + "\n" + poweredBy,
			}
			switch item.Type {
			case "video":
				up.Kind, up.FileName = model.MediaVideo, f.fileName("video", "mp4")
			case "photo":
				up.Kind, up.FileName = model.MediaPhoto, f.fileName("photo", "jpg")
			default:
				log.Debug().Str("type", item.Type).Int("index", i+1).Msg("skipping picker item")
				continue
			}
			f.deliver(ctx, msg, up)
		}
	default:
		return f.reply(ctx, msg, f.tr.T("download_failed"))
	}

	f.users.RecordDownload(msg.SenderID, f.now())
	return nil
}

// deliver uploads one file while keeping a status message up to date.
// Errors end up in the status message; they are not returned.
func (f *LinkFacade) deliver(ctx context.Context, msg model.InboundMessage, up adapter.Upload) {
	log := logging.With(ctx, f.log)
	up.ChatID = msg.ChatID
	up.ReplyTo = msg.MessageID

	status, err := f.messenger.Reply(ctx, msg, f.tr.T("upload_preparing"), false)
	if err != nil {
		log.Error().Err(err).Msg("send status message")
		return
	}

	var (
		mu    sync.Mutex
		state ProgressState
	)
	up.Progress = func(percent int) {
		mu.Lock()
		defer mu.Unlock()
		ok, next := ShouldReport(state, f.now(), percent, f.cfg.ProgressInterval)
		if !ok {
			return
		}
		state = next
		if err := f.messenger.Edit(ctx, status, f.tr.T("upload_progress", percent)); err != nil {
			log.Debug().Err(err).Int("percent", percent).Msg("progress edit failed")
		}
	}

	uctx := ctx
	if f.cfg.UploadTimeout > 0 {
		var cancel context.CancelFunc
		uctx, cancel = context.WithTimeout(ctx, f.cfg.UploadTimeout)
		defer cancel()
	}

	err = f.messenger.Upload(uctx, up)
	if err == nil {
		metrics.IncUpload(string(up.Kind), "ok")
		if err := f.messenger.Delete(ctx, status); err != nil {
			log.Warn().Err(err).Msg("delete status message")
		}
		return
	}

	if IsDeliveryError(err) {
		metrics.IncUpload(string(up.Kind), "delivery_error")
		log.Warn().Err(err).Str("source", up.SourceURL).Msg("media delivery failed")
	} else {
		metrics.IncUpload(string(up.Kind), "error")
		log.Error().Err(err).Str("source", up.SourceURL).Msg("upload failed")
		report := f.tr.T("report_upload_failure", msg.ChatID, up.SourceURL, err.Error())
		if rerr := f.messenger.Report(ctx, report); rerr != nil {
			log.Error().Err(rerr).Msg("report upload failure")
		}
	}

	if eerr := f.messenger.Edit(ctx, status, f.tr.T("upload_error", errorText(err))); eerr != nil {
		log.Error().Err(eerr).Msg("edit status message")
	}
}

func (f *LinkFacade) reply(ctx context.Context, msg model.InboundMessage, text string) error {
	_, err := f.messenger.Reply(ctx, msg, text, false)
	return err
}

func (f *LinkFacade) touch(msg model.InboundMessage) {
	if f.users.Touch(msg.SenderID, f.now()) {
		metrics.IncUsersSeen()
	}
}

func (f *LinkFacade) fileName(prefix, ext string) string {
	return mediaFileName(prefix, ext, f.now(), f.randIntn)
}

// newOptions builds request options for link from the configured defaults.
func (f *LinkFacade) newOptions(link string) (*cobalt.Options, error) {
	o := cobalt.NewOptions(link)
	if v := f.cfg.VideoQuality; v != "" {
		if err := o.SetQuality(v); err != nil {
			return nil, err
		}
	}
	if v := f.cfg.VideoCodec; v != "" {
		if err := o.SetVideoCodec(v); err != nil {
			return nil, err
		}
	}
	if v := f.cfg.AudioFormat; v != "" {
		if err := o.SetAudioFormat(v); err != nil {
			return nil, err
		}
	}
	if v := f.cfg.FilenamePattern; v != "" {
		if err := o.SetFilenamePattern(v); err != nil {
			return nil, err
		}
	}
	if v := f.cfg.AcceptLanguage; v != "" {
		o.SetAcceptLanguage(v)
	}
	if f.cfg.DisableMetadata {
		o.EnableDisableMetadata()
	}
	return o, nil
}

// errorText strips context noise so the chat shows the cause.
func errorText(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return err.Error()
}
