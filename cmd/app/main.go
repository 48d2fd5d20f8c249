// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"telegram-igdl-bot/internal/application"
	"telegram-igdl-bot/internal/cobalt"
	"telegram-igdl-bot/internal/config"
	"telegram-igdl-bot/internal/domain/model"
	"telegram-igdl-bot/internal/domain/ports/repository"
	tele "telegram-igdl-bot/internal/infra/adapters/telegram"
	"telegram-igdl-bot/internal/infra/filestore"
	httpapi "telegram-igdl-bot/internal/infra/http"
	"telegram-igdl-bot/internal/infra/i18n"
	"telegram-igdl-bot/internal/infra/logging"
	"telegram-igdl-bot/internal/infra/metrics"
	red "telegram-igdl-bot/internal/infra/redis"
	"telegram-igdl-bot/internal/infra/scheduler"
	"telegram-igdl-bot/internal/infra/worker"
)

// set via -ldflags
var (
	version = "dev"
	commit  = "none"
)

// in-flight uploads get this long to finish after a shutdown signal
const drainTimeout = 30 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	envPath := flag.String("env", ".env", "optional dotenv file with variables referenced by the config")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	devLink := flag.String("link", "", "resolve this link once through a logging messenger and exit")
	flag.Parse()

	if _, err := config.LoadDotEnv(*envPath); err != nil {
		log.Fatalf("env: %v", err)
	}
	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Session ----
	repo, closeRepo, err := newSessionRepo(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Session.Backend).Msg("session store")
	}
	defer closeRepo()

	tracker := application.NewSessionTracker(repo, logger)
	if err := tracker.Load(ctx); err != nil {
		logger.Fatal().Err(err).Msg("session load")
	}

	// ---- Texts ----
	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Bot.Language)
	if err != nil {
		logger.Warn().Err(err).Str("language", cfg.Bot.Language).Msg("falling back to default language")
		if tr, err = i18n.NewTranslator(i18n.LocalesFS, i18n.DefaultLanguage); err != nil {
			logger.Fatal().Err(err).Msg("i18n")
		}
	}

	resolver := cobalt.NewClient(cfg.Cobalt.Endpoint, logger)

	if *devLink != "" {
		if err := runOnce(ctx, cfg, tracker, resolver, tr, logger, *devLink); err != nil {
			logger.Fatal().Err(err).Msg("dev run")
		}
		flush(tracker, logger)
		return
	}

	// ---- Telegram ----
	pool := worker.NewPool(cfg.Bot.Workers, logger)
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, tracker, pool, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	facade, err := application.NewLinkFacade(botAdapter, resolver, tr, tracker, facadeConfig(cfg), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("facade")
	}

	// workers outlive the signal so in-flight uploads can finish
	workCtx, cancelWork := context.WithCancel(context.Background())
	defer cancelWork()
	pool.Start(workCtx)

	// ---- Periodic session flush ----
	flusher := scheduler.NewScheduler(cfg.Session.FlushInterval, tracker, logger)
	flusher.Start(ctx)

	// ---- Admin HTTP server ----
	srv := httpapi.NewServer(cfg.Admin, tracker, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error().Err(err).Msg("admin http server stopped")
		}
	}()

	logger.Info().Str("bot", cfg.Bot.Username).Str("version", version).Msg("bot started")
	if err := botAdapter.StartPolling(ctx, facade); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("telegram polling stopped")
	}

	// ---- Graceful shutdown ----
	logger.Info().Msg("shutdown requested")
	flusher.Stop()
	drain(pool, cancelWork, logger)
	flush(tracker, logger)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("admin http shutdown")
	}
}

func newSessionRepo(ctx context.Context, cfg *config.Config) (repository.SessionRepository, func(), error) {
	switch cfg.Session.Backend {
	case "redis":
		cli, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return red.NewSessionRepo(cli, cfg.Session.Key), func() { _ = cli.Close() }, nil
	default:
		return filestore.NewSessionRepo(cfg.Session.Path), func() {}, nil
	}
}

func facadeConfig(cfg *config.Config) application.LinkFacadeConfig {
	return application.LinkFacadeConfig{
		BotUsername:      cfg.Bot.Username,
		ResolveTimeout:   cfg.Cobalt.ResolveTimeout,
		UploadTimeout:    cfg.Upload.Timeout,
		ProgressInterval: cfg.Upload.ProgressInterval,
		VideoQuality:     cfg.Cobalt.VideoQuality,
		VideoCodec:       cfg.Cobalt.VideoCodec,
		AudioFormat:      cfg.Cobalt.AudioFormat,
		FilenamePattern:  cfg.Cobalt.FilenamePattern,
		AcceptLanguage:   cfg.Cobalt.AcceptLanguage,
		DisableMetadata:  cfg.Cobalt.DisableMetadata,
	}
}

// runOnce pushes a single link through the facade with a messenger that only logs.
func runOnce(ctx context.Context, cfg *config.Config, tracker *application.SessionTracker, resolver *cobalt.Client, tr application.Translator, logger *zerolog.Logger, link string) error {
	facade, err := application.NewLinkFacade(tele.NewNoopMessenger(logger), resolver, tr, tracker, facadeConfig(cfg), logger)
	if err != nil {
		return err
	}
	return facade.HandleLink(ctx, model.InboundMessage{ChatID: 1, MessageID: 1, SenderID: 1, Private: true, Text: link})
}

// drain waits for running tasks, then cancels whatever is still going.
func drain(pool *worker.Pool, cancelWork context.CancelFunc, logger *zerolog.Logger) {
	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(drainTimeout):
		logger.Warn().Dur("timeout", drainTimeout).Msg("cancelling unfinished uploads")
		cancelWork()
		<-done
	}
}

func flush(tracker *application.SessionTracker, logger *zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := tracker.Flush(ctx); err != nil {
		logger.Error().Err(err).Msg("final session flush")
	}
}
