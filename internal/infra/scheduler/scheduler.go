package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Flusher is the minimal interface the scheduler needs. The session tracker
// implements it to persist pending changes.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Scheduler periodically runs a Flusher's Flush method.
type Scheduler struct {
	interval time.Duration
	timeout  time.Duration
	flusher  Flusher
	log      *zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler constructs a scheduler that runs flusher.Flush every interval.
// If interval <= 0 it defaults to 1 minute.
func NewScheduler(interval time.Duration, flusher Flusher, logger *zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &Scheduler{
		interval: interval,
		timeout:  30 * time.Second,
		flusher:  flusher,
		log:      logger,
		done:     make(chan struct{}),
	}
}

// Start begins the scheduler loop in a background goroutine.
// Calling Start multiple times has no effect.
func (s *Scheduler) Start(parentCtx context.Context) {
	if s.ctx != nil {
		return
	}
	ctx, cancel := context.WithCancel(parentCtx)
	s.ctx = ctx
	s.cancel = cancel

	go s.loop()
}

func (s *Scheduler) loop() {
	ticker := time.NewTicker(s.interval)
	defer func() {
		ticker.Stop()
		close(s.done)
	}()

	s.log.Info().Dur("interval", s.interval).Msg("scheduler started")
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *Scheduler) runOnce() {
	runCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	if err := s.flusher.Flush(runCtx); err != nil {
		s.log.Error().Err(err).Msg("scheduled flush failed")
	}
}

// Stop cancels the scheduler and waits for the loop to finish. It is idempotent.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.ctx = nil
	s.cancel = nil
	s.done = make(chan struct{})
	s.log.Info().Msg("scheduler stopped")
}
