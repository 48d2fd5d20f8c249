//go:build !integration

package application_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"telegram-igdl-bot/internal/cobalt"
	"telegram-igdl-bot/internal/domain"
	"telegram-igdl-bot/internal/domain/model"
	"telegram-igdl-bot/internal/domain/ports/adapter"
)

// keyTranslator renders "key" or "key|arg1|arg2" so assertions stay language independent.
type keyTranslator struct{}

func (keyTranslator) T(key string, args ...interface{}) string {
	if len(args) == 0 {
		return key
	}
	parts := []string{key}
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	return strings.Join(parts, "|")
}

type reply struct {
	text     string
	markdown bool
}

type mockMessenger struct {
	mu      sync.Mutex
	nextID  int
	replies []reply
	edits   []string
	deleted []model.SentMessage
	uploads []adapter.Upload
	reports []string

	replyErr error
	// uploadFunc simulates the transfer; it may call up.Progress.
	uploadFunc func(up adapter.Upload) error
}

func (m *mockMessenger) Reply(ctx context.Context, to model.InboundMessage, text string, markdown bool) (model.SentMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replyErr != nil {
		return model.SentMessage{}, m.replyErr
	}
	m.nextID++
	m.replies = append(m.replies, reply{text: text, markdown: markdown})
	return model.SentMessage{ChatID: to.ChatID, MessageID: 1000 + m.nextID}, nil
}

func (m *mockMessenger) Edit(ctx context.Context, msg model.SentMessage, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits = append(m.edits, text)
	return nil
}

func (m *mockMessenger) Delete(ctx context.Context, msg model.SentMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, msg)
	return nil
}

func (m *mockMessenger) Upload(ctx context.Context, up adapter.Upload) error {
	m.mu.Lock()
	m.uploads = append(m.uploads, up)
	fn := m.uploadFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(up)
	}
	if up.Progress != nil {
		up.Progress(100)
	}
	return nil
}

func (m *mockMessenger) Report(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, text)
	return nil
}

func (m *mockMessenger) replyTexts() []string {
	out := make([]string, 0, len(m.replies))
	for _, r := range m.replies {
		out = append(out, r.text)
	}
	return out
}

type mockResolver struct {
	calls int
	got   *cobalt.Options
	res   cobalt.Result
	err   error
}

func (r *mockResolver) Dispatch(ctx context.Context, opts *cobalt.Options) (cobalt.Result, error) {
	r.calls++
	r.got = opts
	return r.res, r.err
}

type memSessionRepo struct {
	mu      sync.Mutex
	stored  *model.Session
	saves   int
	saveErr error
	loadErr error
}

func (r *memSessionRepo) Load(ctx context.Context) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.stored == nil {
		return nil, domain.ErrNotFound
	}
	return r.stored.Clone(), nil
}

func (r *memSessionRepo) Save(ctx context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.stored = s.Clone()
	return nil
}

var errBoom = errors.New("boom")
