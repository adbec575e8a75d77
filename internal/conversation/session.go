// Package conversation keeps chat transcripts for the assistant widget and
// delivers bot replies after a simulated typing delay.
package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"nuvana-site/internal/models"

	"github.com/google/uuid"
)

var (
	ErrEmptyMessage    = errors.New("message is empty")
	ErrSessionClosed   = errors.New("session is closed")
	ErrSessionNotFound = errors.New("session not found")
)

// Replier produces the bot's answer for raw user input.
type Replier interface {
	Reply(ctx context.Context, input string) string
}

// ReplierFunc adapts a function to Replier.
type ReplierFunc func(ctx context.Context, input string) string

func (f ReplierFunc) Reply(ctx context.Context, input string) string {
	return f(ctx, input)
}

type pendingReply struct {
	timer *time.Timer
	out   chan models.ChatMessage
}

// Session owns one transcript. Messages are append-only until Close.
type Session struct {
	ID uuid.UUID

	replier Replier
	delay   time.Duration
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	messages   []models.ChatMessage
	pending    map[uint64]pendingReply
	nextID     uint64
	closed     bool
	lastActive time.Time
}

func newSession(greeting string, replier Replier, delay time.Duration, now func() time.Time) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:         uuid.New(),
		replier:    replier,
		delay:      delay,
		now:        now,
		ctx:        ctx,
		cancel:     cancel,
		pending:    make(map[uint64]pendingReply),
		lastActive: now(),
	}
	if greeting != "" {
		s.messages = append(s.messages, models.ChatMessage{
			Role:      models.RoleBot,
			Content:   greeting,
			CreatedAt: s.lastActive,
		})
	}
	return s
}

// Pending is a bot reply that has been scheduled but not necessarily delivered.
type Pending struct {
	out <-chan models.ChatMessage
}

// Wait blocks until the reply is appended to the transcript. It returns
// ErrSessionClosed when the session closed first.
func (p *Pending) Wait(ctx context.Context) (models.ChatMessage, error) {
	select {
	case msg, ok := <-p.out:
		if !ok {
			return models.ChatMessage{}, ErrSessionClosed
		}
		return msg, nil
	case <-ctx.Done():
		return models.ChatMessage{}, ctx.Err()
	}
}

// Send appends the trimmed user message and schedules the bot reply. The
// replier sees the text exactly as typed.
func (s *Session) Send(text string) (*Pending, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	now := s.now()
	s.messages = append(s.messages, models.ChatMessage{
		Role:      models.RoleUser,
		Content:   trimmed,
		CreatedAt: now,
	})
	s.lastActive = now

	id := s.nextID
	s.nextID++
	out := make(chan models.ChatMessage, 1)
	timer := time.AfterFunc(s.delay, func() { s.deliver(id, text) })
	s.pending[id] = pendingReply{timer: timer, out: out}

	return &Pending{out: out}, nil
}

func (s *Session) deliver(id uint64, text string) {
	reply := s.replier.Reply(s.ctx, text)

	s.mu.Lock()
	p, ok := s.pending[id]
	if !ok {
		// Close already stopped this reply and closed its channel.
		s.mu.Unlock()
		return
	}
	delete(s.pending, id)

	msg := models.ChatMessage{
		Role:      models.RoleBot,
		Content:   reply,
		CreatedAt: s.now(),
	}
	s.messages = append(s.messages, msg)
	s.lastActive = msg.CreatedAt
	s.mu.Unlock()

	p.out <- msg
	close(p.out)
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage(nil), s.messages...)
}

// PendingCount reports replies scheduled but not yet delivered.
func (s *Session) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close cancels every undelivered reply. It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.cancel()

	for id, p := range s.pending {
		p.timer.Stop()
		close(p.out)
		delete(s.pending, id)
	}
}
