package conversation

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"nuvana-site/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

const greeting = "Hi! I'm Bloom."

type recordingReplier struct {
	mu     sync.Mutex
	inputs []string
}

func (r *recordingReplier) Reply(_ context.Context, input string) string {
	r.mu.Lock()
	r.inputs = append(r.inputs, input)
	r.mu.Unlock()
	return "re: " + strings.ToLower(input)
}

func newTestManager(delay time.Duration) (*Manager, *recordingReplier) {
	rep := &recordingReplier{}
	m := NewManager(ManagerConfig{
		Greeting:      greeting,
		ReplyDelay:    delay,
		SessionTTL:    time.Minute,
		SweepInterval: 10 * time.Millisecond,
	}, rep, zap.NewNop())
	return m, rep
}

func TestSessionStartsWithGreeting(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, _ := newTestManager(time.Millisecond)
	s := m.Create()
	defer s.Close()

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, models.RoleBot, msgs[0].Role)
	assert.Equal(t, greeting, msgs[0].Content)
}

func TestSessionSendDeliversDelayedReply(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, rep := newTestManager(20 * time.Millisecond)
	s := m.Create()
	defer s.Close()

	start := time.Now()
	p, err := s.Send("  Tell me SPECS  ")
	require.NoError(t, err)

	msg, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, models.RoleBot, msg.Role)
	assert.Equal(t, "re:   tell me specs  ", msg.Content)
	assert.Equal(t, []string{"  Tell me SPECS  "}, rep.inputs, "replier sees untrimmed text")

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, models.RoleUser, msgs[1].Role)
	assert.Equal(t, "Tell me SPECS", msgs[1].Content)
	assert.Equal(t, msg, msgs[2])
}

func TestSessionRejectsBlankMessages(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, _ := newTestManager(time.Millisecond)
	s := m.Create()
	defer s.Close()

	_, err := s.Send(" \t\n")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Len(t, s.Messages(), 1)
}

func TestSessionCloseCancelsPendingReply(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, rep := newTestManager(time.Hour)
	s := m.Create()

	p, err := s.Send("pricing")
	require.NoError(t, err)
	assert.Equal(t, 1, s.PendingCount())

	s.Close()
	s.Close()

	_, err = p.Wait(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Len(t, s.Messages(), 2, "no bot reply after close")
	assert.Empty(t, rep.inputs)
	assert.Equal(t, 0, s.PendingCount())

	_, err = s.Send("again")
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSessionCloseDropsReplyAlreadyInFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	release := make(chan struct{})
	m := NewManager(ManagerConfig{Greeting: greeting, ReplyDelay: time.Millisecond}, ReplierFunc(
		func(_ context.Context, _ string) string {
			close(started)
			<-release
			return "too late"
		}), zap.NewNop())
	s := m.Create()

	p, err := s.Send("pricing")
	require.NoError(t, err)

	<-started
	require.Len(t, s.Messages(), 2)
	s.Close()
	close(release)

	_, err = p.Wait(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)

	// Let the fired callback finish before checking the transcript.
	goleak.VerifyNone(t)
	msgs := s.Messages()
	assert.Len(t, msgs, 2, "no bot reply after close")
	assert.Equal(t, models.RoleUser, msgs[1].Role)
	assert.Equal(t, 0, s.PendingCount())
}

func TestPendingWaitHonoursContext(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, _ := newTestManager(time.Hour)
	s := m.Create()
	defer s.Close()

	p, err := s.Send("hello")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, err = p.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestManagerGetAndClose(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, _ := newTestManager(time.Millisecond)
	s := m.Create()

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, m.Close(s.ID))
	assert.True(t, s.Closed())

	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Close(s.ID), ErrSessionNotFound)
	assert.ErrorIs(t, m.Close(uuid.New()), ErrSessionNotFound)
}

func TestManagerSweepExpiresIdleSessions(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, _ := newTestManager(time.Hour)

	clock := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	idle := m.Create()
	busy := m.Create()
	_, err := busy.Send("drona")
	require.NoError(t, err)

	clock = clock.Add(2 * time.Minute)
	fresh := m.Create()

	assert.Equal(t, 1, m.Sweep())
	assert.True(t, idle.Closed())
	assert.False(t, busy.Closed(), "sessions with pending replies survive")
	assert.False(t, fresh.Closed())
	assert.Equal(t, 2, m.Len())

	m.Shutdown()
	assert.True(t, busy.Closed())
	assert.Equal(t, 0, m.Len())
}

func TestManagerRunClosesSessionsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)
	m, _ := newTestManager(time.Hour)
	s := m.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	cancel()
	require.NoError(t, <-done)
	assert.True(t, s.Closed())
}
