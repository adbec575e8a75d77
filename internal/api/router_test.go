package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"nuvana-site/internal/api/handlers"
	"nuvana-site/internal/conversation"
	"nuvana-site/internal/dto"
	"nuvana-site/internal/knowledge"
	"nuvana-site/internal/models"
	"nuvana-site/internal/repository"
	"nuvana-site/internal/service"
	"nuvana-site/pkg/auth"
	"nuvana-site/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type stubContactStore struct {
	mu   sync.Mutex
	subs []*models.ContactSubmission
}

func (s *stubContactStore) Create(_ context.Context, sub *models.ContactSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sub
	s.subs = append(s.subs, &cp)
	return nil
}

func (s *stubContactStore) UpdateStatus(_ context.Context, id uuid.UUID, status models.ContactStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		if sub.ID == id {
			sub.Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *stubContactStore) List(_ context.Context, limit, offset int) ([]*models.ContactSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs, nil
}

type stubLookups struct{}

func (stubLookups) List(context.Context) ([]*models.ReplyLookup, error) {
	return []*models.ReplyLookup{
		{Outcome: models.OutcomeMatched, RecordID: "hardware", Count: 3, LastSeenAt: time.Unix(0, 0)},
	}, nil
}

type testEnv struct {
	app     *fiber.App
	jwt     *auth.JWTManager
	manager *conversation.Manager
}

func newTestEnv(t *testing.T, staticDir string) *testEnv {
	t.Helper()
	log := zap.NewNop()

	replies := service.NewReplyService(knowledge.Default(), nil, log)
	greeting, prompts, err := knowledge.Prompts()
	require.NoError(t, err)
	faq, err := knowledge.FAQ()
	require.NoError(t, err)

	manager := conversation.NewManager(conversation.ManagerConfig{
		Greeting:   greeting,
		ReplyDelay: time.Millisecond,
		SessionTTL: time.Minute,
	}, conversation.ReplierFunc(func(ctx context.Context, input string) string {
		return replies.Reply(ctx, input).Answer
	}), log)
	t.Cleanup(manager.Shutdown)

	hash, err := auth.HashPassword("letmein")
	require.NoError(t, err)
	jm := auth.NewJWTManager("test", time.Hour, time.Hour)

	contacts := service.NewContactService(&stubContactStore{}, "Nuvana Contact: ", log)

	app := SetupRouter(Handlers{
		Assistant: handlers.NewAssistantHandler(replies, greeting, prompts, faq, log),
		Chat:      handlers.NewChatHandler(manager, log),
		Contact:   handlers.NewContactHandler(contacts, log),
		Auth:      handlers.NewAuthHandler(service.NewAuthService(config.AdminConfig{Username: "admin", PasswordHash: hash}, jm, log), log),
		Stats:     handlers.NewStatsHandler(stubLookups{}, log),
	}, jm, config.ServerConfig{AllowOrigins: "*", StaticDir: staticDir}, log)

	return &testEnv{app: app, jwt: jm, manager: manager}
}

func (e *testEnv) do(t *testing.T, method, path, body string, header map[string]string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, "")
	resp, body := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestAssistantReply(t *testing.T) {
	env := newTestEnv(t, "")

	resp, body := env.do(t, http.MethodPost, "/api/v1/assistant/reply", `{"message":"Tell me hardware specs"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.ReplyResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "hardware", got.RecordID)
	assert.Equal(t, 2, got.Score)
	assert.Contains(t, got.Reply, "Nuvana Corebook")

	_, body = env.do(t, http.MethodPost, "/api/v1/assistant/reply", `{"message":""}`, nil)
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, service.FallbackReply, got.Reply)
	assert.Equal(t, "fallback", got.Outcome)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/assistant/reply", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPromptsAndFAQ(t *testing.T) {
	env := newTestEnv(t, "")

	_, body := env.do(t, http.MethodGet, "/api/v1/assistant/prompts", "", nil)
	var prompts dto.PromptsResponse
	require.NoError(t, json.Unmarshal(body, &prompts))
	assert.Len(t, prompts.Prompts, 4)
	assert.NotEmpty(t, prompts.Greeting)

	_, body = env.do(t, http.MethodGet, "/api/v1/faq", "", nil)
	var faq []dto.FAQItemResponse
	require.NoError(t, json.Unmarshal(body, &faq))
	assert.Len(t, faq, 5)
}

func TestChatSessionLifecycle(t *testing.T) {
	env := newTestEnv(t, "")

	resp, body := env.do(t, http.MethodPost, "/api/v1/chat/sessions", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var session dto.ChatSessionResponse
	require.NoError(t, json.Unmarshal(body, &session))
	require.Len(t, session.Messages, 1)
	assert.Equal(t, "bot", session.Messages[0].Role)

	base := "/api/v1/chat/sessions/" + session.ID

	resp, body = env.do(t, http.MethodPost, base+"/messages", `{"content":"Drona and Archer AI"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var msg dto.ChatMessageResponse
	require.NoError(t, json.Unmarshal(body, &msg))
	assert.Equal(t, "bot", msg.Role)
	assert.Contains(t, msg.Content, "Dual Intelligence")

	resp, _ = env.do(t, http.MethodPost, base+"/messages", `{"content":"   "}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, body = env.do(t, http.MethodGet, base, "", nil)
	require.NoError(t, json.Unmarshal(body, &session))
	assert.Len(t, session.Messages, 3)

	resp, _ = env.do(t, http.MethodDelete, base, "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, base, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/chat/sessions/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestContactEndpoint(t *testing.T) {
	env := newTestEnv(t, "")

	resp, body := env.do(t, http.MethodPost, "/api/v1/contact",
		`{"name":"Asha","email":"asha@school.edu","message":"Pilot please"}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "new", gjson.GetBytes(body, "status").String())

	resp, body = env.do(t, http.MethodPost, "/api/v1/contact", `{"name":"Asha","message":"x"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"email is required"}`, string(body))
}

func TestAdminRoutesRequireAccessToken(t *testing.T) {
	env := newTestEnv(t, "")

	resp, _ := env.do(t, http.MethodGet, "/api/v1/admin/reply-stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	refresh, err := env.jwt.GenerateRefreshToken("admin")
	require.NoError(t, err)
	resp, _ = env.do(t, http.MethodGet, "/api/v1/admin/reply-stats", "", map[string]string{"Authorization": "Bearer " + refresh})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/api/v1/auth/login", `{"username":"admin","password":"letmein"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tokens dto.AuthResponse
	require.NoError(t, json.Unmarshal(body, &tokens))

	authz := map[string]string{"Authorization": "Bearer " + tokens.AccessToken}
	resp, body = env.do(t, http.MethodGet, "/api/v1/admin/reply-stats", "", authz)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats []dto.ReplyLookupResponse
	require.NoError(t, json.Unmarshal(body, &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, int64(3), stats[0].Count)

	_, body = env.do(t, http.MethodPost, "/api/v1/contact",
		`{"name":"Asha","email":"asha@school.edu","message":"Pilot please"}`, nil)
	id := gjson.GetBytes(body, "id").String()

	resp, _ = env.do(t, http.MethodPost, "/api/v1/admin/contacts/"+id+"/handled", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/admin/contacts/"+id+"/handled", "", authz)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/admin/contacts/"+uuid.NewString()+"/handled", "", authz)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/v1/admin/contacts", "", authz)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := gjson.ParseBytes(body).Array()
	require.Len(t, list, 1)
	assert.Equal(t, "handled", list[0].Get("status").String())
	assert.Equal(t, "Nuvana Contact: Asha", list[0].Get("subject").String())

	resp, _ = env.do(t, http.MethodPost, "/api/v1/auth/login", `{"username":"admin","password":"nope"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServesLandingPage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>NuvanaCore</h1>"), 0o644))
	env := newTestEnv(t, dir)

	resp, body := env.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "NuvanaCore")
}
