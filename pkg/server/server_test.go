package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/portochat/pkg/knowledge"
	"github.com/m-mizutani/portochat/pkg/model"
	"github.com/m-mizutani/portochat/pkg/repository"
	"github.com/m-mizutani/portochat/pkg/server"
	"github.com/m-mizutani/portochat/pkg/usecase/chat"
	"golang.org/x/time/rate"
)

type mockResolver struct {
	resolveFn func(ctx context.Context, text string) *chat.Reply
}

func (m *mockResolver) Resolve(ctx context.Context, text string) *chat.Reply {
	return m.resolveFn(ctx, text)
}

// envResolver answers with the environment it was called from.
func envResolver() *mockResolver {
	return &mockResolver{resolveFn: func(ctx context.Context, text string) *chat.Reply {
		env, _ := chat.EnvironmentFrom(ctx)
		source := model.ReplySourceRemote
		if env.IsStatic() {
			source = model.ReplySourceKnowledgeBaseStatic
		}
		return &chat.Reply{Text: "answer to " + text, Source: source}
	}}
}

func post(t *testing.T, h http.Handler, body string, header map[string]string) (*httptest.ResponseRecorder, model.ChatResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp model.ChatResponse
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestChat(t *testing.T) {
	repo := repository.NewMemory()
	h := server.New(server.NewInput{Resolver: envResolver(), Repo: repo}).Handler()

	rec, resp := post(t, h, `{"messages": "hello"}`, map[string]string{
		"Origin":             "https://zaki.dev",
		server.SessionHeader: "session-1",
	})
	gt.Equal(t, rec.Code, http.StatusOK)
	gt.True(t, resp.Success)
	gt.Equal(t, resp.Response, "answer to hello")
	gt.Equal(t, resp.Source, model.ReplySourceRemote)

	archived, err := repo.ListInteractions(context.Background(), 10)
	gt.NoError(t, err)
	gt.A(t, archived).Length(1)
	gt.Equal(t, archived[0].Question, "hello")
	gt.Equal(t, archived[0].SessionID, model.SessionID("session-1"))
	gt.Equal(t, archived[0].Origin, "https://zaki.dev")
}

func TestChatStructuredMessages(t *testing.T) {
	h := server.New(server.NewInput{Resolver: envResolver()}).Handler()

	body := `{"messages": [
		{"role": "system", "content": "You are an assistant"},
		{"role": "user", "content": "first"},
		{"role": "assistant", "content": "ok"},
		{"role": "user", "content": "  second  "}
	], "temperature": 0.3}`
	rec, resp := post(t, h, body, nil)
	gt.Equal(t, rec.Code, http.StatusOK)
	gt.Equal(t, resp.Response, "answer to second")
}

func TestChatEnvironmentFromOrigin(t *testing.T) {
	h := server.New(server.NewInput{Resolver: envResolver()}).Handler()

	_, resp := post(t, h, `{"messages": "hi"}`, map[string]string{"Origin": "https://zetakai.github.io"})
	gt.Equal(t, resp.Source, model.ReplySourceKnowledgeBaseStatic)

	_, resp = post(t, h, `{"messages": "hi"}`, map[string]string{"Origin": "null"})
	gt.Equal(t, resp.Source, model.ReplySourceKnowledgeBaseStatic)

	// no Origin: server default
	_, resp = post(t, h, `{"messages": "hi"}`, nil)
	gt.Equal(t, resp.Source, model.ReplySourceRemote)

	static := server.New(server.NewInput{
		Resolver:           envResolver(),
		DefaultEnvironment: chat.Environment{Scheme: "file"},
	}).Handler()
	_, resp = post(t, static, `{"messages": "hi"}`, nil)
	gt.Equal(t, resp.Source, model.ReplySourceKnowledgeBaseStatic)
}

func TestChatRejectsBadRequests(t *testing.T) {
	var called bool
	resolver := &mockResolver{resolveFn: func(ctx context.Context, text string) *chat.Reply {
		called = true
		return &chat.Reply{Text: "x"}
	}}
	h := server.New(server.NewInput{Resolver: resolver}).Handler()

	for _, body := range []string{
		`{"messages": ""}`,
		`{"messages": "   "}`,
		`{"messages": [{"role": "system", "content": "only system"}]}`,
		`{"messages": 42}`,
		`not json`,
	} {
		rec, resp := post(t, h, body, nil)
		gt.Equal(t, rec.Code, http.StatusBadRequest)
		gt.False(t, resp.Success)
		gt.NotEqual(t, resp.Error, "")
	}
	gt.False(t, called)
}

func TestChatRateLimit(t *testing.T) {
	h := server.New(server.NewInput{
		Resolver: envResolver(),
		Limiter:  rate.NewLimiter(rate.Limit(0.001), 1),
	}).Handler()

	rec, _ := post(t, h, `{"messages": "hi"}`, nil)
	gt.Equal(t, rec.Code, http.StatusOK)

	rec, resp := post(t, h, `{"messages": "hi"}`, nil)
	gt.Equal(t, rec.Code, http.StatusTooManyRequests)
	gt.False(t, resp.Success)
}

func TestHealthAndProfile(t *testing.T) {
	kb, err := knowledge.Default()
	gt.NoError(t, err)
	h := server.New(server.NewInput{Resolver: envResolver(), KB: kb}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	gt.Equal(t, rec.Code, http.StatusOK)
	gt.S(t, rec.Body.String()).Contains(`"ok"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	gt.Equal(t, rec.Code, http.StatusOK)

	var got model.KnowledgeBase
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	gt.Equal(t, got.Personal.Nickname, kb.Personal.Nickname)
	gt.A(t, got.Projects).Length(len(kb.Projects))
}

func TestCORSPreflight(t *testing.T) {
	h := server.New(server.NewInput{Resolver: envResolver()}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/chat", nil))
	gt.Equal(t, rec.Code, http.StatusNoContent)
	gt.Equal(t, rec.Header().Get("Access-Control-Allow-Origin"), "*")
}

func TestMCPMount(t *testing.T) {
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mcp"))
	})
	h := server.New(server.NewInput{Resolver: envResolver(), MCP: mcpHandler}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("{}")))
	gt.Equal(t, rec.Code, http.StatusOK)
	gt.Equal(t, rec.Body.String(), "mcp")
}
