package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/portochat/pkg/interfaces"
	"github.com/m-mizutani/portochat/pkg/model"
	"github.com/m-mizutani/portochat/pkg/usecase/chat"
	"github.com/m-mizutani/portochat/pkg/utils/logging"
	"golang.org/x/time/rate"
)

const maxRequestBodySize = 1 << 20

// SessionHeader lets a widget group its questions in the archive.
const SessionHeader = "X-Portochat-Session"

// Resolver answers a question and reports which responder answered it.
type Resolver interface {
	Resolve(ctx context.Context, text string) *chat.Reply
}

// Server serves the widget wire format over HTTP.
type Server struct {
	resolver   Resolver
	repo       interfaces.Repository
	kb         *model.KnowledgeBase
	limiter    *rate.Limiter
	defaultEnv chat.Environment
	mcp        http.Handler
	logger     *slog.Logger
	now        func() time.Time
}

// NewInput contains parameters for creating a new Server
type NewInput struct {
	Resolver Resolver
	Repo     interfaces.Repository
	KB       *model.KnowledgeBase

	// Limiter throttles /api/chat. Nil disables rate limiting.
	Limiter *rate.Limiter

	// DefaultEnvironment applies to requests without an Origin header.
	DefaultEnvironment chat.Environment

	// MCP is mounted at /mcp when set, e.g. a streamable HTTP MCP handler.
	MCP http.Handler

	Logger *slog.Logger
	Now    func() time.Time
}

func New(input NewInput) *Server {
	s := &Server{
		resolver:   input.Resolver,
		repo:       input.Repo,
		kb:         input.KB,
		limiter:    input.Limiter,
		defaultEnv: input.DefaultEnvironment,
		mcp:        input.MCP,
		logger:     input.Logger,
		now:        input.Now,
	}
	if s.defaultEnv == (chat.Environment{}) {
		s.defaultEnv = chat.LiveEnvironment
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.withLogger)
	r.Use(cors)

	r.Get("/health", handleHealth)
	r.Get("/api/profile", s.handleProfile)
	r.With(s.rateLimit).Post("/api/chat", s.handleChat)
	if s.mcp != nil {
		r.Handle("/mcp", s.mcp)
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.kb)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()

	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}

	question := strings.TrimSpace(req.Messages.LastUser())
	if question == "" {
		httpError(w, http.StatusBadRequest, "messages must contain a non-empty user message")
		return
	}

	ctx := r.Context()
	origin := r.Header.Get("Origin")
	env := s.defaultEnv
	if origin != "" {
		env = chat.EnvironmentFromOrigin(origin)
	}
	ctx = chat.WithEnvironment(ctx, env)

	reply := s.resolver.Resolve(ctx, question)

	s.archive(ctx, r, question, reply, origin)

	writeJSON(w, http.StatusOK, model.ChatResponse{
		Success:  true,
		Response: reply.Text,
		Source:   reply.Source,
	})
}

// archive records the interaction. Failures are logged and never reach the
// caller.
func (s *Server) archive(ctx context.Context, r *http.Request, question string, reply *chat.Reply, origin string) {
	if s.repo == nil {
		return
	}

	sessionID := model.SessionID(r.Header.Get(SessionHeader))
	if sessionID == "" {
		sessionID = model.NewSessionID()
	}

	interaction := &model.Interaction{
		ID:        model.NewInteractionID(),
		SessionID: sessionID,
		Question:  question,
		Answer:    reply.Text,
		Source:    reply.Source,
		Origin:    origin,
		CreatedAt: s.now(),
	}
	if err := s.repo.PutInteraction(ctx, interaction); err != nil {
		logging.From(ctx).Warn("failed to archive interaction", "error", err, "id", interaction.ID)
	}
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			httpError(w, http.StatusTooManyRequests, "too many requests, please slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))
		logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(logging.With(r.Context(), logger)))
	})
}

// cors lets portfolio pages on other origins call the API.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+SessionHeader)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, model.ChatResponse{
		Success: false,
		Error:   fmt.Sprintf(format, args...),
	})
}
