package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/portochat/pkg/adapter"
	"github.com/m-mizutani/portochat/pkg/interfaces"
	"github.com/m-mizutani/portochat/pkg/knowledge"
	"github.com/m-mizutani/portochat/pkg/model"
	"github.com/m-mizutani/portochat/pkg/repository"
	"github.com/m-mizutani/portochat/pkg/usecase/chat"
	"github.com/m-mizutani/portochat/pkg/usecase/topic"
	"github.com/m-mizutani/portochat/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const (
	backendEndpoint = "endpoint"
	backendGemini   = "gemini"
	backendNone     = "none"
)

// config holds configuration values
type config struct {
	logLevel string

	// Knowledge base
	kbPath string

	// Remote responder
	backend      string
	endpoint     string
	origin       string
	systemPrompt string
	model        string
	temperature  float64
	maxTokens    int64

	// Gemini
	geminiProject  string
	geminiLocation string
	geminiModel    string

	// Repository
	project  string
	database string
}

// globalFlags returns flags shared by every command
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "warn",
			Sources:     cli.EnvVars("PORTOCHAT_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "kb",
			Aliases:     []string{"k"},
			Usage:       "Knowledge base YAML file, local path or gs://bucket/object. Embedded profile when empty",
			Sources:     cli.EnvVars("PORTOCHAT_KB"),
			Destination: &cfg.kbPath,
		},
	}
}

// backendFlags returns flags for the remote responder with destination config
func backendFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "backend",
			Aliases:     []string{"b"},
			Usage:       "Remote chat backend (endpoint, gemini, none)",
			Value:       backendEndpoint,
			Sources:     cli.EnvVars("PORTOCHAT_BACKEND"),
			Destination: &cfg.backend,
		},
		&cli.StringFlag{
			Name:        "endpoint",
			Usage:       "Chat endpoint URL for the endpoint backend",
			Value:       adapter.DefaultEndpointURL,
			Sources:     cli.EnvVars("PORTOCHAT_ENDPOINT"),
			Destination: &cfg.endpoint,
		},
		&cli.StringFlag{
			Name:        "origin",
			Usage:       "Origin the widget is hosted at. Static origins (file://, github.io) never call the backend",
			Value:       chat.LiveEnvironment.String(),
			Sources:     cli.EnvVars("PORTOCHAT_ORIGIN"),
			Destination: &cfg.origin,
		},
		&cli.StringFlag{
			Name:        "system-prompt",
			Usage:       "System prompt sent with every question. Knowledge base summary when empty",
			Sources:     cli.EnvVars("PORTOCHAT_SYSTEM_PROMPT"),
			Destination: &cfg.systemPrompt,
		},
		&cli.StringFlag{
			Name:        "model",
			Usage:       "Model name forwarded to the endpoint backend",
			Sources:     cli.EnvVars("PORTOCHAT_MODEL"),
			Destination: &cfg.model,
		},
		&cli.FloatFlag{
			Name:        "temperature",
			Usage:       "Sampling temperature, negative to leave unset",
			Value:       -1,
			Sources:     cli.EnvVars("PORTOCHAT_TEMPERATURE"),
			Destination: &cfg.temperature,
		},
		&cli.IntFlag{
			Name:        "max-tokens",
			Usage:       "Maximum answer length in tokens, 0 to leave unset",
			Sources:     cli.EnvVars("PORTOCHAT_MAX_TOKENS"),
			Destination: &cfg.maxTokens,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model name",
			Value:       "gemini-2.5-flash",
			Sources:     cli.EnvVars("GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
	}
}

// repositoryFlags returns flags for the interaction archive
func repositoryFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID for Firestore. In-memory archive when empty",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
	}
}

// setupLogger builds the logger from --log-level and attaches it to ctx
func (cfg *config) setupLogger(ctx context.Context) (context.Context, *slog.Logger) {
	logger := logging.New(cfg.logLevel, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger), logger
}

// newKnowledgeBase loads the knowledge base from --kb, falling back to the
// embedded profile
func (cfg *config) newKnowledgeBase(ctx context.Context) (*model.KnowledgeBase, error) {
	switch {
	case cfg.kbPath == "":
		return knowledge.Default()

	case strings.HasPrefix(cfg.kbPath, "gs://"):
		bucket, object, err := adapter.ParseGCSURL(cfg.kbPath)
		if err != nil {
			return nil, err
		}
		storage, err := adapter.NewStorage(ctx, bucket)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create storage")
		}
		r, err := storage.Get(ctx, object)
		if err != nil {
			return nil, err
		}
		defer r.Close()

		kb, err := knowledge.Load(r)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load knowledge base", goerr.V("url", cfg.kbPath))
		}
		return kb, nil

	default:
		return knowledge.LoadFile(cfg.kbPath)
	}
}

// newBackend creates the chat backend selected by --backend. A nil backend
// means answers come from the knowledge base only.
func (cfg *config) newBackend(ctx context.Context) (interfaces.ChatBackend, error) {
	switch cfg.backend {
	case backendNone:
		return nil, nil

	case backendEndpoint, "":
		if cfg.endpoint == "" {
			return nil, goerr.New("endpoint is required")
		}
		opts := []adapter.EndpointOption{
			adapter.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
			adapter.WithOrigin(cfg.origin),
		}
		if cfg.model != "" {
			opts = append(opts, adapter.WithEndpointModel(cfg.model))
		}
		if cfg.temperature >= 0 {
			opts = append(opts, adapter.WithTemperature(cfg.temperature))
		}
		if cfg.maxTokens > 0 {
			opts = append(opts, adapter.WithMaxTokens(cfg.maxTokens))
		}
		return adapter.NewEndpoint(cfg.endpoint, opts...), nil

	case backendGemini:
		if cfg.geminiProject == "" {
			return nil, goerr.New("gemini-project is required")
		}
		if cfg.geminiLocation == "" {
			return nil, goerr.New("gemini-location is required")
		}
		opts := []adapter.GeminiOption{adapter.WithGenerativeModel(cfg.geminiModel)}
		if cfg.temperature >= 0 {
			opts = append(opts, adapter.WithGeminiTemperature(float32(cfg.temperature)))
		}
		if cfg.maxTokens > 0 {
			opts = append(opts, adapter.WithGeminiMaxTokens(int32(cfg.maxTokens)))
		}
		gemini, err := adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create gemini backend")
		}
		return gemini, nil

	default:
		return nil, goerr.New("unknown backend", goerr.V("backend", cfg.backend))
	}
}

// newOrchestrator wires the topic responder and the optional remote
// responder for kb
func (cfg *config) newOrchestrator(ctx context.Context, kb *model.KnowledgeBase) (*chat.Orchestrator, error) {
	backend, err := cfg.newBackend(ctx)
	if err != nil {
		return nil, err
	}

	local := topic.New(kb)
	if backend == nil {
		return chat.New(local, nil), nil
	}

	prompt := cfg.systemPrompt
	if prompt == "" {
		prompt = knowledge.Summary(kb)
	}
	remote := chat.NewRemoteResponder(backend,
		chat.WithSystemPrompt(prompt),
		chat.WithDefaultEnvironment(chat.EnvironmentFromOrigin(cfg.origin)),
	)
	return chat.New(local, remote), nil
}

// newRepository creates the interaction archive. Without a project the
// archive lives in memory for the lifetime of the process.
func (cfg *config) newRepository(ctx context.Context) (interfaces.Repository, func(), error) {
	if cfg.project == "" {
		return repository.NewMemory(), func() {}, nil
	}
	if cfg.database == "" {
		return nil, nil, goerr.New("database is required")
	}

	repo, err := repository.New(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, func() {
		if err := repo.Close(); err != nil {
			logging.From(ctx).Warn("failed to close repository", "error", err)
		}
	}, nil
}
