package chat

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/portochat/pkg/interfaces"
	"github.com/m-mizutani/portochat/pkg/model"
)

// RemoteResponder asks a remote chat backend, but only from a live
// environment.
type RemoteResponder struct {
	backend      interfaces.ChatBackend
	systemPrompt string
	env          Environment
}

type RemoteOption func(*RemoteResponder)

// WithSystemPrompt prepends a system prompt, typically the knowledge base
// summary, to every request.
func WithSystemPrompt(prompt string) RemoteOption {
	return func(r *RemoteResponder) {
		r.systemPrompt = prompt
	}
}

// WithDefaultEnvironment sets the environment used when the context carries
// none. It defaults to LiveEnvironment.
func WithDefaultEnvironment(env Environment) RemoteOption {
	return func(r *RemoteResponder) {
		r.env = env
	}
}

func NewRemoteResponder(backend interfaces.ChatBackend, opts ...RemoteOption) *RemoteResponder {
	r := &RemoteResponder{
		backend: backend,
		env:     LiveEnvironment,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fetch returns the backend's answer for text. From a static environment it
// fails with model.ErrEnvironmentUnavailable before touching the network.
func (r *RemoteResponder) Fetch(ctx context.Context, text string) (string, error) {
	env, ok := EnvironmentFrom(ctx)
	if !ok {
		env = r.env
	}
	if env.IsStatic() {
		return "", goerr.Wrap(model.ErrEnvironmentUnavailable, "remote chat skipped", goerr.V("environment", env.String()))
	}

	answer, err := r.backend.Complete(ctx, model.Prompt{
		System: r.systemPrompt,
		User:   text,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to fetch remote answer")
	}
	return answer, nil
}
