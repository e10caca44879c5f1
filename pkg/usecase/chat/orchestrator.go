package chat

import (
	"context"
	"errors"

	"github.com/m-mizutani/portochat/pkg/model"
	"github.com/m-mizutani/portochat/pkg/utils/logging"
)

// StaticNote is appended to local answers when the page cannot reach the
// remote backend.
const StaticNote = "\n\n💡 Note: For the full AI experience, visit this portfolio on a live server environment."

// Fetcher returns a remote answer or an error.
type Fetcher interface {
	Fetch(ctx context.Context, text string) (string, error)
}

// Answerer returns a local answer. It cannot fail.
type Answerer interface {
	Respond(text string) string
}

// Reply is a resolved answer with the responder that produced it.
type Reply struct {
	Text   string
	Source model.ReplySource
}

// Orchestrator tries the remote responder first and degrades to the local
// one on any failure. It never returns an error for a failed remote call.
type Orchestrator struct {
	local  Answerer
	remote Fetcher
}

// New creates an Orchestrator. remote may be nil to answer from the local
// responder only.
func New(local Answerer, remote Fetcher) *Orchestrator {
	return &Orchestrator{
		local:  local,
		remote: remote,
	}
}

// Resolve answers text and reports which responder produced the answer.
func (o *Orchestrator) Resolve(ctx context.Context, text string) *Reply {
	if o.remote == nil {
		return &Reply{Text: o.local.Respond(text), Source: model.ReplySourceKnowledgeBase}
	}

	answer, err := o.remote.Fetch(ctx, text)
	switch {
	case err == nil:
		return &Reply{Text: answer, Source: model.ReplySourceRemote}

	case errors.Is(err, model.ErrEnvironmentUnavailable):
		return &Reply{Text: o.local.Respond(text) + StaticNote, Source: model.ReplySourceKnowledgeBaseStatic}

	default:
		logging.From(ctx).Warn("remote chat failed, answering from knowledge base", "error", err)
		return &Reply{Text: o.local.Respond(text), Source: model.ReplySourceKnowledgeBase}
	}
}

// GetResponse answers text. It always returns a non-empty answer.
func (o *Orchestrator) GetResponse(ctx context.Context, text string) string {
	return o.Resolve(ctx, text).Text
}

// Respond answers text for interactive callers. The only error is the
// context's, returned when the caller was torn down while waiting.
func (o *Orchestrator) Respond(ctx context.Context, text string) (string, error) {
	answer := o.GetResponse(ctx, text)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return answer, nil
}
