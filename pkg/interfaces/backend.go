package interfaces

import (
	"context"

	"github.com/m-mizutani/portochat/pkg/model"
)

// ChatBackend is a remote conversational model. Implementations make at most
// one network call per Complete and never retry.
type ChatBackend interface {
	Complete(ctx context.Context, prompt model.Prompt) (string, error)
}
