package interfaces

import (
	"context"

	"github.com/m-mizutani/portochat/pkg/model"
)

// Repository defines the interface for the interaction archive
type Repository interface {
	// PutInteraction saves an answered question
	PutInteraction(ctx context.Context, interaction *model.Interaction) error

	// GetInteraction retrieves an interaction by ID. It returns nil without
	// error when the interaction does not exist.
	GetInteraction(ctx context.Context, id model.InteractionID) (*model.Interaction, error)

	// ListInteractions retrieves the most recent interactions, newest first
	ListInteractions(ctx context.Context, limit int) ([]*model.Interaction, error)
}
