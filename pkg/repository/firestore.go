package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/portochat/pkg/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore archives interactions in a Firestore collection
type Firestore struct {
	client *firestore.Client
}

// New creates a new Firestore repository
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project_id", projectID), goerr.V("database_id", databaseID))
	}

	return &Firestore{client: client}, nil
}

// Close releases the underlying client
func (r *Firestore) Close() error {
	return r.client.Close()
}

func (r *Firestore) PutInteraction(ctx context.Context, interaction *model.Interaction) error {
	if interaction.ID == "" {
		return goerr.New("interaction ID is required")
	}

	doc := r.client.Collection(collectionInteractions).Doc(string(interaction.ID))
	if _, err := doc.Set(ctx, interaction); err != nil {
		return goerr.Wrap(err, "failed to put interaction", goerr.V("id", interaction.ID))
	}
	return nil
}

func (r *Firestore) GetInteraction(ctx context.Context, id model.InteractionID) (*model.Interaction, error) {
	snap, err := r.client.Collection(collectionInteractions).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get interaction", goerr.V("id", id))
	}

	var interaction model.Interaction
	if err := snap.DataTo(&interaction); err != nil {
		return nil, goerr.Wrap(err, "failed to decode interaction", goerr.V("id", id))
	}
	return &interaction, nil
}

func (r *Firestore) ListInteractions(ctx context.Context, limit int) ([]*model.Interaction, error) {
	query := r.client.Collection(collectionInteractions).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.Interaction
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate interactions")
		}

		var interaction model.Interaction
		if err := snap.DataTo(&interaction); err != nil {
			return nil, goerr.Wrap(err, "failed to decode interaction", goerr.V("doc_id", snap.Ref.ID))
		}
		result = append(result, &interaction)
	}

	return result, nil
}
