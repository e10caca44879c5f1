package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/portochat/pkg/model"
)

// Memory keeps interactions in process memory. It is used when no Firestore
// project is configured.
type Memory struct {
	mu           sync.RWMutex
	interactions map[model.InteractionID]*model.Interaction
}

func NewMemory() *Memory {
	return &Memory{
		interactions: make(map[model.InteractionID]*model.Interaction),
	}
}

func (m *Memory) PutInteraction(ctx context.Context, interaction *model.Interaction) error {
	if interaction.ID == "" {
		return goerr.New("interaction ID is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *interaction
	m.interactions[interaction.ID] = &copied
	return nil
}

func (m *Memory) GetInteraction(ctx context.Context, id model.InteractionID) (*model.Interaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	interaction, ok := m.interactions[id]
	if !ok {
		return nil, nil
	}
	copied := *interaction
	return &copied, nil
}

func (m *Memory) ListInteractions(ctx context.Context, limit int) ([]*model.Interaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Interaction, 0, len(m.interactions))
	for _, interaction := range m.interactions {
		copied := *interaction
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
