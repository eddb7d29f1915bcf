package driven

import (
	"context"

	"github.com/soubim/decisiond/internal/core/domain"
)

// ItemStore persists extracted project items. The pipeline only ever
// inserts; items are immutable within the pipeline and are never
// cascade-deleted with their source.
type ItemStore interface {
	// Save stores a new item.
	Save(ctx context.Context, item *domain.ProjectItem) error

	// SaveBatch stores a batch of items from one extraction attempt.
	SaveBatch(ctx context.Context, items []domain.ProjectItem) error

	// ListBySource returns all items extracted from a source.
	ListBySource(ctx context.Context, sourceID string) ([]domain.ProjectItem, error)
}
