package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/soubim/decisiond/internal/core/domain"
	"github.com/soubim/decisiond/internal/core/ports/driven"
	"github.com/soubim/decisiond/internal/extraction"
)

// Enricher attaches embedding vectors to extracted items. The embedding
// model is optional; items survive with a nil vector when it is absent
// or a call fails.
type Enricher struct {
	embeddings driven.EmbeddingService
	log        *zap.Logger
}

// NewEnricher creates an enricher. embeddings may be nil.
func NewEnricher(embeddings driven.EmbeddingService, log *zap.Logger) *Enricher {
	return &Enricher{embeddings: embeddings, log: log.Named("enrichment")}
}

// Enrich computes an embedding for each item in place. Failures are
// per item: the vector stays nil and processing continues.
func (e *Enricher) Enrich(ctx context.Context, items []domain.ProjectItem) {
	if e.embeddings == nil {
		return
	}
	for i := range items {
		vector, err := e.embeddings.Embed(ctx, extraction.EmbedText(items[i]))
		if err != nil {
			e.log.Warn("embedding failed, item persists without vector",
				zap.String("item_id", items[i].ID), zap.Error(err))
			continue
		}
		items[i].Embedding = vector
	}
}
