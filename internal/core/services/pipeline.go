package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/soubim/decisiond/internal/core/domain"
	"github.com/soubim/decisiond/internal/core/ports/driven"
	"github.com/soubim/decisiond/internal/extraction"
)

// processTimeout bounds one background extraction attempt.
const processTimeout = 5 * time.Minute

// Pipeline runs extraction for approved sources: dispatch to the
// channel extractor, enrich, persist items, advance the lifecycle.
// A failed attempt leaves the source at approved so it can be retried
// by a later approval trigger; it is never silently advanced.
type Pipeline struct {
	sources      driven.SourceStore
	items        driven.ItemStore
	projects     driven.ProjectStore
	participants driven.ParticipantStore
	dispatcher   *extraction.Dispatcher
	enricher     *Enricher
	log          *zap.Logger
}

// NewPipeline creates the extraction pipeline.
func NewPipeline(
	sources driven.SourceStore,
	items driven.ItemStore,
	projects driven.ProjectStore,
	participants driven.ParticipantStore,
	dispatcher *extraction.Dispatcher,
	enricher *Enricher,
	log *zap.Logger,
) *Pipeline {
	return &Pipeline{
		sources:      sources,
		items:        items,
		projects:     projects,
		participants: participants,
		dispatcher:   dispatcher,
		enricher:     enricher,
		log:          log.Named("pipeline"),
	}
}

// ProcessAsync runs ProcessSource as fire-and-forget background work.
// The originating request's context is not reused; background work
// gets its own deadline.
func (p *Pipeline) ProcessAsync(sourceID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()
		if err := p.ProcessSource(ctx, sourceID); err != nil {
			p.log.Error("extraction attempt failed",
				zap.String("source_id", sourceID), zap.Error(err))
		}
	}()
}

// ProcessSource runs one extraction attempt for an approved source.
// Outcomes: success or empty advance the source to processed; failure
// returns an error and leaves the status untouched.
func (p *Pipeline) ProcessSource(ctx context.Context, sourceID string) error {
	src, err := p.sources.Get(ctx, sourceID)
	if err != nil {
		return err
	}
	if src.Status != domain.StatusApproved {
		p.log.Warn("skipping extraction for non-approved source",
			zap.String("source_id", sourceID), zap.String("status", string(src.Status)))
		return nil
	}

	project, err := p.projects.Get(ctx, src.ProjectID)
	if err != nil {
		return err
	}
	roster, err := p.participants.ListByProject(ctx, src.ProjectID)
	if err != nil {
		p.log.Warn("roster lookup failed, extracting without it",
			zap.String("project_id", src.ProjectID), zap.Error(err))
		roster = nil
	}

	result := p.dispatcher.Extract(ctx, src, project, roster)

	switch result.Outcome {
	case extraction.OutcomeFailure:
		// Source stays approved; a later approval re-triggers extraction.
		return result.Err

	case extraction.OutcomeEmpty:
		p.log.Info("extraction produced no items",
			zap.String("source_id", sourceID))
		return p.sources.UpdateStatus(ctx, sourceID, domain.StatusProcessed, "")

	default:
		p.enricher.Enrich(ctx, result.Items)
		if err := p.items.SaveBatch(ctx, result.Items); err != nil {
			return err
		}
		p.log.Info("extraction complete",
			zap.String("source_id", sourceID), zap.Int("items", len(result.Items)))
		return p.sources.UpdateStatus(ctx, sourceID, domain.StatusProcessed, "")
	}
}
