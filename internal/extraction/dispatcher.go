package extraction

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/soubim/decisiond/internal/core/domain"
	"github.com/soubim/decisiond/internal/core/ports/driven"
	"github.com/soubim/decisiond/internal/metrics"
)

// completionMaxTokens bounds the model response.
const completionMaxTokens = 4096

// Dispatcher selects an extractor by source channel and runs it.
type Dispatcher struct {
	completions driven.CompletionService
	sources     driven.SourceStore
	log         *zap.Logger
}

// NewDispatcher creates an extraction dispatcher.
func NewDispatcher(completions driven.CompletionService, sources driven.SourceStore, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		completions: completions,
		sources:     sources,
		log:         log.Named("extraction"),
	}
}

// Extract runs the channel-appropriate extractor for an approved
// source. The result's outcome tells the caller how to advance the
// source lifecycle; a failure outcome means the source must remain
// eligible for another attempt.
func (d *Dispatcher) Extract(ctx context.Context, src *domain.Source, project *domain.Project, participants []domain.Participant) Result {
	var result Result
	switch src.Type {
	case domain.SourceMeeting:
		result = d.run(ctx, src, buildTranscriptPrompt(src, project, participants))
	case domain.SourceEmail:
		result = d.extractEmail(ctx, src, project, participants)
	case domain.SourceDocument, domain.SourceManual:
		result = d.run(ctx, src, buildDocumentPrompt(src, project, participants))
	default:
		result = Result{Outcome: OutcomeFailure, Err: fmt.Errorf("no extractor for source type %q", src.Type)}
	}

	metrics.Extractions.WithLabelValues(result.Outcome.String()).Inc()
	for _, item := range result.Items {
		metrics.ItemsExtracted.WithLabelValues(string(item.Type)).Inc()
	}
	return result
}

// extractEmail strips quoted replies before prompting and flags, log
// only, threads where a sibling message was already processed.
func (d *Dispatcher) extractEmail(ctx context.Context, src *domain.Source, project *domain.Project, participants []domain.Participant) Result {
	cleanBody := StripQuotedReplies(src.RawContent)
	if strings.TrimSpace(cleanBody) == "" {
		return Result{Outcome: OutcomeEmpty}
	}

	if src.EmailThreadID != "" {
		count, err := d.sources.CountProcessedInThread(ctx, src.EmailThreadID, src.ID)
		if err != nil {
			d.log.Warn("thread overlap check failed",
				zap.String("source_id", src.ID), zap.Error(err))
		} else if count > 0 {
			d.log.Warn("thread overlap detected",
				zap.String("source_id", src.ID),
				zap.String("thread_id", src.EmailThreadID),
				zap.Int("processed_siblings", count))
		}
	}

	return d.run(ctx, src, buildEmailPrompt(src, project, participants, cleanBody))
}

// run invokes the completion service and shapes the response into a
// result. Remote-call and parse failures surface as OutcomeFailure;
// an element failing validation is dropped, not fatal.
func (d *Dispatcher) run(ctx context.Context, src *domain.Source, prompt string) Result {
	response, err := d.completions.Complete(ctx, prompt, driven.CompleteOptions{
		MaxTokens: completionMaxTokens,
	})
	if err != nil {
		return Result{Outcome: OutcomeFailure, Err: fmt.Errorf("completion call: %w", err)}
	}

	raw, err := parseItems(response)
	if err != nil {
		return Result{Outcome: OutcomeFailure, Err: fmt.Errorf("parse completion response: %w", err)}
	}

	items := validateItems(raw, src.ProjectID, src.ID)
	if dropped := len(raw) - len(items); dropped > 0 {
		d.log.Warn("dropped malformed extraction elements",
			zap.String("source_id", src.ID), zap.Int("dropped", dropped))
	}
	if len(items) == 0 {
		return Result{Outcome: OutcomeEmpty}
	}
	return Result{Outcome: OutcomeSuccess, Items: items}
}
