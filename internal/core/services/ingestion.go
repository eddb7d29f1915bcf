package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/soubim/decisiond/internal/core/domain"
	"github.com/soubim/decisiond/internal/core/ports/driven"
	"github.com/soubim/decisiond/internal/core/ports/driving"
	"github.com/soubim/decisiond/internal/metrics"
)

// summaryTimeout bounds one background summary generation.
const summaryTimeout = 60 * time.Second

// Ensure Ingestion implements the driving port.
var _ driving.IngestionService = (*Ingestion)(nil)

// Ingestion accepts external events into the queue and applies admin
// approval decisions. Approval triggers extraction as background work;
// the caller gets an acknowledgement before extraction completes.
type Ingestion struct {
	sources    driven.SourceStore
	summariser *Summariser
	pipeline   *Pipeline
	log        *zap.Logger
}

// NewIngestion creates the ingestion service.
func NewIngestion(sources driven.SourceStore, summariser *Summariser, pipeline *Pipeline, log *zap.Logger) *Ingestion {
	return &Ingestion{
		sources:    sources,
		summariser: summariser,
		pipeline:   pipeline,
		log:        log.Named("ingestion"),
	}
}

// ReceiveTranscript accepts a webhook transcript, idempotent on the
// caller-supplied webhook ID.
func (s *Ingestion) ReceiveTranscript(ctx context.Context, payload driving.TranscriptPayload) (*driving.ReceiveResult, error) {
	if payload.WebhookID == "" || payload.ProjectID == "" || strings.TrimSpace(payload.Transcript) == "" {
		return nil, fmt.Errorf("%w: webhook_id, project_id and transcript are required", domain.ErrInvalidInput)
	}

	existing, err := s.sources.FindByWebhookID(ctx, payload.WebhookID)
	if err == nil {
		s.log.Info("duplicate webhook delivery",
			zap.String("webhook_id", payload.WebhookID),
			zap.String("source_id", existing.ID))
		return &driving.ReceiveResult{Status: "duplicate", SourceID: existing.ID}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	title := payload.MeetingTitle
	if title == "" {
		title = "Untitled Meeting"
	}
	occurredAt := payload.MeetingDate
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	src := &domain.Source{
		ID:              uuid.NewString(),
		ProjectID:       payload.ProjectID,
		Type:            domain.SourceMeeting,
		Title:           title,
		OccurredAt:      occurredAt,
		Status:          domain.StatusPending,
		RawContent:      payload.Transcript,
		WebhookID:       payload.WebhookID,
		MeetingType:     payload.MeetingType,
		Participants:    payload.Participants,
		DurationMinutes: payload.DurationMinutes,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.sources.Save(ctx, src); err != nil {
		return nil, err
	}
	metrics.SourcesCreated.WithLabelValues("webhook").Inc()

	s.scheduleSummary(src.ID, src.Title, src.RawContent)

	return &driving.ReceiveResult{Status: "pending", SourceID: src.ID}, nil
}

// UploadDocument accepts a manually uploaded document as a pending source.
func (s *Ingestion) UploadDocument(ctx context.Context, upload driving.DocumentUpload) (*driving.ReceiveResult, error) {
	if upload.ProjectID == "" || strings.TrimSpace(upload.Content) == "" {
		return nil, fmt.Errorf("%w: project_id and content are required", domain.ErrInvalidInput)
	}

	title := upload.Title
	if title == "" {
		title = "Untitled Document"
	}

	src := &domain.Source{
		ID:         uuid.NewString(),
		ProjectID:  upload.ProjectID,
		Type:       domain.SourceManual,
		Title:      title,
		OccurredAt: time.Now().UTC(),
		Status:     domain.StatusPending,
		RawContent: upload.Content,
		FileType:   upload.FileType,
		FileSize:   int64(len(upload.Content)),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.sources.Save(ctx, src); err != nil {
		return nil, err
	}
	metrics.SourcesCreated.WithLabelValues("manual").Inc()

	s.scheduleSummary(src.ID, src.Title, src.RawContent)

	return &driving.ReceiveResult{Status: "pending", SourceID: src.ID}, nil
}

// Approve applies one admin decision. The approval itself is
// synchronous; on approved, extraction runs as background work.
func (s *Ingestion) Approve(ctx context.Context, sourceID string, to domain.IngestionStatus, approvedBy string) error {
	if to != domain.StatusApproved && to != domain.StatusRejected {
		return fmt.Errorf("%w: target status must be approved or rejected", domain.ErrInvalidInput)
	}

	if err := s.sources.UpdateStatus(ctx, sourceID, to, approvedBy); err != nil {
		return err
	}

	if to == domain.StatusApproved {
		s.pipeline.ProcessAsync(sourceID)
	}
	return nil
}

// BatchApprove applies one decision to many sources. IDs that resolve
// to nothing or to an illegal transition are skipped.
func (s *Ingestion) BatchApprove(ctx context.Context, sourceIDs []string, to domain.IngestionStatus, approvedBy string) (int, error) {
	if to != domain.StatusApproved && to != domain.StatusRejected {
		return 0, fmt.Errorf("%w: target status must be approved or rejected", domain.ErrInvalidInput)
	}

	updated := 0
	for _, id := range sourceIDs {
		err := s.sources.UpdateStatus(ctx, id, to, approvedBy)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidTransition) {
				s.log.Warn("batch decision skipped source",
					zap.String("source_id", id), zap.Error(err))
				continue
			}
			return updated, err
		}
		updated++
		if to == domain.StatusApproved {
			s.pipeline.ProcessAsync(id)
		}
	}
	return updated, nil
}

// List returns queue contents for the admin review screen.
func (s *Ingestion) List(ctx context.Context, filter driven.SourceFilter) ([]domain.Source, int, error) {
	return s.sources.List(ctx, filter)
}

// PendingCount returns the number of sources awaiting a decision.
func (s *Ingestion) PendingCount(ctx context.Context) (int, error) {
	return s.sources.CountByStatus(ctx, domain.StatusPending)
}

// scheduleSummary generates a synopsis in the background and writes it
// back. The request context is not reused.
func (s *Ingestion) scheduleSummary(sourceID, title, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), summaryTimeout)
		defer cancel()

		summary := s.summariser.Summarise(ctx, title, body)
		if summary == "" {
			return
		}

		// UpdateSummary touches only the summary column; a full Save
		// here could revert a status transition that landed meanwhile.
		if err := s.sources.UpdateSummary(ctx, sourceID, summary); err != nil {
			s.log.Warn("summary writeback failed",
				zap.String("source_id", sourceID), zap.Error(err))
		}
	}()
}
