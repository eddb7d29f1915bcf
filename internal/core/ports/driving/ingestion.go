// Package driving provides interfaces that the outside world uses to
// drive the core (primary/inbound ports).
package driving

import (
	"context"
	"time"

	"github.com/soubim/decisiond/internal/core/domain"
	"github.com/soubim/decisiond/internal/core/ports/driven"
)

// TranscriptPayload is the body of an inbound transcript webhook.
type TranscriptPayload struct {
	// WebhookID is the caller-supplied idempotency key.
	WebhookID string

	// ProjectID is the explicit owning project.
	ProjectID string

	// MeetingTitle is the meeting title; defaults when empty.
	MeetingTitle string

	// MeetingDate is when the meeting occurred; defaults to now when zero.
	MeetingDate time.Time

	// MeetingType is a free-form meeting classification.
	MeetingType string

	// Transcript is the raw transcript text.
	Transcript string

	// Participants are the attendee names as reported by the caller.
	Participants []string

	// DurationMinutes is the meeting length.
	DurationMinutes int
}

// DocumentUpload is a manually uploaded document.
type DocumentUpload struct {
	ProjectID string
	Title     string
	FileType  string
	Content   string
}

// ReceiveResult reports the outcome of accepting an external event.
type ReceiveResult struct {
	// Status is "pending" for a new source or "duplicate" when the
	// dedup gate matched an existing one.
	Status string

	// SourceID is the new or existing source's ID.
	SourceID string
}

// IngestionService is the admin-facing surface of the pipeline: it
// accepts external events into the queue and applies approval decisions.
type IngestionService interface {
	// ReceiveTranscript accepts a webhook transcript. Idempotent on
	// WebhookID: a repeat delivery returns the existing source with
	// Status "duplicate" and creates nothing.
	ReceiveTranscript(ctx context.Context, payload TranscriptPayload) (*ReceiveResult, error)

	// UploadDocument accepts a manually uploaded document as a pending source.
	UploadDocument(ctx context.Context, upload DocumentUpload) (*ReceiveResult, error)

	// Approve applies an admin decision to one source. Target status
	// must be approved or rejected. On approval the extraction pipeline
	// is scheduled as background work; the call returns before
	// extraction completes.
	Approve(ctx context.Context, sourceID string, to domain.IngestionStatus, approvedBy string) error

	// BatchApprove applies one decision to many sources. Unresolved IDs
	// are skipped; the count of updated sources is returned.
	BatchApprove(ctx context.Context, sourceIDs []string, to domain.IngestionStatus, approvedBy string) (int, error)

	// List returns queue contents for the admin review screen.
	List(ctx context.Context, filter driven.SourceFilter) ([]domain.Source, int, error)

	// PendingCount returns the number of sources awaiting a decision.
	PendingCount(ctx context.Context) (int, error)
}
