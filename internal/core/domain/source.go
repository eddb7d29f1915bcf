package domain

import "time"

// SourceType identifies the acquisition channel that produced a Source.
type SourceType string

const (
	// SourceMeeting is a meeting transcript pushed via webhook.
	SourceMeeting SourceType = "meeting"
	// SourceEmail is an email acquired by the mailbox poller.
	SourceEmail SourceType = "email"
	// SourceDocument is a file discovered in a monitored cloud folder
	// or uploaded manually.
	SourceDocument SourceType = "document"
	// SourceManual is free text entered directly by a user.
	SourceManual SourceType = "manual_input"
)

// IngestionStatus is the lifecycle state of a Source.
type IngestionStatus string

const (
	// StatusPending means the Source is waiting for an admin decision.
	StatusPending IngestionStatus = "pending"
	// StatusApproved means an admin approved the Source for extraction.
	// A Source whose extraction failed stays approved and may be retried.
	StatusApproved IngestionStatus = "approved"
	// StatusRejected means an admin declined the Source. Terminal.
	StatusRejected IngestionStatus = "rejected"
	// StatusProcessed means extraction completed successfully. Terminal.
	StatusProcessed IngestionStatus = "processed"
)

// Source represents an acquired external item in the ingestion queue.
// Each Source belongs to a project and carries the raw payload that
// extraction will run against once approved.
type Source struct {
	// ID is the unique identifier for the source.
	ID string

	// ProjectID references the owning project.
	ProjectID string

	// Type identifies the acquisition channel.
	Type SourceType

	// Title is the meeting title, email subject, or file name.
	Title string

	// OccurredAt is when the underlying event happened (meeting date,
	// email date, file discovery time).
	OccurredAt time.Time

	// Status is the ingestion lifecycle state.
	Status IngestionStatus

	// RawContent is the channel-specific body text.
	RawContent string

	// Summary is a best-effort one-line synopsis. May be empty; its
	// absence blocks no transition.
	Summary string

	// ApprovedBy is the admin identity recorded on approval.
	ApprovedBy string

	// ApprovedAt is when the approval happened.
	ApprovedAt time.Time

	// WebhookID is the caller-supplied idempotency key for webhook
	// sources. For email sources it holds the provider message ID and
	// pairs with EmailThreadID as the dedup key.
	WebhookID string

	// Meeting-specific fields.
	MeetingType     string
	Participants    []string
	DurationMinutes int

	// Email-specific fields.
	EmailFrom     string
	EmailTo       []string
	EmailCC       []string
	EmailThreadID string

	// Document-specific fields. DriveFileID is the provider file ID and
	// the dedup key for cloud-folder sources.
	DriveFileID   string
	DriveFolderID string
	FileURL       string
	FileType      string
	FileSize      int64

	// CreatedAt is when the source entered the queue.
	CreatedAt time.Time

	// UpdatedAt is when the source was last updated.
	UpdatedAt time.Time
}

// CanTransition reports whether a status change is legal. The lifecycle
// only advances pending -> {approved, rejected} -> processed; rejected
// and processed are terminal. approved -> approved is allowed so a
// failed extraction attempt can leave the source untouched.
func CanTransition(from, to IngestionStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusProcessed || to == StatusApproved
	default:
		return false
	}
}

// IsTerminal reports whether no further transition can leave the status.
func (s IngestionStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusProcessed
}

// Valid reports whether the status is one of the known lifecycle states.
func (s IngestionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusProcessed:
		return true
	default:
		return false
	}
}
