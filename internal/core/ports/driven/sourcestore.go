package driven

import (
	"context"
	"time"

	"github.com/soubim/decisiond/internal/core/domain"
)

// SourceFilter narrows List results.
type SourceFilter struct {
	// ProjectID filters by owning project when non-empty.
	ProjectID string

	// Type filters by acquisition channel when non-empty.
	Type domain.SourceType

	// Status filters by ingestion status when non-empty.
	Status domain.IngestionStatus

	// OccurredFrom / OccurredTo bound the event time when non-zero.
	OccurredFrom time.Time
	OccurredTo   time.Time

	// Limit and Offset paginate. A zero Limit means the store default.
	Limit  int
	Offset int
}

// SourceStore persists the ingestion queue.
type SourceStore interface {
	// Save stores or updates a source.
	Save(ctx context.Context, source *domain.Source) error

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns sources matching the filter, newest first, plus the
	// total count before pagination.
	List(ctx context.Context, filter SourceFilter) ([]domain.Source, int, error)

	// CountByStatus returns the number of sources with the given status.
	CountByStatus(ctx context.Context, status domain.IngestionStatus) (int, error)

	// UpdateStatus transitions a source's lifecycle state. Implementations
	// must enforce domain.CanTransition and return domain.ErrInvalidTransition
	// on a violation. Approval metadata is recorded only when to == approved.
	UpdateStatus(ctx context.Context, id string, to domain.IngestionStatus, approvedBy string) error

	// UpdateSummary writes the generated synopsis for a source without
	// touching any other column. The summary writeback runs in the
	// background and must not race lifecycle transitions.
	UpdateSummary(ctx context.Context, id, summary string) error

	// Dedup lookups. Each returns domain.ErrNotFound on a miss.

	// FindByWebhookID locates a source by its webhook idempotency key.
	FindByWebhookID(ctx context.Context, webhookID string) (*domain.Source, error)

	// FindByEmailMessage locates an email source by thread ID + message ID.
	FindByEmailMessage(ctx context.Context, threadID, messageID string) (*domain.Source, error)

	// FindByDriveFileID locates a document source by provider file ID.
	FindByDriveFileID(ctx context.Context, fileID string) (*domain.Source, error)

	// CountProcessedInThread counts processed sources in an email thread,
	// excluding the given source. Used for thread-overlap detection.
	CountProcessedInThread(ctx context.Context, threadID, excludeSourceID string) (int, error)
}
