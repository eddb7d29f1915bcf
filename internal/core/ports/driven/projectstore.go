package driven

import (
	"context"
	"time"

	"github.com/soubim/decisiond/internal/core/domain"
)

// ProjectStore reads projects and maintains poll watermarks. Project
// CRUD belongs to the surrounding application, not this pipeline.
type ProjectStore interface {
	// Get retrieves a project by ID.
	Get(ctx context.Context, id string) (*domain.Project, error)

	// ListActive returns all non-archived projects.
	ListActive(ctx context.Context) ([]domain.Project, error)

	// ListMonitored returns active projects with a cloud folder configured.
	ListMonitored(ctx context.Context) ([]domain.Project, error)

	// SetLastDrivePoll advances a project's folder-poll watermark.
	SetLastDrivePoll(ctx context.Context, projectID string, t time.Time) error
}

// ParticipantStore reads project rosters for prompt context.
type ParticipantStore interface {
	// ListByProject returns the roster for a project.
	ListByProject(ctx context.Context, projectID string) ([]domain.Participant, error)
}
