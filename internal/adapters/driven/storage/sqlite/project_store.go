package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/soubim/decisiond/internal/core/domain"
	"github.com/soubim/decisiond/internal/core/ports/driven"
)

// projectStore implements driven.ProjectStore. Project CRUD lives in
// the surrounding application; this store only reads projects and
// advances poll watermarks.
type projectStore struct {
	store *Store
}

var _ driven.ProjectStore = (*projectStore)(nil)

const projectColumns = `id, name, drive_folder_id, last_drive_poll, archived_at, created_at`

// Get retrieves a project by ID.
func (s *projectStore) Get(ctx context.Context, id string) (*domain.Project, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)

	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return project, nil
}

// ListActive returns all non-archived projects.
func (s *projectStore) ListActive(ctx context.Context) ([]domain.Project, error) {
	return s.list(ctx, `SELECT `+projectColumns+` FROM projects WHERE archived_at IS NULL`)
}

// ListMonitored returns active projects with a cloud folder configured.
func (s *projectStore) ListMonitored(ctx context.Context) ([]domain.Project, error) {
	return s.list(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE archived_at IS NULL AND drive_folder_id IS NOT NULL AND drive_folder_id != ''
	`)
}

// SetLastDrivePoll advances a project's folder-poll watermark.
func (s *projectStore) SetLastDrivePoll(ctx context.Context, projectID string, t time.Time) error {
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE projects SET last_drive_poll = ? WHERE id = ?", t.UTC(), projectID)
	if err != nil {
		return fmt.Errorf("updating watermark: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking watermark update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *projectStore) list(ctx context.Context, query string) ([]domain.Project, error) {
	rows, err := s.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project //nolint:prealloc // size unknown from query
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

type projectScanner interface {
	Scan(dest ...any) error
}

func scanProject(sc projectScanner) (*domain.Project, error) {
	var p domain.Project
	var driveFolderID sql.NullString
	var lastPoll, archivedAt, createdAt sql.NullTime

	if err := sc.Scan(&p.ID, &p.Name, &driveFolderID, &lastPoll, &archivedAt, &createdAt); err != nil {
		return nil, err
	}

	p.DriveFolderID = driveFolderID.String
	if lastPoll.Valid {
		p.LastDrivePoll = lastPoll.Time
	}
	if archivedAt.Valid {
		p.ArchivedAt = archivedAt.Time
	}
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}
	return &p, nil
}

// participantStore implements driven.ParticipantStore.
type participantStore struct {
	store *Store
}

var _ driven.ParticipantStore = (*participantStore)(nil)

// ListByProject returns the roster for a project.
func (s *participantStore) ListByProject(ctx context.Context, projectID string) ([]domain.Participant, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, project_id, name, email, discipline, role
		FROM participants WHERE project_id = ? ORDER BY name
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying participants: %w", err)
	}
	defer rows.Close()

	var participants []domain.Participant //nolint:prealloc // size unknown from query
	for rows.Next() {
		var p domain.Participant
		var email, role sql.NullString
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.Name, &email, &p.Discipline, &role); err != nil {
			return nil, fmt.Errorf("scanning participant: %w", err)
		}
		p.Email = email.String
		p.Role = role.String
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating participants: %w", err)
	}
	return participants, nil
}
