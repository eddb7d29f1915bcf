package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/soubim/decisiond/internal/core/domain"
	"github.com/soubim/decisiond/internal/core/ports/driven"
)

// defaultListLimit applies when a filter leaves Limit at zero.
const defaultListLimit = 50

// sourceStore implements driven.SourceStore.
type sourceStore struct {
	store *Store
}

var _ driven.SourceStore = (*sourceStore)(nil)

const sourceColumns = `id, project_id, type, title, occurred_at, status, raw_content, summary,
	approved_by, approved_at, webhook_id, meeting_type, participants, duration_minutes,
	email_from, email_to, email_cc, email_thread_id,
	drive_file_id, drive_folder_id, file_url, file_type, file_size,
	created_at, updated_at`

// Save stores or updates a source.
func (s *sourceStore) Save(ctx context.Context, source *domain.Source) error {
	participantsJSON, err := json.Marshal(orEmpty(source.Participants))
	if err != nil {
		return fmt.Errorf("marshalling participants: %w", err)
	}
	emailToJSON, err := json.Marshal(orEmpty(source.EmailTo))
	if err != nil {
		return fmt.Errorf("marshalling email_to: %w", err)
	}
	emailCCJSON, err := json.Marshal(orEmpty(source.EmailCC))
	if err != nil {
		return fmt.Errorf("marshalling email_cc: %w", err)
	}

	now := time.Now().UTC()
	if source.CreatedAt.IsZero() {
		source.CreatedAt = now
	}
	source.UpdatedAt = now

	// Update first: an upsert on id would still trip the dedup indexes
	// when rewriting an existing row. Only content columns are written;
	// status and approval metadata move exclusively through UpdateStatus,
	// so a stale in-memory copy cannot revert a concurrent transition.
	result, err := s.store.db.ExecContext(ctx, `
		UPDATE sources SET
			title = ?, occurred_at = ?, raw_content = ?, summary = ?, updated_at = ?
		WHERE id = ?
	`, source.Title, source.OccurredAt, source.RawContent,
		source.Summary, source.UpdatedAt, source.ID)
	if err != nil {
		return fmt.Errorf("updating source: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected > 0 {
		return nil
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO sources (`+sourceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, source.ID, source.ProjectID, string(source.Type), source.Title, source.OccurredAt,
		string(source.Status), source.RawContent, source.Summary,
		source.ApprovedBy, nullTime(source.ApprovedAt), nullString(source.WebhookID),
		source.MeetingType, string(participantsJSON), source.DurationMinutes,
		source.EmailFrom, string(emailToJSON), string(emailCCJSON), source.EmailThreadID,
		nullString(source.DriveFileID), source.DriveFolderID, source.FileURL,
		source.FileType, source.FileSize, source.CreatedAt, source.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("saving source: %w", err)
	}
	return nil
}

// Get retrieves a source by ID.
func (s *sourceStore) Get(ctx context.Context, id string) (*domain.Source, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE id = ?`, id)
	return scanSourceRow(row)
}

// List returns sources matching the filter, newest first, plus the
// total count before pagination.
func (s *sourceStore) List(ctx context.Context, filter driven.SourceFilter) ([]domain.Source, int, error) {
	where, args := buildSourceFilter(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM sources" + where
	if err := s.store.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting sources: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := `SELECT ` + sourceColumns + ` FROM sources` + where +
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source //nolint:prealloc // size unknown from query
	for rows.Next() {
		source, err := scanSourceRows(rows)
		if err != nil {
			return nil, 0, err
		}
		sources = append(sources, *source)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating sources: %w", err)
	}

	return sources, total, nil
}

// CountByStatus returns the number of sources with the given status.
func (s *sourceStore) CountByStatus(ctx context.Context, status domain.IngestionStatus) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sources WHERE status = ?", string(status)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting sources: %w", err)
	}
	return count, nil
}

// UpdateStatus transitions a source's lifecycle state, enforcing the
// legal transitions. Approval metadata is recorded only on the
// transition to approved.
func (s *sourceStore) UpdateStatus(ctx context.Context, id string, to domain.IngestionStatus, approvedBy string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var current string
	err = tx.QueryRowContext(ctx, "SELECT status FROM sources WHERE id = ?", id).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("reading status: %w", err)
	}

	if !domain.CanTransition(domain.IngestionStatus(current), to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current, to)
	}

	now := time.Now().UTC()
	if to == domain.StatusApproved {
		_, err = tx.ExecContext(ctx, `
			UPDATE sources SET status = ?, approved_by = ?, approved_at = ?, updated_at = ?
			WHERE id = ?
		`, string(to), approvedBy, now, now, id)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE sources SET status = ?, updated_at = ? WHERE id = ?
		`, string(to), now, id)
	}
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// UpdateSummary writes a generated synopsis without touching any other
// column, so the background writeback cannot race a status transition.
func (s *sourceStore) UpdateSummary(ctx context.Context, id, summary string) error {
	result, err := s.store.db.ExecContext(ctx, `
		UPDATE sources SET summary = ?, updated_at = ? WHERE id = ?
	`, summary, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating summary: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindByWebhookID locates a source by its webhook idempotency key.
func (s *sourceStore) FindByWebhookID(ctx context.Context, webhookID string) (*domain.Source, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE webhook_id = ?`, webhookID)
	return scanSourceRow(row)
}

// FindByEmailMessage locates an email source by thread ID + message ID.
func (s *sourceStore) FindByEmailMessage(ctx context.Context, threadID, messageID string) (*domain.Source, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE email_thread_id = ? AND webhook_id = ?`,
		threadID, messageID)
	return scanSourceRow(row)
}

// FindByDriveFileID locates a document source by provider file ID.
func (s *sourceStore) FindByDriveFileID(ctx context.Context, fileID string) (*domain.Source, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE drive_file_id = ?`, fileID)
	return scanSourceRow(row)
}

// CountProcessedInThread counts processed sources in an email thread,
// excluding the given source.
func (s *sourceStore) CountProcessedInThread(ctx context.Context, threadID, excludeSourceID string) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sources
		WHERE email_thread_id = ? AND id != ? AND status = ?
	`, threadID, excludeSourceID, string(domain.StatusProcessed)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting processed thread siblings: %w", err)
	}
	return count, nil
}

// buildSourceFilter assembles the WHERE clause for List.
func buildSourceFilter(filter driven.SourceFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.ProjectID != "" {
		clauses = append(clauses, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	if !filter.OccurredFrom.IsZero() {
		clauses = append(clauses, "occurred_at >= ?")
		args = append(args, filter.OccurredFrom)
	}
	if !filter.OccurredTo.IsZero() {
		clauses = append(clauses, "occurred_at <= ?")
		args = append(args, filter.OccurredTo)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// sourceScanner covers *sql.Row and *sql.Rows.
type sourceScanner interface {
	Scan(dest ...any) error
}

func scanSource(sc sourceScanner) (*domain.Source, error) {
	var src domain.Source
	var sourceType, status string
	var participantsJSON, emailToJSON, emailCCJSON string
	var approvedAt, createdAt, updatedAt sql.NullTime
	var webhookID, driveFileID sql.NullString

	err := sc.Scan(&src.ID, &src.ProjectID, &sourceType, &src.Title, &src.OccurredAt,
		&status, &src.RawContent, &src.Summary,
		&src.ApprovedBy, &approvedAt, &webhookID, &src.MeetingType,
		&participantsJSON, &src.DurationMinutes,
		&src.EmailFrom, &emailToJSON, &emailCCJSON, &src.EmailThreadID,
		&driveFileID, &src.DriveFolderID, &src.FileURL, &src.FileType, &src.FileSize,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	src.Type = domain.SourceType(sourceType)
	src.Status = domain.IngestionStatus(status)
	src.WebhookID = webhookID.String
	src.DriveFileID = driveFileID.String
	if approvedAt.Valid {
		src.ApprovedAt = approvedAt.Time
	}
	if createdAt.Valid {
		src.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		src.UpdatedAt = updatedAt.Time
	}

	if err := json.Unmarshal([]byte(participantsJSON), &src.Participants); err != nil {
		return nil, fmt.Errorf("unmarshaling participants: %w", err)
	}
	if err := json.Unmarshal([]byte(emailToJSON), &src.EmailTo); err != nil {
		return nil, fmt.Errorf("unmarshaling email_to: %w", err)
	}
	if err := json.Unmarshal([]byte(emailCCJSON), &src.EmailCC); err != nil {
		return nil, fmt.Errorf("unmarshaling email_cc: %w", err)
	}
	return &src, nil
}

func scanSourceRow(row *sql.Row) (*domain.Source, error) {
	src, err := scanSource(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning source: %w", err)
	}
	return src, nil
}

func scanSourceRows(rows *sql.Rows) (*domain.Source, error) {
	src, err := scanSource(rows)
	if err != nil {
		return nil, fmt.Errorf("scanning source: %w", err)
	}
	return src, nil
}

// orEmpty avoids persisting JSON null for a nil slice.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// nullString maps "" to SQL NULL so partial unique indexes ignore it.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullTime maps the zero time to SQL NULL.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// isUniqueViolation detects a unique-constraint failure from the driver.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
