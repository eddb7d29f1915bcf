package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soubim/decisiond/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func insertProject(t *testing.T, store *Store, p domain.Project) {
	t.Helper()
	var folderID any
	if p.DriveFolderID != "" {
		folderID = p.DriveFolderID
	}
	var archivedAt any
	if !p.ArchivedAt.IsZero() {
		archivedAt = p.ArchivedAt
	}
	var lastPoll any
	if !p.LastDrivePoll.IsZero() {
		lastPoll = p.LastDrivePoll
	}
	_, err := store.db.Exec(`
		INSERT INTO projects (id, name, drive_folder_id, last_drive_poll, archived_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, folderID, lastPoll, archivedAt, time.Now().UTC())
	require.NoError(t, err)
}

func insertParticipant(t *testing.T, store *Store, p domain.Participant) {
	t.Helper()
	_, err := store.db.Exec(`
		INSERT INTO participants (id, project_id, name, email, discipline, role)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.ProjectID, p.Name, p.Email, p.Discipline, p.Role)
	require.NoError(t, err)
}

func TestNewStoreRunsMigrations(t *testing.T) {
	store := newTestStore(t)

	var version int
	err := store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, version, 1)
}

func TestNewStoreIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}
