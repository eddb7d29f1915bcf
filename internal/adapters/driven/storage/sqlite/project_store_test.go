package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soubim/decisiond/internal/core/domain"
)

func TestProjectStoreGet(t *testing.T) {
	store := newTestStore(t)
	insertProject(t, store, domain.Project{
		ID:            "proj-1",
		Name:          "Skyline Tower",
		DriveFolderID: "folder-1",
	})

	got, err := store.ProjectStore().Get(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.Equal(t, "Skyline Tower", got.Name)
	assert.Equal(t, "folder-1", got.DriveFolderID)
	assert.True(t, got.Active())
}

func TestProjectStoreGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ProjectStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectStoreListActiveExcludesArchived(t *testing.T) {
	store := newTestStore(t)
	insertProject(t, store, domain.Project{ID: "proj-1", Name: "Skyline Tower"})
	insertProject(t, store, domain.Project{
		ID:         "proj-2",
		Name:       "Old Mill",
		ArchivedAt: time.Now().UTC(),
	})

	active, err := store.ProjectStore().ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "proj-1", active[0].ID)
}

func TestProjectStoreListMonitored(t *testing.T) {
	store := newTestStore(t)
	insertProject(t, store, domain.Project{ID: "proj-1", Name: "No Folder"})
	insertProject(t, store, domain.Project{
		ID:            "proj-2",
		Name:          "Monitored",
		DriveFolderID: "folder-2",
	})
	insertProject(t, store, domain.Project{
		ID:            "proj-3",
		Name:          "Archived Monitored",
		DriveFolderID: "folder-3",
		ArchivedAt:    time.Now().UTC(),
	})

	monitored, err := store.ProjectStore().ListMonitored(context.Background())
	require.NoError(t, err)
	require.Len(t, monitored, 1)
	assert.Equal(t, "proj-2", monitored[0].ID)
}

func TestProjectStoreSetLastDrivePoll(t *testing.T) {
	store := newTestStore(t)
	insertProject(t, store, domain.Project{
		ID:            "proj-1",
		Name:          "Skyline Tower",
		DriveFolderID: "folder-1",
	})
	ctx := context.Background()

	mark := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.ProjectStore().SetLastDrivePoll(ctx, "proj-1", mark))

	got, err := store.ProjectStore().Get(ctx, "proj-1")
	require.NoError(t, err)
	assert.True(t, got.LastDrivePoll.Equal(mark))

	err = store.ProjectStore().SetLastDrivePoll(ctx, "missing", mark)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParticipantStoreListByProject(t *testing.T) {
	store := newTestStore(t)
	insertProject(t, store, domain.Project{ID: "proj-1", Name: "Skyline Tower"})
	insertParticipant(t, store, domain.Participant{
		ID: "per-1", ProjectID: "proj-1", Name: "Jane Doe",
		Email: "jane@example.com", Discipline: "architecture", Role: "Lead Architect",
	})
	insertParticipant(t, store, domain.Participant{
		ID: "per-2", ProjectID: "proj-1", Name: "Marco Rossi", Discipline: "structural",
	})

	roster, err := store.ParticipantStore().ListByProject(context.Background(), "proj-1")
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "Jane Doe", roster[0].Name)
	assert.Equal(t, "Lead Architect", roster[0].Role)
	assert.Equal(t, "Marco Rossi", roster[1].Name)

	empty, err := store.ParticipantStore().ListByProject(context.Background(), "other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
