package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/soubim/decisiond/internal/core/domain"
)

func TestProjectMatcherLabels(t *testing.T) {
	projects := newMockProjectStore(
		domain.Project{ID: "p1", Name: "Skyline Tower"},
		domain.Project{ID: "p2", Name: "Harbour Front"},
	)
	m := NewProjectMatcher(projects, zap.NewNop())

	tests := []struct {
		name   string
		labels []string
		wantID string
	}{
		{"prefixed slug", []string{"project/skyline-tower"}, "p1"},
		{"alternate prefix", []string{"proj/harbour_front"}, "p2"},
		{"plain name label", []string{"Skyline Tower"}, "p1"},
		{"case insensitive", []string{"PROJECT/SKYLINE-TOWER"}, "p1"},
		{"unrelated label then match", []string{"inbox", "project/skyline-tower"}, "p1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := m.Match(context.Background(), tt.labels, "")
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestProjectMatcherSubjectFallback(t *testing.T) {
	projects := newMockProjectStore(
		domain.Project{ID: "p1", Name: "Skyline Tower"},
	)
	m := NewProjectMatcher(projects, zap.NewNop())

	id, err := m.Match(context.Background(), nil, "RE: Skyline Tower facade revisions")
	require.NoError(t, err)
	assert.Equal(t, "p1", id)
}

func TestProjectMatcherLabelBeatsSubject(t *testing.T) {
	projects := newMockProjectStore(
		domain.Project{ID: "p1", Name: "Skyline Tower"},
		domain.Project{ID: "p2", Name: "Harbour Front"},
	)
	m := NewProjectMatcher(projects, zap.NewNop())

	id, err := m.Match(context.Background(), []string{"project/harbour-front"}, "Skyline Tower update")
	require.NoError(t, err)
	assert.Equal(t, "p2", id)
}

func TestProjectMatcherNoMatch(t *testing.T) {
	projects := newMockProjectStore(
		domain.Project{ID: "p1", Name: "Skyline Tower"},
	)
	m := NewProjectMatcher(projects, zap.NewNop())

	_, err := m.Match(context.Background(), []string{"newsletter"}, "Weekly digest")
	assert.ErrorIs(t, err, domain.ErrNoProjectMatch)
}

func TestProjectMatcherIgnoresArchivedProjects(t *testing.T) {
	projects := newMockProjectStore(
		domain.Project{ID: "p1", Name: "Skyline Tower", ArchivedAt: time.Now()},
	)
	m := NewProjectMatcher(projects, zap.NewNop())

	_, err := m.Match(context.Background(), []string{"project/skyline-tower"}, "Skyline Tower update")
	assert.ErrorIs(t, err, domain.ErrNoProjectMatch)
}

func TestProjectMatcherNoActiveProjects(t *testing.T) {
	m := NewProjectMatcher(newMockProjectStore(), zap.NewNop())

	_, err := m.Match(context.Background(), []string{"anything"}, "anything")
	assert.ErrorIs(t, err, domain.ErrNoProjectMatch)
}
