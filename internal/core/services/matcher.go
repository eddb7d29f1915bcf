package services

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/soubim/decisiond/internal/core/domain"
	"github.com/soubim/decisiond/internal/core/ports/driven"
)

// labelPrefixes are stripped from a label before slug comparison.
var labelPrefixes = []string{"project/", "soubim/", "proj/"}

var separatorRe = regexp.MustCompile(`[-_\s]+`)

// ProjectMatcher resolves the owning project for items that arrive
// without an explicit project ID. Only active projects are candidates.
type ProjectMatcher struct {
	projects driven.ProjectStore
	log      *zap.Logger
}

// NewProjectMatcher creates a matcher backed by the project store.
func NewProjectMatcher(projects driven.ProjectStore, log *zap.Logger) *ProjectMatcher {
	return &ProjectMatcher{projects: projects, log: log.Named("matcher")}
}

// Match resolves a project ID from labels and a subject line, in
// priority order: a label matching a project-name slug, then the
// project name appearing in the subject. Returns
// domain.ErrNoProjectMatch when nothing matches.
func (m *ProjectMatcher) Match(ctx context.Context, labels []string, subject string) (string, error) {
	projects, err := m.projects.ListActive(ctx)
	if err != nil {
		return "", err
	}
	if len(projects) == 0 {
		m.log.Warn("no active projects to match against")
		return "", domain.ErrNoProjectMatch
	}

	for _, label := range labels {
		if id := matchLabel(label, projects); id != "" {
			m.log.Info("matched via label",
				zap.String("label", label), zap.String("project_id", id))
			return id, nil
		}
	}

	subjectLower := strings.ToLower(subject)
	for _, p := range projects {
		if p.Name != "" && strings.Contains(subjectLower, strings.ToLower(p.Name)) {
			m.log.Info("matched via subject",
				zap.String("project", p.Name), zap.String("project_id", p.ID))
			return p.ID, nil
		}
	}

	m.log.Warn("no project match",
		zap.String("subject", subject), zap.Strings("labels", labels))
	return "", domain.ErrNoProjectMatch
}

// matchLabel compares one label against every project, as a prefixed
// slug ("project/skyline-tower") or as the plain name.
func matchLabel(label string, projects []domain.Project) string {
	labelLower := strings.ToLower(label)

	stripped := labelLower
	for _, prefix := range labelPrefixes {
		if strings.HasPrefix(stripped, prefix) {
			stripped = stripped[len(prefix):]
			break
		}
	}
	labelNormalised := strings.TrimSpace(separatorRe.ReplaceAllString(stripped, " "))

	for _, p := range projects {
		if p.Name == "" {
			continue
		}
		nameLower := strings.ToLower(p.Name)
		nameSlug := strings.TrimSpace(separatorRe.ReplaceAllString(nameLower, " "))
		if labelNormalised == nameSlug || labelLower == nameLower {
			return p.ID
		}
	}
	return ""
}
