package extraction

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soubim/decisiond/internal/core/domain"
)

// defaultConfidence is assumed when the model omits the field.
const defaultConfidence = 0.5

// validateItems converts raw model output into project items. Elements
// failing validation are dropped individually; the survivors are
// returned in order.
func validateItems(raw []rawItem, projectID, sourceID string) []domain.ProjectItem {
	items := make([]domain.ProjectItem, 0, len(raw))
	for _, r := range raw {
		if item, ok := validateItem(r, projectID, sourceID); ok {
			items = append(items, item)
		}
	}
	return items
}

// validateItem checks one element against the five-kind schema.
func validateItem(r rawItem, projectID, sourceID string) (domain.ProjectItem, bool) {
	itemType := domain.ItemType(strings.ToLower(strings.TrimSpace(r.ItemType)))
	if !domain.ValidItemTypes[itemType] {
		return domain.ProjectItem{}, false
	}

	statement := strings.TrimSpace(r.Statement)
	if statement == "" {
		return domain.ProjectItem{}, false
	}

	who := strings.TrimSpace(r.Who)
	if who == "" {
		who = "Unknown"
	}

	confidence := defaultConfidence
	if r.Confidence != nil {
		confidence = domain.ClampConfidence(*r.Confidence)
	}

	item := domain.ProjectItem{
		ID:                  uuid.NewString(),
		ProjectID:           projectID,
		SourceID:            sourceID,
		Type:                itemType,
		Statement:           statement,
		Who:                 who,
		Timestamp:           r.Timestamp,
		AffectedDisciplines: normaliseDisciplines(r.AffectedDisciplines),
		Confidence:          confidence,
		SourceExcerpt:       r.SourceExcerpt,
		CreatedAt:           time.Now().UTC(),
	}

	switch itemType {
	case domain.ItemDecision:
		item.Why = r.Why
		item.Causation = r.Causation
		item.Impacts = r.Impacts
		item.Consensus = r.Consensus
	case domain.ItemActionItem:
		item.Owner = r.Owner
		if item.Owner == "" {
			item.Owner = who
		}
		item.DueDate = r.DueDate
		item.IsDone = false
	case domain.ItemTopic:
		item.DiscussionPoints = r.DiscussionPoints
	case domain.ItemIdea:
		item.RelatedTopic = r.RelatedTopic
	case domain.ItemInformation:
		item.ReferenceSource = r.ReferenceSource
	}

	return item, true
}

// normaliseDisciplines lowercases and filters disciplines against the
// known set, substituting the catch-all when nothing survives.
func normaliseDisciplines(raw []string) []string {
	var out []string
	for _, d := range raw {
		d = strings.ToLower(strings.TrimSpace(d))
		if domain.ValidDisciplines[d] {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		out = []string{domain.DisciplineGeneral}
	}
	return out
}
