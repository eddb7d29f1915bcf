package extraction

import (
	"fmt"
	"strings"

	"github.com/soubim/decisiond/internal/core/domain"
)

// EmbedText composes the text to embed for a project item. Statement,
// classification and attribution are always present; kind-specific
// context and disciplines are appended when set.
func EmbedText(item domain.ProjectItem) string {
	parts := []string{
		item.Statement,
		fmt.Sprintf("Type: %s", item.Type),
		fmt.Sprintf("Who: %s", item.Who),
	}

	switch item.Type {
	case domain.ItemDecision:
		if item.Why != "" {
			parts = append(parts, "Rationale: "+item.Why)
		}
		if item.Causation != "" {
			parts = append(parts, "Caused by: "+item.Causation)
		}
	case domain.ItemActionItem:
		if item.Owner != "" {
			parts = append(parts, "Owner: "+item.Owner)
		}
	case domain.ItemTopic:
		if item.DiscussionPoints != "" {
			parts = append(parts, "Discussion: "+item.DiscussionPoints)
		}
	case domain.ItemIdea:
		if item.RelatedTopic != "" {
			parts = append(parts, "Related to: "+item.RelatedTopic)
		}
	case domain.ItemInformation:
		if item.ReferenceSource != "" {
			parts = append(parts, "Source: "+item.ReferenceSource)
		}
	}

	if len(item.AffectedDisciplines) > 0 {
		parts = append(parts, "Disciplines: "+strings.Join(item.AffectedDisciplines, ", "))
	}

	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " | ")
}
