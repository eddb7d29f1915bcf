package domain

import "time"

// ItemType classifies an extracted project item.
type ItemType string

const (
	// ItemDecision is a decision made by the project team.
	ItemDecision ItemType = "decision"
	// ItemActionItem is a task assigned to someone.
	ItemActionItem ItemType = "action_item"
	// ItemTopic is a subject discussed without resolution.
	ItemTopic ItemType = "topic"
	// ItemIdea is a proposal raised but not decided.
	ItemIdea ItemType = "idea"
	// ItemInformation is a factual statement worth recording.
	ItemInformation ItemType = "information"
)

// ValidItemTypes is the closed set of item classifications.
var ValidItemTypes = map[ItemType]bool{
	ItemDecision:    true,
	ItemActionItem:  true,
	ItemTopic:       true,
	ItemIdea:        true,
	ItemInformation: true,
}

// DisciplineGeneral is the catch-all discipline assigned when extraction
// supplies no recognised discipline.
const DisciplineGeneral = "general"

// ValidDisciplines is the closed set of disciplines an item may affect.
var ValidDisciplines = map[string]bool{
	"architecture":    true,
	"structural":      true,
	"mep":             true,
	"electrical":      true,
	"plumbing":        true,
	"landscape":       true,
	"fire_protection": true,
	"acoustical":      true,
	"sustainability":  true,
	"civil":           true,
	"client":          true,
	"contractor":      true,
	"tenant":          true,
	"engineer":        true,
	DisciplineGeneral: true,
}

// ProjectItem is one structured unit produced by extraction. Items are
// created only on successful extraction and are never deleted by the
// pipeline once promoted to project data.
type ProjectItem struct {
	// ID is the unique identifier for the item.
	ID string

	// ProjectID references the owning project.
	ProjectID string

	// SourceID references the Source this item was extracted from.
	SourceID string

	// Type is the item classification.
	Type ItemType

	// Statement is the core assertion of the item.
	Statement string

	// Who names the person the statement is attributed to.
	Who string

	// Timestamp is the position within the source (e.g. "00:14:32" in a
	// transcript). Free-form, may be empty.
	Timestamp string

	// AffectedDisciplines is never empty; validation substitutes
	// DisciplineGeneral when extraction supplies none.
	AffectedDisciplines []string

	// Confidence is the extractor's self-reported confidence in [0, 1].
	// Out-of-range values are clamped, not rejected.
	Confidence float64

	// Decision-specific fields.
	Why       string
	Causation string
	Impacts   string
	Consensus map[string]string

	// Action-item-specific fields.
	Owner   string
	DueDate string
	IsDone  bool

	// Topic / idea / information context.
	DiscussionPoints string
	RelatedTopic     string
	ReferenceSource  string

	// SourceExcerpt is the verbatim fragment the item was derived from.
	SourceExcerpt string

	// Embedding is an optional vector for semantic search. Nil when the
	// embedding model is unavailable.
	Embedding []float32

	// CreatedAt is when the item was persisted.
	CreatedAt time.Time
}

// ClampConfidence bounds a confidence score to [0, 1].
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
