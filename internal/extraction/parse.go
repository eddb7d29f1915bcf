package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// rawItem mirrors one element of the completion model's JSON output
// before validation.
type rawItem struct {
	ItemType            string            `json:"item_type"`
	Statement           string            `json:"statement"`
	Who                 string            `json:"who"`
	Timestamp           string            `json:"timestamp"`
	AffectedDisciplines []string          `json:"affected_disciplines"`
	Confidence          *float64          `json:"confidence"`
	Why                 string            `json:"why"`
	Causation           string            `json:"causation"`
	Impacts             string            `json:"impacts"`
	Consensus           map[string]string `json:"consensus"`
	Owner               string            `json:"owner"`
	DueDate             string            `json:"due_date"`
	DiscussionPoints    string            `json:"discussion_points"`
	RelatedTopic        string            `json:"related_topic"`
	ReferenceSource     string            `json:"reference_source"`
	SourceExcerpt       string            `json:"source_excerpt"`
}

// itemsEnvelope is the alternate response shape where the array is
// wrapped in an object.
type itemsEnvelope struct {
	Items []rawItem `json:"items"`
}

// parseItems decodes the completion response into raw items. The model
// is asked for a bare JSON array but sometimes wraps it in a markdown
// fence or an {"items": [...]} envelope; both are tolerated.
func parseItems(response string) ([]rawItem, error) {
	text := stripCodeFence(strings.TrimSpace(response))
	if text == "" {
		return nil, fmt.Errorf("empty completion response")
	}

	var items []rawItem
	if err := json.Unmarshal([]byte(text), &items); err == nil {
		return items, nil
	}

	var envelope itemsEnvelope
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return nil, fmt.Errorf("response is neither a JSON array nor an items object: %w", err)
	}
	return envelope.Items, nil
}

// stripCodeFence removes a surrounding markdown code fence, with or
// without a language tag.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	// Drop the opening fence line ("```" or "```json").
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[idx+1:]
	} else {
		return strings.TrimPrefix(text, "```")
	}

	// Drop everything from the closing fence on.
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
