package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soubim/decisiond/internal/core/domain"
)

func floatPtr(v float64) *float64 { return &v }

func TestValidateItemsDropsInvalidElements(t *testing.T) {
	raw := []rawItem{
		{ItemType: "decision", Statement: "Use steel framing"},
		{ItemType: "prophecy", Statement: "Not a known kind"},
		{ItemType: "idea", Statement: "   "},
		{ItemType: "information", Statement: "Planning approval granted"},
	}

	items := validateItems(raw, "proj-1", "src-1")
	require.Len(t, items, 2)
	assert.Equal(t, domain.ItemDecision, items[0].Type)
	assert.Equal(t, domain.ItemInformation, items[1].Type)
	for _, item := range items {
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, "proj-1", item.ProjectID)
		assert.Equal(t, "src-1", item.SourceID)
	}
}

func TestValidateItemConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want float64
	}{
		{"omitted defaults", nil, 0.5},
		{"above range clamps", floatPtr(1.7), 1.0},
		{"below range clamps", floatPtr(-0.3), 0.0},
		{"explicit zero is kept", floatPtr(0), 0.0},
		{"in range passes through", floatPtr(0.85), 0.85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, ok := validateItem(rawItem{
				ItemType:   "decision",
				Statement:  "s",
				Confidence: tt.in,
			}, "p", "s")
			require.True(t, ok)
			assert.Equal(t, tt.want, item.Confidence)
		})
	}
}

func TestValidateItemTypeNormalisation(t *testing.T) {
	item, ok := validateItem(rawItem{ItemType: "  Decision ", Statement: "s"}, "p", "s")
	require.True(t, ok)
	assert.Equal(t, domain.ItemDecision, item.Type)
}

func TestValidateItemWhoDefaults(t *testing.T) {
	item, ok := validateItem(rawItem{ItemType: "topic", Statement: "s"}, "p", "s")
	require.True(t, ok)
	assert.Equal(t, "Unknown", item.Who)
}

func TestValidateItemActionItemOwnerFallsBackToWho(t *testing.T) {
	item, ok := validateItem(rawItem{
		ItemType:  "action_item",
		Statement: "Chase structural calcs",
		Who:       "Priya",
	}, "p", "s")
	require.True(t, ok)
	assert.Equal(t, "Priya", item.Owner)
	assert.False(t, item.IsDone)

	item, ok = validateItem(rawItem{
		ItemType:  "action_item",
		Statement: "Chase structural calcs",
		Who:       "Priya",
		Owner:     "Marco",
	}, "p", "s")
	require.True(t, ok)
	assert.Equal(t, "Marco", item.Owner)
}

func TestValidateItemKindSpecificFields(t *testing.T) {
	item, ok := validateItem(rawItem{
		ItemType:  "decision",
		Statement: "Switch to precast panels",
		Why:       "Programme pressure",
		Causation: "Steel lead times",
		Impacts:   "Facade detailing",
		Consensus: map[string]string{"Jane": "agree"},
	}, "p", "s")
	require.True(t, ok)
	assert.Equal(t, "Programme pressure", item.Why)
	assert.Equal(t, "Steel lead times", item.Causation)
	assert.Equal(t, "Facade detailing", item.Impacts)
	assert.Equal(t, map[string]string{"Jane": "agree"}, item.Consensus)
}

func TestNormaliseDisciplines(t *testing.T) {
	assert.Equal(t, []string{"general"}, normaliseDisciplines(nil))
	assert.Equal(t, []string{"general"}, normaliseDisciplines([]string{"astrology"}))
	assert.Equal(t, []string{"structural"}, normaliseDisciplines([]string{" Structural ", "astrology"}))
}
