package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeMessageKeywordCapture(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		category Category
		want     Confidence
	}{
		{"problem keyword", "Our biggest problem is double bookings", CategoryProblemDefinition, ConfidenceMedium},
		{"users keyword", "Mostly our staff and a few admin people", CategoryPrimaryUsers, ConfidenceMedium},
		{"feature keyword", "It should track appointments", CategoryCoreFeatures, ConfidenceMedium},
		{"data keyword", "We need to store client records", CategoryDataRequirements, ConfidenceMedium},
		{"integration keyword", "Payments go through Stripe", CategoryIntegrations, ConfidenceMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewState()
			AnalyzeMessage(tt.message, state)

			cs := state.Categories[tt.category]
			assert.Equal(t, tt.want, cs.Confidence)
			require.NotNil(t, cs.Data)
			assert.Equal(t, tt.message, *cs.Data)
		})
	}
}

func TestAnalyzeMessageMobileDecisive(t *testing.T) {
	state := NewState()
	msg := "We definitely want an iOS app for the techs in the field"
	AnalyzeMessage(msg, state)

	cs := state.Categories[CategoryMobileNeeds]
	assert.Equal(t, ConfidenceHigh, cs.Confidence)
	require.NotNil(t, cs.Data)
	assert.Equal(t, msg, *cs.Data)
}

func TestAnalyzeMessageWebOnly(t *testing.T) {
	state := NewState()
	AnalyzeMessage("A web dashboard is fine, everyone works from a browser", state)

	cs := state.Categories[CategoryMobileNeeds]
	assert.Equal(t, ConfidenceHigh, cs.Confidence)
	require.NotNil(t, cs.Data)
	assert.Equal(t, "Web app only", *cs.Data)
}

func TestAnalyzeMessageMobileWinsOverWeb(t *testing.T) {
	state := NewState()
	msg := "Web is fine for admins but field staff need mobile"
	AnalyzeMessage(msg, state)

	cs := state.Categories[CategoryMobileNeeds]
	require.NotNil(t, cs.Data)
	assert.Equal(t, msg, *cs.Data)
}

func TestAnalyzeMessageMultipleCategories(t *testing.T) {
	state := NewState()
	msg := "The problem is my med-spa staff track client data in spreadsheets and nothing syncs"
	AnalyzeMessage(msg, state)

	assert.Equal(t, ConfidenceMedium, state.Categories[CategoryProblemDefinition].Confidence)
	assert.Equal(t, ConfidenceMedium, state.Categories[CategoryPrimaryUsers].Confidence)
	assert.Equal(t, ConfidenceMedium, state.Categories[CategoryCoreFeatures].Confidence)
	assert.Equal(t, ConfidenceMedium, state.Categories[CategoryDataRequirements].Confidence)
	assert.Equal(t, ConfidenceMedium, state.Categories[CategoryIntegrations].Confidence)
}

func TestAnalyzeMessageNeverDowngrades(t *testing.T) {
	state := NewState()
	original := "Dentists booking their own appointments"
	state.Promote(CategoryPrimaryUsers, ConfidenceHigh, &original)

	AnalyzeMessage("Also some customer support staff might use it", state)

	cs := state.Categories[CategoryPrimaryUsers]
	assert.Equal(t, ConfidenceHigh, cs.Confidence)
	require.NotNil(t, cs.Data)
	assert.Equal(t, original, *cs.Data)
}

func TestAnalyzeMessageNoTriggers(t *testing.T) {
	state := NewState()
	AnalyzeMessage("Hello there!", state)

	assert.Equal(t, 0, state.CountAtOrAbove(ConfidenceMedium))
}
