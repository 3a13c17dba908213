package intake

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var synthesisTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestBuildMVPPromptDocumentShape(t *testing.T) {
	doc := BuildMVPPrompt(NewState(), synthesisTime)

	for _, heading := range []string{
		"# MVP BUILD PROMPT",
		"## Project Overview",
		"## Core Features",
		"## Data Model",
		"## Tech Stack Recommendation",
		"## API Integrations",
		"## UI Layout",
		"## Auth & Security",
		"## Deployment Considerations",
	} {
		assert.Contains(t, doc, heading)
	}

	assert.Contains(t, doc, "Generated by WaveSprint.ai on 2026-03-14T12:00:00Z")
}

func TestBuildMVPPromptEmptySectionsUsePlaceholder(t *testing.T) {
	doc := BuildMVPPrompt(NewState(), synthesisTime)

	assert.Contains(t, doc, "## Core Features\n[To be populated from intake data]")
	assert.Contains(t, doc, "## Data Model\n[To be populated from intake data]")
	assert.Contains(t, doc, "Based on the intake conversation, here is the MVP specification.")
}

func TestBuildMVPPromptInterpolatesCapturedData(t *testing.T) {
	state := NewState()
	features := "Track appointments and send reminders"
	dataReqs := "Client profiles and visit history"
	problem := "Front desk double-books appointments"
	state.Promote(CategoryCoreFeatures, ConfidenceHigh, &features)
	state.Promote(CategoryDataRequirements, ConfidenceMedium, &dataReqs)
	state.Promote(CategoryProblemDefinition, ConfidenceHigh, &problem)

	doc := BuildMVPPrompt(state, synthesisTime)

	assert.Contains(t, doc, "- Core Features: Track appointments and send reminders")
	assert.Contains(t, doc, "- Data Requirements: Client profiles and visit history")
	assert.Contains(t, doc, "- Problem Definition: Front desk double-books appointments")
	assert.NotContains(t, doc, "## Core Features\n[To be populated from intake data]")
}

func TestBuildMVPPromptTechStackIsFixed(t *testing.T) {
	doc := BuildMVPPrompt(NewState(), synthesisTime)

	stackStart := strings.Index(doc, "## Tech Stack Recommendation")
	require.Greater(t, stackStart, -1)
	stack := doc[stackStart:]
	assert.Contains(t, stack, "- Framework: Next.js (App Router)")
	assert.Contains(t, stack, "- Database: Supabase (PostgreSQL)")
	assert.Contains(t, stack, "- Authentication: Supabase Auth")
	assert.Contains(t, stack, "- Styling: TailwindCSS")
	assert.Contains(t, stack, "- Hosting: Vercel")
}

func TestBuildMVPPromptSectionOrder(t *testing.T) {
	doc := BuildMVPPrompt(NewState(), synthesisTime)

	dataModel := strings.Index(doc, "## Data Model")
	techStack := strings.Index(doc, "## Tech Stack Recommendation")
	integrations := strings.Index(doc, "## API Integrations")
	require.True(t, dataModel < techStack)
	require.True(t, techStack < integrations)
}
