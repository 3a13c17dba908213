package intake

import (
	"fmt"
	"strings"
	"time"
)

// synthesisSection pairs a document heading with the categories whose captured
// data feeds it. Order matters, it is the order of the rendered document.
type synthesisSection struct {
	Heading    string
	Categories []Category
}

var synthesisSections = []synthesisSection{
	{"Core Features", []Category{CategoryCoreFeatures, CategoryNiceToHaveFeatures}},
	{"Data Model", []Category{CategoryDataRequirements}},
	{"API Integrations", []Category{CategoryIntegrations, CategoryAutomationNotifications}},
	{"UI Layout", []Category{CategoryUIDesignPreferences, CategoryMobileNeeds, CategoryAdminReporting}},
	{"Auth & Security", []Category{CategoryPrimaryUsers, CategorySecurityCompliance}},
	{"Deployment Considerations", []Category{CategoryPerformanceRequirements, CategoryTechnicalConstraints, CategoryScaleSaaSPotential}},
}

const sectionPlaceholder = "[To be populated from intake data]"

// BuildMVPPrompt renders the collected intake state into the MVP specification
// document. Sections whose categories captured no data keep a placeholder so
// the document shape is stable regardless of how the conversation went.
func BuildMVPPrompt(state *State, now time.Time) string {
	var b strings.Builder
	b.WriteString("# MVP BUILD PROMPT\n\n")

	b.WriteString("## Project Overview\n")
	if data := sectionBody(state, []Category{CategoryProblemDefinition, CategoryIndustryContext, CategoryBusinessWorkflow}); data != "" {
		b.WriteString(data)
	} else {
		b.WriteString("Based on the intake conversation, here is the MVP specification.")
	}
	b.WriteString("\n\n")

	for _, section := range synthesisSections {
		// Tech Stack slots in after Data Model to keep the document order.
		if section.Heading == "API Integrations" {
			writeTechStack(&b)
		}
		fmt.Fprintf(&b, "## %s\n", section.Heading)
		if data := sectionBody(state, section.Categories); data != "" {
			b.WriteString(data)
		} else {
			b.WriteString(sectionPlaceholder)
		}
		b.WriteString("\n\n")
	}

	b.WriteString("---\n")
	fmt.Fprintf(&b, "Generated by WaveSprint.ai on %s\n", now.UTC().Format(time.RFC3339))
	return b.String()
}

func writeTechStack(b *strings.Builder) {
	b.WriteString("## Tech Stack Recommendation\n")
	b.WriteString("- Framework: Next.js (App Router)\n")
	b.WriteString("- Database: Supabase (PostgreSQL)\n")
	b.WriteString("- Authentication: Supabase Auth\n")
	b.WriteString("- Styling: TailwindCSS\n")
	b.WriteString("- Hosting: Vercel\n\n")
}

func sectionBody(state *State, categories []Category) string {
	var lines []string
	for _, c := range categories {
		cs, ok := state.Categories[c]
		if !ok || cs.Data == nil || *cs.Data == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", titleCase(c.Label()), *cs.Data))
	}
	return strings.Join(lines, "\n")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
