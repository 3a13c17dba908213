package intake

import (
	"fmt"
	"strings"
)

// questionTemplates maps each category to its prompt. Functions take the
// concatenated lowercase user context so individual categories can branch on
// what has already been said.
var questionTemplates = map[Category]func(context string) []string{
	CategoryProblemDefinition: func(string) []string {
		return []string{"What specific problem or challenge does your business face that this app would solve?"}
	},
	CategoryPrimaryUsers: func(string) []string {
		return []string{"Who are the primary users of this app? (e.g., your employees, customers, patients, students, etc.)"}
	},
	CategoryCoreFeatures: func(context string) []string {
		if strings.Contains(context, "track") || strings.Contains(context, "manage") {
			return []string{"What are the 3-5 most important features that must be in the MVP? What should users be able to do?"}
		}
		return []string{"What are the core features this app must have? What should users be able to do with it?"}
	},
	CategoryBusinessWorkflow: func(string) []string {
		return []string{"Can you describe the typical workflow or process? How do people currently handle this, and how should the app change that?"}
	},
	CategoryDataRequirements: func(string) []string {
		return []string{"What types of data or information will the app need to store and manage? (e.g., user profiles, transactions, documents, etc.)"}
	},
	CategoryIntegrations: func(string) []string {
		return []string{"Does this app need to integrate with any existing tools or services? (e.g., payment processors, email services, calendars, etc.)"}
	},
	CategoryMobileNeeds: func(string) []string {
		return []string{"Do you need a mobile app (iOS/Android), or is a web app sufficient for your users?"}
	},
	CategoryUIDesignPreferences: func(string) []string {
		return []string{"Any specific design preferences? Should it be simple and minimal, or feature-rich? Any colors or styles you have in mind?"}
	},
	CategoryAdminReporting: func(string) []string {
		return []string{"What kind of admin features or reporting do you need? Should there be dashboards, analytics, or management tools?"}
	},
	CategoryAutomationNotifications: func(string) []string {
		return []string{"Should the app send automated notifications, emails, or alerts? What events should trigger them?"}
	},
	CategoryOutputNeeds: func(string) []string {
		return []string{"Does the app need to generate reports, exports, invoices, or other documents? What format?"}
	},
	CategorySecurityCompliance: func(string) []string {
		return []string{"Are there any security or compliance requirements? (e.g., HIPAA, GDPR, PCI-DSS, or industry-specific regulations)"}
	},
	CategoryPerformanceRequirements: func(string) []string {
		return []string{"How many users do you expect? Any performance requirements or scalability concerns?"}
	},
	CategoryIndustryContext: func(string) []string {
		return []string{"What industry or business type is this for? This helps me understand the context better."}
	},
	CategorySuccessMetrics: func(string) []string {
		return []string{"What would make this app successful? How will you measure its impact?"}
	},
	CategoryNiceToHaveFeatures: func(string) []string {
		return []string{"Are there any nice-to-have features that could come later, after the MVP?"}
	},
	CategoryTechnicalConstraints: func(string) []string {
		return []string{"Any technical constraints or requirements? (e.g., must work offline, specific browsers, etc.)"}
	},
	CategoryTimeline: func(string) []string {
		return []string{"What's your timeline? When do you need the MVP ready?"}
	},
	CategoryBudgetNotes: func(string) []string {
		return []string{"Any budget considerations or constraints I should be aware of?"}
	},
	CategoryScaleSaaSPotential: func(string) []string {
		return []string{"Is there potential to turn this into a SaaS product for other businesses, or is it strictly internal?"}
	},
}

// QuestionsForCategory maps a category to its natural-language prompt(s),
// lightly tailored by the accumulated user context. Pure function, no side
// effects. Unknown categories fall back to a generic templated question.
func QuestionsForCategory(category Category, history []HistoryTurn) []string {
	var parts []string
	for _, turn := range history {
		if turn.Role == RoleUser {
			parts = append(parts, turn.Content)
		}
	}
	context := strings.ToLower(strings.Join(parts, " "))

	if fn, ok := questionTemplates[category]; ok {
		return fn(context)
	}
	return []string{fmt.Sprintf("Tell me more about %s.", category.Label())}
}
