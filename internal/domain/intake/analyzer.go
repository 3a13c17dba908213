package intake

import "strings"

// keywordRule promotes one category when any of its triggers appears in the
// user's message. Data defaults to the full message unless fixedData is set.
type keywordRule struct {
	category   Category
	triggers   []string
	confidence Confidence
	fixedData  string
}

// keywordRules is the best-effort extraction table. Triggers are
// case-insensitive substrings; this is deliberately not a classifier, so missed
// true positives are expected.
var keywordRules = []keywordRule{
	{
		category:   CategoryProblemDefinition,
		triggers:   []string{"problem", "issue", "challenge", "need"},
		confidence: ConfidenceMedium,
	},
	{
		category:   CategoryPrimaryUsers,
		triggers:   []string{"user", "customer", "client", "employee", "staff", "admin", "patient", "student"},
		confidence: ConfidenceMedium,
	},
	{
		category:   CategoryCoreFeatures,
		triggers:   []string{"feature", "function", "ability", "can do", "should", "must have", "track", "manage", "create", "view"},
		confidence: ConfidenceMedium,
	},
	{
		category:   CategoryDataRequirements,
		triggers:   []string{"data", "store", "save", "record", "database", "information"},
		confidence: ConfidenceMedium,
	},
	{
		category:   CategoryIntegrations,
		triggers:   []string{"integrate", "connect", "api", "sync", "stripe", "paypal", "email", "sms"},
		confidence: ConfidenceMedium,
	},
}

var mobileTriggers = []string{"mobile", "phone", "app store", "ios", "android"}
var webOnlyTriggers = []string{"web", "browser", "desktop"}

// webOnlyData is the fixed datum recorded when a message talks about the web
// with no mobile keywords at all.
const webOnlyData = "Web app only"

// AnalyzeMessage inspects the latest user utterance and promotes category
// confidence in place. A trigger only raises a category still at low
// confidence; medium and high categories are never touched, so earlier, more
// deliberate captures survive later chatter.
func AnalyzeMessage(message string, state *State) {
	lower := strings.ToLower(message)

	for _, rule := range keywordRules {
		if !containsAny(lower, rule.triggers) {
			continue
		}
		if state.Categories[rule.category].Confidence != ConfidenceLow {
			continue
		}
		data := message
		if rule.fixedData != "" {
			data = rule.fixedData
		}
		state.Promote(rule.category, rule.confidence, &data)
	}

	// Mobile needs is decisive either way: explicit mobile talk captures the
	// message at high confidence; web-only talk captures the fixed datum.
	if state.Categories[CategoryMobileNeeds].Confidence == ConfidenceLow {
		switch {
		case containsAny(lower, mobileTriggers):
			data := message
			state.Promote(CategoryMobileNeeds, ConfidenceHigh, &data)
		case containsAny(lower, webOnlyTriggers):
			data := webOnlyData
			state.Promote(CategoryMobileNeeds, ConfidenceHigh, &data)
		}
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
