package intake

// CompletionThreshold is how many categories must reach medium-or-above
// confidence before the rule-based engine considers the intake complete.
const CompletionThreshold = 8

// catchAllQuestion is asked when no category is still low but the state has not
// crossed the completion threshold.
const catchAllQuestion = "Great! Can you tell me more about what success looks like for this app? What would make it valuable to your users?"

// NextCategoryToAsk walks the fixed priority order and returns the first
// category still at low confidence. Categories already at medium or high are
// never re-selected. Returns nil when nothing is left to probe.
func NextCategoryToAsk(state *State) *Category {
	for _, category := range categoryPriority {
		if state.Categories[category].Confidence == ConfidenceLow {
			c := category
			return &c
		}
	}
	return nil
}

// MeetsCompletionThreshold reports whether enough categories are filled in for
// synthesis.
func MeetsCompletionThreshold(state *State) bool {
	return state.CountAtOrAbove(ConfidenceMedium) >= CompletionThreshold
}
