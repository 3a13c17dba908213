package intake

import (
	"context"
	"time"
)

// TurnResult is what a strategy decided for one conversation turn. A
// completed turn carries the synthesized MVPPrompt; Questions may still hold
// the closing assistant message.
type TurnResult struct {
	Questions  []string
	MVPPrompt  string
	IsComplete bool
}

// TurnStrategy produces the assistant side of the next conversation turn.
// Implementations mutate the passed state (confidence promotions, completion
// flag); the caller owns persisting it.
type TurnStrategy interface {
	NextTurn(ctx context.Context, state *State) (*TurnResult, error)
}

// RuleStrategy drives the conversation with the keyword analyzer and the
// priority planner. It needs no network and is the fallback when no inference
// backend is configured.
type RuleStrategy struct {
	now func() time.Time
}

func NewRuleStrategy() *RuleStrategy {
	return &RuleStrategy{now: time.Now}
}

func (s *RuleStrategy) NextTurn(_ context.Context, state *State) (*TurnResult, error) {
	if last := state.LastUserMessage(); last != "" {
		AnalyzeMessage(last, state)
	}

	if next := NextCategoryToAsk(state); next != nil {
		questions := QuestionsForCategory(*next, state.History)
		// Asking about a category counts as progress on it. Captured data is
		// kept as is.
		existing := state.Categories[*next]
		state.Promote(*next, ConfidenceMedium, existing.Data)
		return &TurnResult{Questions: questions, IsComplete: false}, nil
	}

	if MeetsCompletionThreshold(state) {
		state.IsComplete = true
		return &TurnResult{
			MVPPrompt:  BuildMVPPrompt(state, s.now()),
			IsComplete: true,
		}, nil
	}

	return &TurnResult{Questions: []string{catchAllQuestion}, IsComplete: false}, nil
}
