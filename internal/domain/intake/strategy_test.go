package intake

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRuleStrategyAt(ts time.Time) *RuleStrategy {
	s := NewRuleStrategy()
	s.now = func() time.Time { return ts }
	return s
}

func TestRuleStrategyFirstTurnAsksProblemDefinition(t *testing.T) {
	strategy := NewRuleStrategy()
	state := NewState()
	state.AppendTurn(RoleUser, "Hi!")

	result, err := strategy.NextTurn(context.Background(), state)
	require.NoError(t, err)

	assert.False(t, result.IsComplete)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, "What specific problem or challenge does your business face that this app would solve?", result.Questions[0])
	// Asking bumps the probed category so it is not re-asked next turn.
	assert.Equal(t, ConfidenceMedium, state.Categories[CategoryProblemDefinition].Confidence)
}

func TestRuleStrategyNeverReasksFilledCategory(t *testing.T) {
	strategy := NewRuleStrategy()
	state := NewState()
	state.AppendTurn(RoleUser, "Hi!")

	first, err := strategy.NextTurn(context.Background(), state)
	require.NoError(t, err)

	state.AppendTurn(RoleAssistant, first.Questions[0])
	state.AppendTurn(RoleUser, "Okay")

	second, err := strategy.NextTurn(context.Background(), state)
	require.NoError(t, err)
	assert.NotEqual(t, first.Questions, second.Questions)
	assert.Equal(t, ConfidenceMedium, state.Categories[CategoryPrimaryUsers].Confidence)
}

func TestRuleStrategyAnalyzesBeforePlanning(t *testing.T) {
	strategy := NewRuleStrategy()
	state := NewState()
	state.AppendTurn(RoleUser, "The problem is our staff can't track inventory data")

	result, err := strategy.NextTurn(context.Background(), state)
	require.NoError(t, err)

	// problem_definition, primary_users, core_features and data_requirements
	// were all promoted by the analyzer, so the planner moves on to workflow.
	require.Len(t, result.Questions, 1)
	assert.Contains(t, result.Questions[0], "workflow")
}

func TestRuleStrategyAsksBeforeCompleting(t *testing.T) {
	strategy := NewRuleStrategy()
	state := NewState()
	categories := AllCategories()
	for i := 0; i < len(categories)-1; i++ {
		state.Promote(categories[i], ConfidenceMedium, nil)
	}
	state.AppendTurn(RoleUser, "...")

	result, err := strategy.NextTurn(context.Background(), state)
	require.NoError(t, err)

	// One category is still low, so the state is over the completion threshold
	// yet a question is asked first.
	assert.False(t, result.IsComplete)
	assert.NotEmpty(t, result.Questions)
	assert.False(t, state.IsComplete)
}

func TestRuleStrategyCompletesWhenAllAskedAndThresholdMet(t *testing.T) {
	strategy := newRuleStrategyAt(synthesisTime)
	state := NewState()
	for _, c := range AllCategories() {
		state.Promote(c, ConfidenceMedium, nil)
	}
	state.AppendTurn(RoleUser, "That's all from me")

	result, err := strategy.NextTurn(context.Background(), state)
	require.NoError(t, err)

	assert.True(t, result.IsComplete)
	assert.True(t, state.IsComplete)
	assert.Empty(t, result.Questions)
	assert.Contains(t, result.MVPPrompt, "# MVP BUILD PROMPT")
	assert.Contains(t, result.MVPPrompt, "Generated by WaveSprint.ai on 2026-03-14T12:00:00Z")
}
