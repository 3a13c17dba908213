package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavesprint/intake-api/internal/infrastructure/inference"
)

// stubClient replays canned replies in order, recording each request. When
// errAfter is positive, calls beyond that count fail.
type stubClient struct {
	replies  []string
	err      error
	errAfter int
	requests []inference.CompletionRequest
}

func (c *stubClient) Complete(_ context.Context, req inference.CompletionRequest) (string, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return "", c.err
	}
	if c.errAfter > 0 && len(c.requests) > c.errAfter {
		return "", errors.New("backend unavailable")
	}
	idx := len(c.requests) - 1
	if idx >= len(c.replies) {
		idx = len(c.replies) - 1
	}
	return c.replies[idx], nil
}

func newLLMStrategyForTest(client inference.Client) *LLMStrategy {
	s := NewLLMStrategy(client, zerolog.Nop())
	s.now = func() time.Time { return synthesisTime }
	return s
}

func TestLLMStrategyMidConversationTurn(t *testing.T) {
	client := &stubClient{replies: []string{"Great! Who would use this day to day?"}}
	strategy := newLLMStrategyForTest(client)

	state := NewState()
	state.AppendTurn(RoleUser, "I run a dog grooming salon and bookings are chaos")

	result, err := strategy.NextTurn(context.Background(), state)
	require.NoError(t, err)

	assert.False(t, result.IsComplete)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, "Great! Who would use this day to day?", result.Questions[0])
	assert.Empty(t, result.MVPPrompt)

	require.Len(t, client.requests, 1)
	assert.Contains(t, client.requests[0].System, "requirements analyst for WaveSprint.ai")
	assert.NotContains(t, client.requests[0].System, "time to wrap up")
	require.Len(t, client.requests[0].Messages, 1)
	assert.Equal(t, inference.RoleUser, client.requests[0].Messages[0].Role)
}

func TestLLMStrategyWrapUpSuffixAppended(t *testing.T) {
	client := &stubClient{replies: []string{"One last thing before we start..."}}
	strategy := newLLMStrategyForTest(client)

	state := NewState()
	for i := 0; i < 5; i++ {
		state.AppendTurn(RoleAssistant, "question")
		state.AppendTurn(RoleUser, "answer")
	}

	_, err := strategy.NextTurn(context.Background(), state)
	require.NoError(t, err)

	require.Len(t, client.requests, 1)
	assert.Contains(t, client.requests[0].System, "You've asked 5 questions. It's time to wrap up.")
	assert.Contains(t, client.requests[0].System, `End your message with: "I have everything I need to start your sprint!"`)
}

func TestLLMStrategyCompletionPhraseTriggersSynthesis(t *testing.T) {
	client := &stubClient{replies: []string{
		"Perfect, I have everything I need to start your sprint!",
		"# Project Spec\nA booking system for a dog grooming salon.",
	}}
	strategy := newLLMStrategyForTest(client)

	state := NewState()
	state.AppendTurn(RoleUser, "bookings are chaos")
	state.AppendTurn(RoleAssistant, "who uses it?")
	state.AppendTurn(RoleUser, "me and two groomers")

	result, err := strategy.NextTurn(context.Background(), state)
	require.NoError(t, err)

	assert.True(t, result.IsComplete)
	assert.True(t, state.IsComplete)
	require.Len(t, result.Questions, 1)
	assert.Contains(t, result.Questions[0], "everything I need")
	assert.Equal(t, "# Project Spec\nA booking system for a dog grooming salon.", result.MVPPrompt)

	// Second call is the synthesis request with the full transcript.
	require.Len(t, client.requests, 2)
	assert.Contains(t, client.requests[1].Messages[0].Content, "USER: bookings are chaos")
	assert.Contains(t, client.requests[1].Messages[0].Content, "ASSISTANT: who uses it?")
}

func TestLLMStrategyQuestionCapForcesCompletion(t *testing.T) {
	client := &stubClient{replies: []string{
		"So tell me about reporting?",
		"synthesized spec",
	}}
	strategy := newLLMStrategyForTest(client)

	state := NewState()
	for i := 0; i < 6; i++ {
		state.AppendTurn(RoleAssistant, "question")
		state.AppendTurn(RoleUser, "answer")
	}

	result, err := strategy.NextTurn(context.Background(), state)
	require.NoError(t, err)

	// The reply contains no completion phrase but the cap has been reached.
	assert.True(t, result.IsComplete)
	assert.Equal(t, "synthesized spec", result.MVPPrompt)
}

func TestLLMStrategyBackendFailureFallsBack(t *testing.T) {
	client := &stubClient{err: errors.New("connection refused")}
	strategy := newLLMStrategyForTest(client)

	state := NewState()
	state.AppendTurn(RoleUser, "hello")

	result, err := strategy.NextTurn(context.Background(), state)
	require.NoError(t, err)

	assert.False(t, result.IsComplete)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, FallbackQuestion, result.Questions[0])
}

func TestLLMStrategySynthesisFailureUsesLocalTemplate(t *testing.T) {
	// First call succeeds with a completion reply, the synthesis call fails.
	client := &stubClient{
		replies:  []string{"I have everything I need to start your sprint!"},
		errAfter: 1,
	}
	strategy := newLLMStrategyForTest(client)

	state := NewState()
	state.AppendTurn(RoleUser, "we need to track client data for our clinic")

	result, err := strategy.NextTurn(context.Background(), state)
	require.NoError(t, err)

	assert.True(t, result.IsComplete)
	assert.Contains(t, result.MVPPrompt, "# MVP BUILD PROMPT")
	assert.Contains(t, result.MVPPrompt, "Generated by WaveSprint.ai on 2026-03-14T12:00:00Z")
}
