package requirements

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavesprint/intake-api/internal/infrastructure/inference"
)

type stubClient struct {
	reply    string
	err      error
	requests []inference.CompletionRequest
}

func (c *stubClient) Complete(_ context.Context, req inference.CompletionRequest) (string, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func testContext(asked int) Context {
	return Context{
		LeadName:       "Jordan",
		Industry:       "fitness",
		InitialIdea:    "A class booking app for my gym",
		Timeline:       "2 weeks",
		Budget:         "Flexible",
		QuestionsAsked: asked,
	}
}

func TestFallbackQuestionLadder(t *testing.T) {
	assert.Equal(t, "Thanks for sharing! Who are the primary users of this app, and what problem does it solve for them?", FallbackQuestion(0))
	assert.Equal(t, "What are the 2-3 must-have features for the MVP?", FallbackQuestion(1))
	assert.Equal(t, "Great! I think I have a good picture. Is there anything else you'd like to add before we start building?", FallbackQuestion(5))
	assert.Equal(t, ladderExhausted, FallbackQuestion(6))
	assert.Equal(t, ladderExhausted, FallbackQuestion(12))
}

func TestNextQuestionUnconfiguredServesLadder(t *testing.T) {
	service := NewService(nil, zerolog.Nop())
	assert.False(t, service.Configured())

	reply, err := service.NextQuestion(context.Background(), testContext(0))
	require.NoError(t, err)
	assert.Equal(t, FallbackQuestion(0), reply.Question)
	assert.False(t, reply.IsComplete)
}

func TestNextQuestionUnconfiguredCompletesAtCap(t *testing.T) {
	service := NewService(nil, zerolog.Nop())

	reply, err := service.NextQuestion(context.Background(), testContext(6))
	require.NoError(t, err)
	assert.Equal(t, ladderExhausted, reply.Question)
	assert.True(t, reply.IsComplete)
}

func TestNextQuestionSendsIntroAndHistory(t *testing.T) {
	client := &stubClient{reply: "Nice! Who teaches the classes?"}
	service := NewService(client, zerolog.Nop())

	rc := testContext(1)
	rc.History = []Turn{
		{Role: "assistant", Content: "Who are the users?"},
		{Role: "user", Content: "Gym members mostly"},
	}

	reply, err := service.NextQuestion(context.Background(), rc)
	require.NoError(t, err)
	assert.Equal(t, "Nice! Who teaches the classes?", reply.Question)
	assert.False(t, reply.IsComplete)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	require.Len(t, req.Messages, 3)
	assert.Equal(t, inference.RoleUser, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "Hi, I'm Jordan. I'm in the fitness space")
	assert.Contains(t, req.Messages[0].Content, "A class booking app for my gym")
	assert.Contains(t, req.Messages[0].Content, "Timeline: 2 weeks")
	assert.Contains(t, req.Messages[0].Content, "Budget: Flexible")
	assert.NotContains(t, req.System, "time to wrap up")
}

func TestNextQuestionWrapUpSuffix(t *testing.T) {
	client := &stubClient{reply: "Almost there!"}
	service := NewService(client, zerolog.Nop())

	_, err := service.NextQuestion(context.Background(), testContext(5))
	require.NoError(t, err)

	require.Len(t, client.requests, 1)
	assert.Contains(t, client.requests[0].System, "You've asked 5 questions. It's time to wrap up.")
}

func TestNextQuestionCompletionPhrase(t *testing.T) {
	client := &stubClient{reply: "Summary... I have everything I need to start your sprint!"}
	service := NewService(client, zerolog.Nop())

	reply, err := service.NextQuestion(context.Background(), testContext(3))
	require.NoError(t, err)
	assert.True(t, reply.IsComplete)
}

func TestNextQuestionCapForcesCompletion(t *testing.T) {
	client := &stubClient{reply: "Just one more thing?"}
	service := NewService(client, zerolog.Nop())

	reply, err := service.NextQuestion(context.Background(), testContext(6))
	require.NoError(t, err)
	assert.True(t, reply.IsComplete)
}

func TestNextQuestionBackendFailure(t *testing.T) {
	client := &stubClient{err: errors.New("timeout")}
	service := NewService(client, zerolog.Nop())

	reply, err := service.NextQuestion(context.Background(), testContext(2))
	require.NoError(t, err)
	assert.Equal(t, errorFallback, reply.Question)
	assert.False(t, reply.IsComplete)
}
