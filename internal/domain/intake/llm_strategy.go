package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"wavesprint/intake-api/internal/infrastructure/inference"
	"wavesprint/intake-api/internal/infrastructure/metrics"
)

const intakeSystemPrompt = `You are a friendly, expert requirements analyst for WaveSprint.ai - a rapid MVP development service that builds working apps in 24 hours.

Your job is to have a natural conversation to gather project requirements. You're speaking directly with a potential client who just submitted their initial project idea.

Guidelines:
1. Be conversational and friendly
2. Ask ONE focused question at a time (never more than 2)
3. Build on what they've already told you - reference specifics from their answers
4. Focus on practical, actionable details that will help build the MVP
5. Don't repeat questions they've already answered
6. After 5-6 good exchanges, wrap up and confirm you have what you need

Key areas to cover (prioritize based on what's missing):
- Who uses this app and what problem does it solve for them?
- What are the 2-3 must-have features for the MVP?
- Any integrations needed? (payments, email, SMS, calendars, etc.)
- Does it need user accounts/login?
- Any specific data that needs to be stored/managed?

When you have enough info (after 5-6 exchanges), generate a summary and indicate you're ready to start the sprint.

Respond in a natural, conversational way. Don't use bullet points or formal structure in your questions - just talk like a helpful consultant.`

const intakeWrapUpSuffix = `

IMPORTANT: You've asked %d questions. It's time to wrap up.
Summarize what you've learned and confirm you're ready to start building.
End your message with: "I have everything I need to start your sprint!"`

// FallbackQuestion keeps the conversation alive when the completion backend
// is unreachable or misbehaves.
const FallbackQuestion = "Thanks for sharing! Could you tell me more about the main users of this app and what they'd use it for most?"

// wrapUpAfter is the asked-question count at which the model is told to close
// out; completionCap forces completion regardless of what the model says.
const (
	wrapUpAfter   = 5
	completionCap = 6
)

var completionPhrases = []string{"everything i need", "ready to start"}

// LLMStrategy delegates turn generation to an external completion backend.
// Completion is decided by the model's own wording or a hard question cap,
// not by category confidences. Backend failures degrade to a canned question
// rather than surfacing to the caller.
type LLMStrategy struct {
	client inference.Client
	logger zerolog.Logger
	now    func() time.Time
}

func NewLLMStrategy(client inference.Client, logger zerolog.Logger) *LLMStrategy {
	return &LLMStrategy{client: client, logger: logger, now: time.Now}
}

func (s *LLMStrategy) NextTurn(ctx context.Context, state *State) (*TurnResult, error) {
	if last := state.LastUserMessage(); last != "" {
		// Keyword extraction still runs so the synthesized document has
		// captured data to draw on.
		AnalyzeMessage(last, state)
	}

	asked := state.QuestionsAsked()
	system := intakeSystemPrompt
	if asked >= wrapUpAfter {
		system += fmt.Sprintf(intakeWrapUpSuffix, asked)
	}

	messages := make([]inference.Message, 0, len(state.History))
	for _, turn := range state.History {
		messages = append(messages, inference.Message{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	reply, err := s.client.Complete(ctx, inference.CompletionRequest{
		System:    system,
		Messages:  messages,
		MaxTokens: 500,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("completion backend failed, using fallback question")
		metrics.RecordInferenceError("intake_turn")
		return &TurnResult{Questions: []string{FallbackQuestion}, IsComplete: false}, nil
	}

	if !isCompletionReply(reply, asked) {
		return &TurnResult{Questions: []string{reply}, IsComplete: false}, nil
	}

	state.IsComplete = true
	return &TurnResult{
		Questions:  []string{reply},
		MVPPrompt:  s.synthesize(ctx, state),
		IsComplete: true,
	}, nil
}

func isCompletionReply(reply string, questionsAsked int) bool {
	if questionsAsked >= completionCap {
		return true
	}
	lower := strings.ToLower(reply)
	for _, phrase := range completionPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

const synthesisPromptTemplate = `Based on this requirements conversation, generate a detailed MVP specification.

CONVERSATION:
%s

Generate a structured MVP specification including:
1. Project Overview (2-3 sentences)
2. Core Features (bullet points, prioritized)
3. User Types & Roles
4. Data Model (key entities and relationships)
5. Required Integrations
6. Tech Stack Recommendation
7. MVP Scope (what's in vs out)
8. Estimated Build Complexity (Low/Medium/High)

Format it as a clean, professional specification document.`

// synthesize asks the backend for the final document and falls back to the
// local template when the call fails.
func (s *LLMStrategy) synthesize(ctx context.Context, state *State) string {
	var transcript []string
	for _, turn := range state.History {
		transcript = append(transcript, fmt.Sprintf("%s: %s", strings.ToUpper(string(turn.Role)), turn.Content))
	}

	doc, err := s.client.Complete(ctx, inference.CompletionRequest{
		Messages: []inference.Message{{
			Role:    inference.RoleUser,
			Content: fmt.Sprintf(synthesisPromptTemplate, strings.Join(transcript, "\n\n")),
		}},
		MaxTokens: 2000,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("document synthesis call failed, using local template")
		metrics.RecordInferenceError("synthesis")
		return BuildMVPPrompt(state, s.now())
	}
	return doc
}
