// Package requirements implements the lead-facing requirements chat: a
// stateless conversational endpoint that carries its whole history in each
// request instead of persisting a session.
package requirements

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"wavesprint/intake-api/internal/infrastructure/inference"
	"wavesprint/intake-api/internal/infrastructure/metrics"
)

const systemPrompt = `You are a friendly, expert requirements analyst for WaveSprint.ai - a rapid MVP development service that builds working apps in 24 hours.

Your job is to have a natural conversation to gather project requirements. You're speaking directly with a potential client who just submitted their initial project idea.

Guidelines:
1. Be conversational and friendly - use their first name
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

const wrapUpSuffix = `

IMPORTANT: You've asked %d questions. It's time to wrap up.
Summarize what you've learned and confirm you're ready to start building.
End your message with: "I have everything I need to start your sprint!"`

const (
	wrapUpAfter   = 5
	completionCap = 6
)

var completionPhrases = []string{"everything i need", "ready to start"}

// fallbackLadder is served in order when no completion backend is configured,
// indexed by how many questions have been asked so far.
var fallbackLadder = []string{
	"Thanks for sharing! Who are the primary users of this app, and what problem does it solve for them?",
	"What are the 2-3 must-have features for the MVP?",
	"Will users need to log in? And do you need any integrations like payments, email, or calendars?",
	"What kind of data will the app need to store and manage?",
	"Any specific design preferences? Minimal and clean, or feature-rich?",
	"Great! I think I have a good picture. Is there anything else you'd like to add before we start building?",
}

const ladderExhausted = "Perfect! I have everything I need to start your sprint. You'll receive a detailed scope document within 2 hours."

// FallbackQuestion returns the canned question for the given asked-question
// count when no backend is available.
func FallbackQuestion(questionsAsked int) string {
	if questionsAsked >= len(fallbackLadder) {
		return ladderExhausted
	}
	return fallbackLadder[questionsAsked]
}

// errorFallback keeps the conversation going when the backend call fails.
const errorFallback = "Thanks for sharing! Could you tell me more about the main users of this app and what they'd use it for most?"

// Turn is one side of the chat as carried by the request payload.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Context is everything the endpoint knows about the lead and the exchange so
// far. QuestionsAsked counts assistant turns, including the new one being
// generated.
type Context struct {
	LeadName       string
	Industry       string
	InitialIdea    string
	Timeline       string
	Budget         string
	History        []Turn
	QuestionsAsked int
}

// Reply is the endpoint's verdict for one turn.
type Reply struct {
	Question   string
	IsComplete bool
}

// Service generates requirements-chat turns against a completion backend.
type Service struct {
	client inference.Client
	logger zerolog.Logger
}

func NewService(client inference.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Configured reports whether a completion backend is wired in.
func (s *Service) Configured() bool {
	return s.client != nil
}

// NextQuestion generates the next conversational turn. Backend failures never
// surface: the reply degrades to a generic question with IsComplete false.
func (s *Service) NextQuestion(ctx context.Context, rc Context) (*Reply, error) {
	if !s.Configured() {
		return &Reply{
			Question:   FallbackQuestion(rc.QuestionsAsked),
			IsComplete: rc.QuestionsAsked >= completionCap,
		}, nil
	}

	system := systemPrompt
	if rc.QuestionsAsked >= wrapUpAfter {
		system += fmt.Sprintf(wrapUpSuffix, rc.QuestionsAsked)
	}

	messages := make([]inference.Message, 0, len(rc.History)+1)
	messages = append(messages, inference.Message{
		Role:    inference.RoleUser,
		Content: rc.introMessage(),
	})
	for _, turn := range rc.History {
		messages = append(messages, inference.Message{Role: turn.Role, Content: turn.Content})
	}

	reply, err := s.client.Complete(ctx, inference.CompletionRequest{
		System:    system,
		Messages:  messages,
		MaxTokens: 500,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("requirements completion failed, using fallback question")
		metrics.RecordInferenceError("requirements_chat")
		return &Reply{Question: errorFallback, IsComplete: false}, nil
	}

	lower := strings.ToLower(reply)
	complete := rc.QuestionsAsked >= completionCap
	for _, phrase := range completionPhrases {
		if strings.Contains(lower, phrase) {
			complete = true
			break
		}
	}
	return &Reply{Question: reply, IsComplete: complete}, nil
}

// introMessage frames the lead's form submission as the opening user turn.
func (rc Context) introMessage() string {
	return fmt.Sprintf(`Hi, I'm %s. I'm in the %s space and here's my idea:

%s

Timeline: %s
Budget: %s`, rc.LeadName, rc.Industry, rc.InitialIdea, rc.Timeline, rc.Budget)
}
