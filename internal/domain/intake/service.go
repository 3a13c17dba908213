package intake

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"wavesprint/intake-api/internal/domain/lead"
	"wavesprint/intake-api/internal/infrastructure/metrics"
	"wavesprint/intake-api/internal/utils/idgen"
	"wavesprint/intake-api/internal/utils/platformerrors"
)

const (
	sessionIDPrefix = "sess"
	messageIDPrefix = "msg"
	promptIDPrefix  = "mvp"
	publicIDLength  = 16
)

// LeadProvisioner is the slice of the lead domain the intake flow needs:
// creating a lead when a conversation starts cold and recording the chat on
// the lead's timeline when it completes.
type LeadProvisioner interface {
	CreateAnonymousLead(ctx context.Context, firstMessage string) (*lead.Lead, error)
	AddActivity(ctx context.Context, l *lead.Lead, params lead.AddActivityParams) (*lead.Activity, error)
}

// leadLookup lets the service resolve the session's lead for timeline writes
// without holding the whole lead repository.
type leadLookup interface {
	GetLeadByID(ctx context.Context, id uint) (*lead.Lead, error)
}

// Service orchestrates one intake turn: load, analyze, plan, persist, reply.
type Service struct {
	sessions SessionRepository
	messages MessageRepository
	prompts  PromptRepository
	leads    LeadProvisioner
	leadByID leadLookup
	strategy TurnStrategy
	logger   zerolog.Logger
}

func NewService(
	sessions SessionRepository,
	messages MessageRepository,
	prompts PromptRepository,
	leads LeadProvisioner,
	leadByID leadLookup,
	strategy TurnStrategy,
	logger zerolog.Logger,
) *Service {
	return &Service{
		sessions: sessions,
		messages: messages,
		prompts:  prompts,
		leads:    leads,
		leadByID: leadByID,
		strategy: strategy,
		logger:   logger,
	}
}

// TurnOutcome is what one intake turn returns to the caller.
type TurnOutcome struct {
	SessionPublicID   string
	AssistantMessages []string
	MVPPrompt         string
	IsComplete        bool
}

// HandleTurn processes one inbound user message. A blank session ID starts a
// new conversation, provisioning an anonymous lead as a side effect.
// Concurrent turns on the same session are last-writer-wins on the state blob;
// the message log itself is append-only.
func (s *Service) HandleTurn(ctx context.Context, sessionPublicID, message string) (*TurnOutcome, error) {
	if strings.TrimSpace(message) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "message is required", nil, "b1c2d3e4-f5a6-4b7c-8d9e-0f1a2b3c4d5e")
	}

	var session *Session
	var state *State
	var err error
	if sessionPublicID == "" {
		session, state, err = s.startSession(ctx, message)
	} else {
		session, state, err = s.loadSession(ctx, sessionPublicID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.appendMessage(ctx, session, RoleUser, message); err != nil {
		return nil, err
	}
	state.AppendTurn(RoleUser, message)

	result, err := s.strategy.NextTurn(ctx, state)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "turn generation failed")
	}
	metrics.RecordIntakeTurn()

	for _, question := range result.Questions {
		state.AppendTurn(RoleAssistant, question)
	}

	raw, err := state.Marshal()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to serialize session state", err, "c2d3e4f5-a6b7-4c8d-9e0f-1a2b3c4d5e6f")
	}
	session.RawState = raw
	if result.IsComplete {
		session.Status = SessionComplete
	}
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to persist session state")
	}

	for _, question := range result.Questions {
		if err := s.appendMessage(ctx, session, RoleAssistant, question); err != nil {
			return nil, err
		}
	}

	if result.IsComplete && result.MVPPrompt != "" {
		if err := s.savePrompt(ctx, session, result.MVPPrompt); err != nil {
			return nil, err
		}
		s.recordCompletion(ctx, session)
		metrics.RecordSessionCompleted()
	}

	return &TurnOutcome{
		SessionPublicID:   session.PublicID,
		AssistantMessages: result.Questions,
		MVPPrompt:         result.MVPPrompt,
		IsComplete:        result.IsComplete,
	}, nil
}

func (s *Service) startSession(ctx context.Context, firstMessage string) (*Session, *State, error) {
	l, err := s.leads.CreateAnonymousLead(ctx, firstMessage)
	if err != nil {
		return nil, nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to provision lead")
	}
	metrics.RecordLeadCreated()

	publicID, err := idgen.GenerateSecureID(sessionIDPrefix, publicIDLength)
	if err != nil {
		return nil, nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to generate session ID", err, "d3e4f5a6-b7c8-4d9e-0f1a-2b3c4d5e6f7a")
	}

	state := NewState()
	raw, err := state.Marshal()
	if err != nil {
		return nil, nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to serialize initial state", err, "e4f5a6b7-c8d9-4e0f-1a2b-3c4d5e6f7a8b")
	}

	session := &Session{
		PublicID: publicID,
		LeadID:   &l.ID,
		Status:   SessionInProgress,
		RawState: raw,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create session")
	}
	return session, state, nil
}

// loadSession restores the category state and rebuilds conversation history
// from the message log. A corrupt state blob resets categories to the default
// rather than failing the turn; the persisted messages remain authoritative.
func (s *Service) loadSession(ctx context.Context, publicID string) (*Session, *State, error) {
	session, err := s.sessions.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "session not found")
	}

	state, err := ParseState(session.RawState)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", publicID).Msg("unreadable session state, resetting to default")
		state = NewState()
	}

	msgs, err := s.messages.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load message log")
	}
	state.History = state.History[:0]
	for _, m := range msgs {
		state.AppendTurn(m.Role, m.Content)
	}
	return session, state, nil
}

func (s *Service) appendMessage(ctx context.Context, session *Session, role Role, content string) error {
	publicID, err := idgen.GenerateSecureID(messageIDPrefix, publicIDLength)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to generate message ID", err, "f5a6b7c8-d9e0-4f1a-2b3c-4d5e6f7a8b9c")
	}
	m := &Message{
		PublicID:  publicID,
		SessionID: session.ID,
		Role:      role,
		Content:   content,
	}
	if err := s.messages.Append(ctx, m); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to append message")
	}
	return nil
}

func (s *Service) savePrompt(ctx context.Context, session *Session, text string) error {
	publicID, err := idgen.GenerateSecureID(promptIDPrefix, publicIDLength)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to generate prompt ID", err, "a6b7c8d9-e0f1-4a2b-3c4d-5e6f7a8b9c0d")
	}
	p := &Prompt{
		PublicID:   publicID,
		SessionID:  session.ID,
		PromptText: text,
	}
	if err := s.prompts.Save(ctx, p); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to save prompt")
	}
	return nil
}

// recordCompletion writes an ai_chat activity to the lead's timeline. Failure
// here is logged, not surfaced: the conversation already completed.
func (s *Service) recordCompletion(ctx context.Context, session *Session) {
	if session.LeadID == nil || s.leadByID == nil {
		return
	}
	l, err := s.leadByID.GetLeadByID(ctx, *session.LeadID)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", session.PublicID).Msg("failed to resolve lead for completion activity")
		return
	}
	title := "Intake conversation completed"
	if _, err := s.leads.AddActivity(ctx, l, lead.AddActivityParams{
		Type:      lead.ActivityAIChat,
		Title:     &title,
		Metadata:  map[string]any{"session_id": session.PublicID},
		CreatedBy: "system",
	}); err != nil {
		s.logger.Warn().Err(err).Str("session_id", session.PublicID).Msg("failed to record completion activity")
	}
}

// SessionDetail is what the admin session view returns.
type SessionDetail struct {
	Session  *Session
	Messages []*Message
	Prompt   *Prompt
}

// GetSessionDetail returns the session, its full message log and the latest
// synthesized prompt if one exists.
func (s *Service) GetSessionDetail(ctx context.Context, publicID string) (*SessionDetail, error) {
	session, err := s.sessions.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "session not found")
	}
	msgs, err := s.messages.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load message log")
	}
	prompt, err := s.prompts.LatestBySession(ctx, session.ID)
	if err != nil && !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load prompt")
	}
	return &SessionDetail{Session: session, Messages: msgs, Prompt: prompt}, nil
}

// ListSessions pages through sessions with their leads, newest first.
func (s *Service) ListSessions(ctx context.Context, limit, offset int) ([]*Session, error) {
	sessions, err := s.sessions.ListWithLeads(ctx, limit, offset)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list sessions")
	}
	return sessions, nil
}

// SessionStats counts sessions for the admin dashboard.
type SessionStats struct {
	TotalSessions     int64
	CompletedSessions int64
}

func (s *Service) Stats(ctx context.Context) (*SessionStats, error) {
	total, err := s.sessions.Count(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count sessions")
	}
	completed, err := s.sessions.CountByStatus(ctx, SessionComplete)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count completed sessions")
	}
	return &SessionStats{TotalSessions: total, CompletedSessions: completed}, nil
}
