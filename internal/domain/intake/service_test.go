package intake

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavesprint/intake-api/internal/domain/lead"
	"wavesprint/intake-api/internal/utils/platformerrors"
)

// ===============================================
// In-memory fakes
// ===============================================

type fakeSessionRepo struct {
	sessions map[string]*Session
	nextID   uint
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*Session{}, nextID: 1}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *Session) error {
	s.ID = r.nextID
	r.nextID++
	copied := *s
	r.sessions[s.PublicID] = &copied
	return nil
}

func (r *fakeSessionRepo) FindByPublicID(ctx context.Context, publicID string) (*Session, error) {
	s, ok := r.sessions[publicID]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeNotFound, "session not found", nil, "")
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s *Session) error {
	copied := *s
	r.sessions[s.PublicID] = &copied
	return nil
}

func (r *fakeSessionRepo) ListWithLeads(_ context.Context, _, _ int) ([]*Session, error) {
	var out []*Session
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSessionRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.sessions)), nil
}

func (r *fakeSessionRepo) CountByStatus(_ context.Context, status SessionStatus) (int64, error) {
	var n int64
	for _, s := range r.sessions {
		if s.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeMessageRepo struct {
	messages []*Message
	nextID   uint
}

func (r *fakeMessageRepo) Append(_ context.Context, m *Message) error {
	r.nextID++
	m.ID = r.nextID
	copied := *m
	r.messages = append(r.messages, &copied)
	return nil
}

func (r *fakeMessageRepo) ListBySession(_ context.Context, sessionID uint) ([]*Message, error) {
	var out []*Message
	for _, m := range r.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakePromptRepo struct {
	prompts []*Prompt
}

func (r *fakePromptRepo) Save(_ context.Context, p *Prompt) error {
	copied := *p
	r.prompts = append(r.prompts, &copied)
	return nil
}

func (r *fakePromptRepo) LatestBySession(ctx context.Context, sessionID uint) (*Prompt, error) {
	for i := len(r.prompts) - 1; i >= 0; i-- {
		if r.prompts[i].SessionID == sessionID {
			return r.prompts[i], nil
		}
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeNotFound, "prompt not found", nil, "")
}

type fakeLeadProvisioner struct {
	created    []*lead.Lead
	activities []lead.AddActivityParams
	nextID     uint
}

func (p *fakeLeadProvisioner) CreateAnonymousLead(_ context.Context, firstMessage string) (*lead.Lead, error) {
	p.nextID++
	l := &lead.Lead{
		ID:                 p.nextID,
		Name:               "Anonymous",
		ProblemDescription: &firstMessage,
	}
	p.created = append(p.created, l)
	return l, nil
}

func (p *fakeLeadProvisioner) AddActivity(_ context.Context, _ *lead.Lead, params lead.AddActivityParams) (*lead.Activity, error) {
	p.activities = append(p.activities, params)
	return &lead.Activity{Type: params.Type}, nil
}

func (p *fakeLeadProvisioner) GetLeadByID(_ context.Context, id uint) (*lead.Lead, error) {
	for _, l := range p.created {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, platformerrors.NewError(context.Background(), platformerrors.LayerInfrastructure, platformerrors.ErrorTypeNotFound, "lead not found", nil, "")
}

// scriptedStrategy returns preset results one turn at a time.
type scriptedStrategy struct {
	results []*TurnResult
	states  []*State
	calls   int
}

func (s *scriptedStrategy) NextTurn(_ context.Context, state *State) (*TurnResult, error) {
	captured := *state
	captured.History = append([]HistoryTurn(nil), state.History...)
	s.states = append(s.states, &captured)

	result := s.results[s.calls]
	s.calls++
	if result.IsComplete {
		state.IsComplete = true
	}
	return result, nil
}

type serviceFixture struct {
	service  *Service
	sessions *fakeSessionRepo
	messages *fakeMessageRepo
	prompts  *fakePromptRepo
	leads    *fakeLeadProvisioner
	strategy *scriptedStrategy
}

func newServiceFixture(results ...*TurnResult) *serviceFixture {
	f := &serviceFixture{
		sessions: newFakeSessionRepo(),
		messages: &fakeMessageRepo{},
		prompts:  &fakePromptRepo{},
		leads:    &fakeLeadProvisioner{},
		strategy: &scriptedStrategy{results: results},
	}
	f.service = NewService(f.sessions, f.messages, f.prompts, f.leads, f.leads, f.strategy, zerolog.Nop())
	return f
}

// ===============================================
// Tests
// ===============================================

func TestHandleTurnRejectsBlankMessage(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.HandleTurn(context.Background(), "", "   ")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestHandleTurnStartsSessionAndProvisionsLead(t *testing.T) {
	f := newServiceFixture(&TurnResult{Questions: []string{"What problem are you solving?"}})

	outcome, err := f.service.HandleTurn(context.Background(), "", "I need a booking app")
	require.NoError(t, err)

	assert.NotEmpty(t, outcome.SessionPublicID)
	assert.Contains(t, outcome.SessionPublicID, "sess_")
	assert.False(t, outcome.IsComplete)
	assert.Equal(t, []string{"What problem are you solving?"}, outcome.AssistantMessages)

	require.Len(t, f.leads.created, 1)
	require.NotNil(t, f.leads.created[0].ProblemDescription)
	assert.Equal(t, "I need a booking app", *f.leads.created[0].ProblemDescription)

	// User message and assistant reply are both in the message log.
	require.Len(t, f.messages.messages, 2)
	assert.Equal(t, RoleUser, f.messages.messages[0].Role)
	assert.Equal(t, RoleAssistant, f.messages.messages[1].Role)

	stored := f.sessions.sessions[outcome.SessionPublicID]
	require.NotNil(t, stored)
	assert.Equal(t, SessionInProgress, stored.Status)
	require.NotNil(t, stored.LeadID)
}

func TestHandleTurnResumesSessionFromMessageLog(t *testing.T) {
	f := newServiceFixture(
		&TurnResult{Questions: []string{"Who are the users?"}},
		&TurnResult{Questions: []string{"What features matter most?"}},
	)

	first, err := f.service.HandleTurn(context.Background(), "", "I run a gym")
	require.NoError(t, err)

	_, err = f.service.HandleTurn(context.Background(), first.SessionPublicID, "Members and trainers")
	require.NoError(t, err)

	// The second strategy call sees history rebuilt from the message rows,
	// including the first assistant reply.
	require.Len(t, f.strategy.states, 2)
	history := f.strategy.states[1].History
	require.Len(t, history, 3)
	assert.Equal(t, "I run a gym", history[0].Content)
	assert.Equal(t, "Who are the users?", history[1].Content)
	assert.Equal(t, "Members and trainers", history[2].Content)
}

func TestHandleTurnCorruptStateResetsCategories(t *testing.T) {
	f := newServiceFixture(
		&TurnResult{Questions: []string{"q1"}},
		&TurnResult{Questions: []string{"q2"}},
	)

	first, err := f.service.HandleTurn(context.Background(), "", "hello")
	require.NoError(t, err)

	f.sessions.sessions[first.SessionPublicID].RawState = []byte("{corrupt")

	_, err = f.service.HandleTurn(context.Background(), first.SessionPublicID, "still here")
	require.NoError(t, err)

	// Categories fell back to defaults but the history survived via the log.
	state := f.strategy.states[1]
	assert.Equal(t, 0, state.CountAtOrAbove(ConfidenceMedium))
	require.Len(t, state.History, 3)
	assert.Equal(t, "hello", state.History[0].Content)
}

func TestHandleTurnUnknownSession(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.HandleTurn(context.Background(), "sess_doesnotexist", "hi")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestHandleTurnCompletionPersistsEverything(t *testing.T) {
	f := newServiceFixture(
		&TurnResult{Questions: []string{"last question"}},
		&TurnResult{
			Questions:  []string{"All set, kicking off your sprint!"},
			MVPPrompt:  "# MVP BUILD PROMPT\nthe document",
			IsComplete: true,
		},
	)

	first, err := f.service.HandleTurn(context.Background(), "", "start")
	require.NoError(t, err)

	outcome, err := f.service.HandleTurn(context.Background(), first.SessionPublicID, "done")
	require.NoError(t, err)

	assert.True(t, outcome.IsComplete)
	assert.Equal(t, "# MVP BUILD PROMPT\nthe document", outcome.MVPPrompt)

	stored := f.sessions.sessions[first.SessionPublicID]
	assert.Equal(t, SessionComplete, stored.Status)

	require.Len(t, f.prompts.prompts, 1)
	assert.Equal(t, stored.ID, f.prompts.prompts[0].SessionID)
	assert.Contains(t, f.prompts.prompts[0].PublicID, "mvp_")

	require.Len(t, f.leads.activities, 1)
	assert.Equal(t, lead.ActivityAIChat, f.leads.activities[0].Type)
	assert.Equal(t, "system", f.leads.activities[0].CreatedBy)
	assert.Equal(t, first.SessionPublicID, f.leads.activities[0].Metadata["session_id"])
}

func TestGetSessionDetailToleratesMissingPrompt(t *testing.T) {
	f := newServiceFixture(&TurnResult{Questions: []string{"q"}})

	first, err := f.service.HandleTurn(context.Background(), "", "hello")
	require.NoError(t, err)

	detail, err := f.service.GetSessionDetail(context.Background(), first.SessionPublicID)
	require.NoError(t, err)

	assert.Nil(t, detail.Prompt)
	assert.Len(t, detail.Messages, 2)
	assert.Equal(t, first.SessionPublicID, detail.Session.PublicID)
}

func TestStatsCountsCompleted(t *testing.T) {
	f := newServiceFixture(
		&TurnResult{Questions: []string{"q"}},
		&TurnResult{Questions: []string{"bye"}, MVPPrompt: "doc", IsComplete: true},
	)

	_, err := f.service.HandleTurn(context.Background(), "", "one")
	require.NoError(t, err)
	_, err = f.service.HandleTurn(context.Background(), "", "two")
	require.NoError(t, err)

	stats, err := f.service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalSessions)
	assert.Equal(t, int64(1), stats.CompletedSessions)
}
