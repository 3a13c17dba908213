package intake

import (
	"context"
	"time"

	"wavesprint/intake-api/internal/domain/lead"
)

// SessionStatus is the lifecycle of an intake conversation. There is no
// transition out of complete.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionComplete   SessionStatus = "complete"
)

// Session is one intake conversation. RawState holds the serialized category
// state as persisted; parsing and fallback live in the service because the
// message log, not the blob, is the source of truth for history.
type Session struct {
	ID        uint
	PublicID  string
	LeadID    *uint
	Status    SessionStatus
	RawState  []byte
	CreatedAt time.Time
	UpdatedAt time.Time

	// Lead is populated on admin reads that join the lead record.
	Lead *lead.Lead
}

// Message is one persisted turn of a session's conversation.
type Message struct {
	ID        uint
	PublicID  string
	SessionID uint
	Role      Role
	Content   string
	CreatedAt time.Time
}

// Prompt is a synthesized MVP specification document for a completed session.
type Prompt struct {
	ID         uint
	PublicID   string
	SessionID  uint
	PromptText string
	CreatedAt  time.Time
}

// SessionRepository is the persistence boundary for sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	FindByPublicID(ctx context.Context, publicID string) (*Session, error)
	Update(ctx context.Context, s *Session) error
	ListWithLeads(ctx context.Context, limit, offset int) ([]*Session, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status SessionStatus) (int64, error)
}

// MessageRepository is the append-only message log.
type MessageRepository interface {
	Append(ctx context.Context, m *Message) error
	ListBySession(ctx context.Context, sessionID uint) ([]*Message, error)
}

// PromptRepository stores synthesized specification documents.
type PromptRepository interface {
	Save(ctx context.Context, p *Prompt) error
	LatestBySession(ctx context.Context, sessionID uint) (*Prompt, error)
}
