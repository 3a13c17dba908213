package dbschema

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"wavesprint/intake-api/internal/domain/intake"
)

// JSONState stores the serialized category state as an opaque JSONB blob. The
// domain owns parsing so a corrupt blob degrades there instead of failing the
// read.
type JSONState []byte

func (j JSONState) Value() (driver.Value, error) {
	if len(j) == 0 {
		return []byte("{}"), nil
	}
	return []byte(j), nil
}

func (j *JSONState) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[:0], v...)
		return nil
	case string:
		*j = JSONState(v)
		return nil
	default:
		return errors.New("unsupported type for JSONState")
	}
}

func (j JSONState) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return json.RawMessage(j).MarshalJSON()
}

// IntakeSession represents the database schema for intake sessions
type IntakeSession struct {
	BaseModel
	PublicID  string `gorm:"type:varchar(64);uniqueIndex;not null"`
	LeadID    *uint  `gorm:"index"`
	Lead      *Lead
	Status    string    `gorm:"type:varchar(32);index;not null;default:'in_progress'"`
	StateJSON JSONState `gorm:"type:jsonb"`
}

func (IntakeSession) TableName() string {
	return "intake_api.intake_sessions"
}

// NewSchemaIntakeSession creates a database schema from a domain session
func NewSchemaIntakeSession(s *intake.Session) *IntakeSession {
	return &IntakeSession{
		BaseModel: BaseModel{ID: s.ID},
		PublicID:  s.PublicID,
		LeadID:    s.LeadID,
		Status:    string(s.Status),
		StateJSON: JSONState(s.RawState),
	}
}

// EtoD converts database schema to domain session (Entity to Domain)
func (s *IntakeSession) EtoD() *intake.Session {
	d := &intake.Session{
		ID:        s.ID,
		PublicID:  s.PublicID,
		LeadID:    s.LeadID,
		Status:    intake.SessionStatus(s.Status),
		RawState:  []byte(s.StateJSON),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Lead != nil {
		d.Lead = s.Lead.EtoD()
	}
	return d
}

// IntakeMessage represents the database schema for intake messages
type IntakeMessage struct {
	ID        uint   `gorm:"primarykey"`
	PublicID  string `gorm:"type:varchar(64);uniqueIndex;not null"`
	SessionID uint   `gorm:"index:idx_intake_messages_session;not null"`
	Role      string `gorm:"type:varchar(16);not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (IntakeMessage) TableName() string {
	return "intake_api.intake_messages"
}

// NewSchemaIntakeMessage creates a database schema from a domain message
func NewSchemaIntakeMessage(m *intake.Message) *IntakeMessage {
	return &IntakeMessage{
		ID:        m.ID,
		PublicID:  m.PublicID,
		SessionID: m.SessionID,
		Role:      string(m.Role),
		Content:   m.Content,
	}
}

// EtoD converts database schema to domain message (Entity to Domain)
func (m *IntakeMessage) EtoD() *intake.Message {
	return &intake.Message{
		ID:        m.ID,
		PublicID:  m.PublicID,
		SessionID: m.SessionID,
		Role:      intake.Role(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// MvpPrompt represents the database schema for synthesized MVP documents
type MvpPrompt struct {
	ID         uint   `gorm:"primarykey"`
	PublicID   string `gorm:"type:varchar(64);uniqueIndex;not null"`
	SessionID  uint   `gorm:"index;not null"`
	PromptText string `gorm:"type:text;not null"`
	CreatedAt  time.Time
}

func (MvpPrompt) TableName() string {
	return "intake_api.mvp_prompts"
}

// NewSchemaMvpPrompt creates a database schema from a domain prompt
func NewSchemaMvpPrompt(p *intake.Prompt) *MvpPrompt {
	return &MvpPrompt{
		ID:         p.ID,
		PublicID:   p.PublicID,
		SessionID:  p.SessionID,
		PromptText: p.PromptText,
	}
}

// EtoD converts database schema to domain prompt (Entity to Domain)
func (p *MvpPrompt) EtoD() *intake.Prompt {
	return &intake.Prompt{
		ID:         p.ID,
		PublicID:   p.PublicID,
		SessionID:  p.SessionID,
		PromptText: p.PromptText,
		CreatedAt:  p.CreatedAt,
	}
}
