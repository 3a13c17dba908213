package dbschema

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"wavesprint/intake-api/internal/domain/lead"
)

// PipelineStage represents the database schema for pipeline stages
type PipelineStage struct {
	ID         uint      `gorm:"primarykey"`
	PublicID   string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	Name       string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	OrderIndex int       `gorm:"not null;default:0"`
	Color      *string   `gorm:"type:varchar(32)"`
	IsFinal    bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (PipelineStage) TableName() string {
	return "intake_api.pipeline_stages"
}

// EtoD converts database schema to domain stage (Entity to Domain)
func (s *PipelineStage) EtoD() *lead.PipelineStage {
	return &lead.PipelineStage{
		ID:         s.ID,
		PublicID:   s.PublicID,
		Name:       s.Name,
		OrderIndex: s.OrderIndex,
		Color:      s.Color,
		IsFinal:    s.IsFinal,
		CreatedAt:  s.CreatedAt,
	}
}

// Lead represents the database schema for leads
type Lead struct {
	BaseModel
	PublicID           string  `gorm:"type:varchar(64);uniqueIndex;not null"`
	Name               string  `gorm:"type:varchar(255);not null"`
	Email              string  `gorm:"type:varchar(255);not null"`
	Company            *string `gorm:"type:varchar(255)"`
	Industry           *string `gorm:"type:varchar(255)"`
	ProblemDescription *string `gorm:"type:text"`
	Phone              *string `gorm:"type:varchar(64)"`
	Source             *string `gorm:"type:varchar(64)"`
	PipelineStageID    *uint   `gorm:"index"`
	PipelineStage      *PipelineStage
	LeadScore          int `gorm:"not null;default:0"`
	LastContactedAt    *time.Time
	NextFollowupAt     *time.Time
	Notes              *string `gorm:"type:text"`
}

func (Lead) TableName() string {
	return "intake_api.leads"
}

// NewSchemaLead creates a database schema from a domain lead
func NewSchemaLead(l *lead.Lead) *Lead {
	return &Lead{
		BaseModel:          BaseModel{ID: l.ID},
		PublicID:           l.PublicID,
		Name:               l.Name,
		Email:              l.Email,
		Company:            l.Company,
		Industry:           l.Industry,
		ProblemDescription: l.ProblemDescription,
		Phone:              l.Phone,
		Source:             l.Source,
		PipelineStageID:    l.PipelineStageID,
		LeadScore:          l.LeadScore,
		LastContactedAt:    l.LastContactedAt,
		NextFollowupAt:     l.NextFollowupAt,
		Notes:              l.Notes,
	}
}

// EtoD converts database schema to domain lead (Entity to Domain)
func (l *Lead) EtoD() *lead.Lead {
	d := &lead.Lead{
		ID:                 l.ID,
		PublicID:           l.PublicID,
		Name:               l.Name,
		Email:              l.Email,
		Company:            l.Company,
		Industry:           l.Industry,
		ProblemDescription: l.ProblemDescription,
		Phone:              l.Phone,
		Source:             l.Source,
		PipelineStageID:    l.PipelineStageID,
		LeadScore:          l.LeadScore,
		LastContactedAt:    l.LastContactedAt,
		NextFollowupAt:     l.NextFollowupAt,
		Notes:              l.Notes,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
	if l.PipelineStage != nil {
		d.Stage = l.PipelineStage.EtoD()
	}
	return d
}

// JSONMap is a custom type for map[string]any stored as JSONB
type JSONMap map[string]any

func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return json.Marshal(map[string]any{})
	}
	return json.Marshal(j)
}

func (j *JSONMap) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// Activity represents the database schema for lead activity log entries
type Activity struct {
	ID        uint    `gorm:"primarykey"`
	PublicID  string  `gorm:"type:varchar(64);uniqueIndex;not null"`
	LeadID    uint    `gorm:"index;not null"`
	Type      string  `gorm:"type:varchar(32);not null"`
	Title     *string `gorm:"type:varchar(255)"`
	Content   *string `gorm:"type:text"`
	Metadata  JSONMap `gorm:"type:jsonb"`
	CreatedBy string  `gorm:"type:varchar(64);not null;default:'user'"`
	CreatedAt time.Time
}

func (Activity) TableName() string {
	return "intake_api.activities"
}

// NewSchemaActivity creates a database schema from a domain activity
func NewSchemaActivity(a *lead.Activity) *Activity {
	return &Activity{
		ID:        a.ID,
		PublicID:  a.PublicID,
		LeadID:    a.LeadID,
		Type:      string(a.Type),
		Title:     a.Title,
		Content:   a.Content,
		Metadata:  JSONMap(a.Metadata),
		CreatedBy: a.CreatedBy,
	}
}

// EtoD converts database schema to domain activity (Entity to Domain)
func (a *Activity) EtoD() *lead.Activity {
	return &lead.Activity{
		ID:        a.ID,
		PublicID:  a.PublicID,
		LeadID:    a.LeadID,
		Type:      lead.ActivityType(a.Type),
		Title:     a.Title,
		Content:   a.Content,
		Metadata:  map[string]any(a.Metadata),
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
	}
}
