package lead

import (
	"context"
	"time"
)

// PipelineStage is one column of the sales pipeline board. Stages are seeded
// by migration and ordered by OrderIndex.
type PipelineStage struct {
	ID         uint
	PublicID   string
	Name       string
	OrderIndex int
	Color      *string
	IsFinal    bool
	CreatedAt  time.Time
}

// Lead is a potential client captured from the contact form or an anonymous
// intake conversation.
type Lead struct {
	ID                 uint
	PublicID           string
	Name               string
	Email              string
	Company            *string
	Industry           *string
	ProblemDescription *string
	Phone              *string
	Source             *string
	PipelineStageID    *uint
	LeadScore          int
	LastContactedAt    *time.Time
	NextFollowupAt     *time.Time
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Stage is populated on reads that join the pipeline stage.
	Stage *PipelineStage
}

// ActivityType classifies an entry in a lead's activity log.
type ActivityType string

const (
	ActivityEmailSent   ActivityType = "email_sent"
	ActivityCall        ActivityType = "call"
	ActivityNote        ActivityType = "note"
	ActivityStageChange ActivityType = "stage_change"
	ActivityAIChat      ActivityType = "ai_chat"
	ActivitySystem      ActivityType = "system"
)

// Activity is one append-only entry in a lead's timeline.
type Activity struct {
	ID        uint
	PublicID  string
	LeadID    uint
	Type      ActivityType
	Title     *string
	Content   *string
	Metadata  map[string]any
	CreatedBy string
	CreatedAt time.Time
}

// Stats summarizes the lead book for the admin dashboard.
type Stats struct {
	TotalLeads       int64
	LeadsLast7Days   int64
	LeadsByStageName map[string]int64
}

// Repository is the persistence boundary for leads, stages and activities.
type Repository interface {
	CreateLead(ctx context.Context, l *Lead) error
	GetLeadByPublicID(ctx context.Context, publicID string) (*Lead, error)
	GetLeadByID(ctx context.Context, id uint) (*Lead, error)
	UpdateLead(ctx context.Context, l *Lead) error
	ListLeads(ctx context.Context, limit, offset int) ([]*Lead, error)
	ListLeadsWithStages(ctx context.Context, limit int) ([]*Lead, error)
	CountLeads(ctx context.Context) (int64, error)
	CountLeadsSince(ctx context.Context, since time.Time) (int64, error)
	CountLeadsByStage(ctx context.Context) (map[string]int64, error)

	ListStages(ctx context.Context) ([]*PipelineStage, error)
	GetStageByPublicID(ctx context.Context, publicID string) (*PipelineStage, error)

	CreateActivity(ctx context.Context, a *Activity) error
	ListActivitiesForLead(ctx context.Context, leadID uint) ([]*Activity, error)
}
