package lead

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wavesprint/intake-api/internal/utils/idgen"
	"wavesprint/intake-api/internal/utils/platformerrors"
)

const (
	leadIDPrefix     = "lead"
	activityIDPrefix = "act"
	publicIDLength   = 16
)

// Service handles business logic for leads, the pipeline board and activity
// logs.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateLeadParams carries the fields accepted from the contact form.
type CreateLeadParams struct {
	Name               string
	Email              string
	Company            *string
	Industry           *string
	ProblemDescription *string
	Phone              *string
	Source             *string
}

// CreateLead validates and persists a new lead.
func (s *Service) CreateLead(ctx context.Context, params CreateLeadParams) (*Lead, error) {
	if strings.TrimSpace(params.Name) == "" || strings.TrimSpace(params.Email) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "name and email are required", nil, "7f3a9c2e-1b4d-4e6f-8a0b-2c4d6e8f0a1b")
	}

	publicID, err := idgen.GenerateSecureID(leadIDPrefix, publicIDLength)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to generate lead ID", err, "8a4b0d3f-2c5e-4f70-9b1c-3d5e7f902b3c")
	}

	l := &Lead{
		PublicID:           publicID,
		Name:               params.Name,
		Email:              params.Email,
		Company:            params.Company,
		Industry:           params.Industry,
		ProblemDescription: params.ProblemDescription,
		Phone:              params.Phone,
		Source:             params.Source,
	}
	if err := s.repo.CreateLead(ctx, l); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create lead")
	}
	return l, nil
}

// CreateAnonymousLead captures a lead for an intake conversation that started
// without contact details. The first message doubles as the problem
// description; the placeholder email keeps the record unique until the real
// address is learned.
func (s *Service) CreateAnonymousLead(ctx context.Context, firstMessage string) (*Lead, error) {
	source := "intake"
	return s.CreateLead(ctx, CreateLeadParams{
		Name:               "Anonymous",
		Email:              fmt.Sprintf("temp-%d@wavesprint.ai", time.Now().UnixMilli()),
		ProblemDescription: &firstMessage,
		Source:             &source,
	})
}

// GetLead returns a lead with its activity timeline.
func (s *Service) GetLead(ctx context.Context, publicID string) (*Lead, []*Activity, error) {
	l, err := s.repo.GetLeadByPublicID(ctx, publicID)
	if err != nil {
		return nil, nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lead not found")
	}
	activities, err := s.repo.ListActivitiesForLead(ctx, l.ID)
	if err != nil {
		return nil, nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list activities")
	}
	return l, activities, nil
}

// UpdateLeadParams carries the mutable lead fields. Nil means unchanged.
type UpdateLeadParams struct {
	Name            *string
	Email           *string
	Company         *string
	Industry        *string
	Phone           *string
	Notes           *string
	LeadScore       *int
	StagePublicID   *string
	NextFollowupAt  *time.Time
	LastContactedAt *time.Time
}

// UpdateLead applies a partial update. Moving the lead to another pipeline
// stage records a stage_change activity.
func (s *Service) UpdateLead(ctx context.Context, publicID string, params UpdateLeadParams) (*Lead, error) {
	l, err := s.repo.GetLeadByPublicID(ctx, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lead not found")
	}

	var stageChange *PipelineStage
	if params.StagePublicID != nil {
		stage, err := s.repo.GetStageByPublicID(ctx, *params.StagePublicID)
		if err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "pipeline stage not found")
		}
		if l.PipelineStageID == nil || *l.PipelineStageID != stage.ID {
			stageChange = stage
			l.PipelineStageID = &stage.ID
			l.Stage = stage
		}
	}

	if params.Name != nil {
		l.Name = *params.Name
	}
	if params.Email != nil {
		l.Email = *params.Email
	}
	if params.Company != nil {
		l.Company = params.Company
	}
	if params.Industry != nil {
		l.Industry = params.Industry
	}
	if params.Phone != nil {
		l.Phone = params.Phone
	}
	if params.Notes != nil {
		l.Notes = params.Notes
	}
	if params.LeadScore != nil {
		l.LeadScore = *params.LeadScore
	}
	if params.NextFollowupAt != nil {
		l.NextFollowupAt = params.NextFollowupAt
	}
	if params.LastContactedAt != nil {
		l.LastContactedAt = params.LastContactedAt
	}

	if err := s.repo.UpdateLead(ctx, l); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update lead")
	}

	if stageChange != nil {
		title := fmt.Sprintf("Moved to %s", stageChange.Name)
		if _, err := s.AddActivity(ctx, l, AddActivityParams{
			Type:      ActivityStageChange,
			Title:     &title,
			Metadata:  map[string]any{"stage": stageChange.Name},
			CreatedBy: "system",
		}); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// ListLeads pages through leads, newest first.
func (s *Service) ListLeads(ctx context.Context, limit, offset int) ([]*Lead, error) {
	leads, err := s.repo.ListLeads(ctx, limit, offset)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list leads")
	}
	return leads, nil
}

// Pipeline returns the stage columns and the leads to place on the board.
func (s *Service) Pipeline(ctx context.Context) ([]*PipelineStage, []*Lead, error) {
	stages, err := s.repo.ListStages(ctx)
	if err != nil {
		return nil, nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list pipeline stages")
	}
	leads, err := s.repo.ListLeadsWithStages(ctx, 100)
	if err != nil {
		return nil, nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list pipeline leads")
	}
	return stages, leads, nil
}

// AddActivityParams carries a new timeline entry.
type AddActivityParams struct {
	Type      ActivityType
	Title     *string
	Content   *string
	Metadata  map[string]any
	CreatedBy string
}

// AddActivity appends an entry to the lead's timeline.
func (s *Service) AddActivity(ctx context.Context, l *Lead, params AddActivityParams) (*Activity, error) {
	if params.Type == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "activity type is required", nil, "9b5c1e4a-3d6f-4081-ac2d-4e6f8a0b1c2d")
	}

	publicID, err := idgen.GenerateSecureID(activityIDPrefix, publicIDLength)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to generate activity ID", err, "ac6d2f5b-4e70-4192-bd3e-5f70a1b2c3d4")
	}

	metadata := params.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	createdBy := params.CreatedBy
	if createdBy == "" {
		createdBy = "user"
	}

	a := &Activity{
		PublicID:  publicID,
		LeadID:    l.ID,
		Type:      params.Type,
		Title:     params.Title,
		Content:   params.Content,
		Metadata:  metadata,
		CreatedBy: createdBy,
	}
	if err := s.repo.CreateActivity(ctx, a); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create activity")
	}
	return a, nil
}

// AddActivityByLeadID is AddActivity for callers that only hold the public ID.
func (s *Service) AddActivityByLeadID(ctx context.Context, leadPublicID string, params AddActivityParams) (*Activity, error) {
	l, err := s.repo.GetLeadByPublicID(ctx, leadPublicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lead not found")
	}
	return s.AddActivity(ctx, l, params)
}

// ListActivities returns the lead's timeline, newest first.
func (s *Service) ListActivities(ctx context.Context, leadPublicID string) ([]*Activity, error) {
	l, err := s.repo.GetLeadByPublicID(ctx, leadPublicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lead not found")
	}
	activities, err := s.repo.ListActivitiesForLead(ctx, l.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list activities")
	}
	return activities, nil
}

// DashboardStats aggregates lead counts for the admin dashboard.
func (s *Service) DashboardStats(ctx context.Context) (*Stats, error) {
	total, err := s.repo.CountLeads(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count leads")
	}
	recent, err := s.repo.CountLeadsSince(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count recent leads")
	}
	byStage, err := s.repo.CountLeadsByStage(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count leads by stage")
	}
	return &Stats{
		TotalLeads:       total,
		LeadsLast7Days:   recent,
		LeadsByStageName: byStage,
	}, nil
}

// Stages lists the pipeline stage definitions in board order.
func (s *Service) Stages(ctx context.Context) ([]*PipelineStage, error) {
	stages, err := s.repo.ListStages(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list pipeline stages")
	}
	return stages, nil
}
