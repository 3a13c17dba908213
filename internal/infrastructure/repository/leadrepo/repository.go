// Package leadrepo persists leads, pipeline stages and activities.
package leadrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"wavesprint/intake-api/internal/domain/lead"
	"wavesprint/intake-api/internal/infrastructure/database/dbschema"
	"wavesprint/intake-api/internal/utils/platformerrors"
)

// Repository handles lead persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateLead(ctx context.Context, l *lead.Lead) error {
	entity := dbschema.NewSchemaLead(l)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create lead",
			err,
			"3e5f7a9b-1c2d-4e3f-8a9b-0c1d2e3f4a5b",
		)
	}
	l.ID = entity.ID
	l.CreatedAt = entity.CreatedAt
	l.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *Repository) GetLeadByPublicID(ctx context.Context, publicID string) (*lead.Lead, error) {
	var entity dbschema.Lead
	err := r.db.WithContext(ctx).
		Preload("PipelineStage").
		Where("public_id = ?", publicID).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"lead not found",
				err,
				"4f6a8b0c-2d3e-4f5a-9b0c-1d2e3f4a5b6c",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to get lead by public id",
			err,
			"5a7b9c1d-3e4f-4a5b-0c1d-2e3f4a5b6c7d",
		)
	}
	return entity.EtoD(), nil
}

func (r *Repository) GetLeadByID(ctx context.Context, id uint) (*lead.Lead, error) {
	var entity dbschema.Lead
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"lead not found",
				err,
				"6b8c0d2e-4f5a-4b6c-1d2e-3f4a5b6c7d8e",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to get lead by id",
			err,
			"7c9d1e3f-5a6b-4c7d-2e3f-4a5b6c7d8e9f",
		)
	}
	return entity.EtoD(), nil
}

func (r *Repository) UpdateLead(ctx context.Context, l *lead.Lead) error {
	entity := dbschema.NewSchemaLead(l)
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update lead",
			err,
			"8d0e2f4a-6b7c-4d8e-3f4a-5b6c7d8e9f0a",
		)
	}
	l.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *Repository) ListLeads(ctx context.Context, limit, offset int) ([]*lead.Lead, error) {
	var entities []dbschema.Lead
	err := r.db.WithContext(ctx).
		Preload("PipelineStage").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entities).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list leads",
			err,
			"9e1f3a5b-7c8d-4e9f-4a5b-6c7d8e9f0a1b",
		)
	}
	leads := make([]*lead.Lead, 0, len(entities))
	for i := range entities {
		leads = append(leads, entities[i].EtoD())
	}
	return leads, nil
}

func (r *Repository) ListLeadsWithStages(ctx context.Context, limit int) ([]*lead.Lead, error) {
	var entities []dbschema.Lead
	err := r.db.WithContext(ctx).
		Preload("PipelineStage").
		Order("created_at DESC").
		Limit(limit).
		Find(&entities).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list leads with stages",
			err,
			"0f2a4b6c-8d9e-4f0a-5b6c-7d8e9f0a1b2c",
		)
	}
	leads := make([]*lead.Lead, 0, len(entities))
	for i := range entities {
		leads = append(leads, entities[i].EtoD())
	}
	return leads, nil
}

func (r *Repository) CountLeads(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&dbschema.Lead{}).Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count leads",
			err,
			"1a3b5c7d-9e0f-4a1b-6c7d-8e9f0a1b2c3d",
		)
	}
	return count, nil
}

func (r *Repository) CountLeadsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbschema.Lead{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count recent leads",
			err,
			"2b4c6d8e-0f1a-4b2c-7d8e-9f0a1b2c3d4e",
		)
	}
	return count, nil
}

func (r *Repository) CountLeadsByStage(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Name  string
		Count int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&dbschema.Lead{}).
		Select("intake_api.pipeline_stages.name AS name, COUNT(*) AS count").
		Joins("JOIN intake_api.pipeline_stages ON intake_api.pipeline_stages.id = intake_api.leads.pipeline_stage_id").
		Group("intake_api.pipeline_stages.name").
		Scan(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count leads by stage",
			err,
			"3c5d7e9f-1a2b-4c3d-8e9f-0a1b2c3d4e5f",
		)
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Name] = r.Count
	}
	return counts, nil
}

func (r *Repository) ListStages(ctx context.Context) ([]*lead.PipelineStage, error) {
	var entities []dbschema.PipelineStage
	err := r.db.WithContext(ctx).Order("order_index ASC").Find(&entities).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list pipeline stages",
			err,
			"4d6e8f0a-2b3c-4d4e-9f0a-1b2c3d4e5f6a",
		)
	}
	stages := make([]*lead.PipelineStage, 0, len(entities))
	for i := range entities {
		stages = append(stages, entities[i].EtoD())
	}
	return stages, nil
}

func (r *Repository) GetStageByPublicID(ctx context.Context, publicID string) (*lead.PipelineStage, error) {
	var entity dbschema.PipelineStage
	err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"pipeline stage not found",
				err,
				"5e7f9a1b-3c4d-4e5f-0a1b-2c3d4e5f6a7b",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to get pipeline stage",
			err,
			"6f8a0b2c-4d5e-4f6a-1b2c-3d4e5f6a7b8c",
		)
	}
	return entity.EtoD(), nil
}

func (r *Repository) CreateActivity(ctx context.Context, a *lead.Activity) error {
	entity := dbschema.NewSchemaActivity(a)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create activity",
			err,
			"7a9b1c3d-5e6f-4a7b-2c3d-4e5f6a7b8c9d",
		)
	}
	a.ID = entity.ID
	a.CreatedAt = entity.CreatedAt
	return nil
}

func (r *Repository) ListActivitiesForLead(ctx context.Context, leadID uint) ([]*lead.Activity, error) {
	var entities []dbschema.Activity
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at DESC").
		Find(&entities).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list activities",
			err,
			"8b0c2d4e-6f7a-4b8c-3d4e-5f6a7b8c9d0e",
		)
	}
	activities := make([]*lead.Activity, 0, len(entities))
	for i := range entities {
		activities = append(activities, entities[i].EtoD())
	}
	return activities, nil
}
