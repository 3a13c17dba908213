// Package intakerepo persists intake sessions, their message logs and
// synthesized prompts.
package intakerepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"wavesprint/intake-api/internal/domain/intake"
	"wavesprint/intake-api/internal/infrastructure/database/dbschema"
	"wavesprint/intake-api/internal/utils/platformerrors"
)

// SessionRepository handles intake session persistence.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *intake.Session) error {
	entity := dbschema.NewSchemaIntakeSession(s)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create intake session",
			err,
			"9c1d3e5f-7a8b-4c9d-4e5f-6a7b8c9d0e1f",
		)
	}
	s.ID = entity.ID
	s.CreatedAt = entity.CreatedAt
	s.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *SessionRepository) FindByPublicID(ctx context.Context, publicID string) (*intake.Session, error) {
	var entity dbschema.IntakeSession
	err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"intake session not found",
				err,
				"0d2e4f6a-8b9c-4d0e-5f6a-7b8c9d0e1f2a",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to get intake session",
			err,
			"1e3f5a7b-9c0d-4e1f-6a7b-8c9d0e1f2a3b",
		)
	}
	return entity.EtoD(), nil
}

func (r *SessionRepository) Update(ctx context.Context, s *intake.Session) error {
	entity := dbschema.NewSchemaIntakeSession(s)
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update intake session",
			err,
			"2f4a6b8c-0d1e-4f2a-7b8c-9d0e1f2a3b4c",
		)
	}
	s.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *SessionRepository) ListWithLeads(ctx context.Context, limit, offset int) ([]*intake.Session, error) {
	var entities []dbschema.IntakeSession
	err := r.db.WithContext(ctx).
		Preload("Lead").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entities).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list intake sessions",
			err,
			"3a5b7c9d-1e2f-4a3b-8c9d-0e1f2a3b4c5d",
		)
	}
	sessions := make([]*intake.Session, 0, len(entities))
	for i := range entities {
		sessions = append(sessions, entities[i].EtoD())
	}
	return sessions, nil
}

func (r *SessionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&dbschema.IntakeSession{}).Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count intake sessions",
			err,
			"4b6c8d0e-2f3a-4b4c-9d0e-1f2a3b4c5d6e",
		)
	}
	return count, nil
}

func (r *SessionRepository) CountByStatus(ctx context.Context, status intake.SessionStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbschema.IntakeSession{}).
		Where("status = ?", string(status)).
		Count(&count).Error
	if err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count sessions by status",
			err,
			"5c7d9e1f-3a4b-4c5d-0e1f-2a3b4c5d6e7f",
		)
	}
	return count, nil
}

// MessageRepository handles the append-only intake message log.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Append(ctx context.Context, m *intake.Message) error {
	entity := dbschema.NewSchemaIntakeMessage(m)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to append intake message",
			err,
			"6d8e0f2a-4b5c-4d6e-1f2a-3b4c5d6e7f8a",
		)
	}
	m.ID = entity.ID
	m.CreatedAt = entity.CreatedAt
	return nil
}

func (r *MessageRepository) ListBySession(ctx context.Context, sessionID uint) ([]*intake.Message, error) {
	var entities []dbschema.IntakeMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&entities).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list intake messages",
			err,
			"7e9f1a3b-5c6d-4e7f-2a3b-4c5d6e7f8a9b",
		)
	}
	messages := make([]*intake.Message, 0, len(entities))
	for i := range entities {
		messages = append(messages, entities[i].EtoD())
	}
	return messages, nil
}

// PromptRepository stores synthesized MVP documents.
type PromptRepository struct {
	db *gorm.DB
}

func NewPromptRepository(db *gorm.DB) *PromptRepository {
	return &PromptRepository{db: db}
}

func (r *PromptRepository) Save(ctx context.Context, p *intake.Prompt) error {
	entity := dbschema.NewSchemaMvpPrompt(p)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to save mvp prompt",
			err,
			"8f0a2b4c-6d7e-4f8a-3b4c-5d6e7f8a9b0c",
		)
	}
	p.ID = entity.ID
	p.CreatedAt = entity.CreatedAt
	return nil
}

func (r *PromptRepository) LatestBySession(ctx context.Context, sessionID uint) (*intake.Prompt, error) {
	var entity dbschema.MvpPrompt
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"mvp prompt not found",
				err,
				"9a1b3c5d-7e8f-4a9b-4c5d-6e7f8a9b0c1d",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to get mvp prompt",
			err,
			"0b2c4d6e-8f9a-4b0c-5d6e-7f8a9b0c1d2e",
		)
	}
	return entity.EtoD(), nil
}
