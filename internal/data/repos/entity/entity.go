package entity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/a2p-backend/internal/domain/entity"
	"github.com/yungbote/a2p-backend/internal/platform/logger"
)

type EntityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entities []*types.EntityProfile) ([]*types.EntityProfile, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.EntityProfile, error)
	GetByDIDs(ctx context.Context, tx *gorm.DB, dids []string) ([]*types.EntityProfile, error)
	GetChildren(ctx context.Context, tx *gorm.DB, parentID uuid.UUID) ([]*types.EntityProfile, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type entityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntityRepo(db *gorm.DB, baseLog *logger.Logger) EntityRepo {
	repoLog := baseLog.With("repo", "EntityRepo")
	return &entityRepo{db: db, log: repoLog}
}

func (er *entityRepo) Create(ctx context.Context, tx *gorm.DB, entities []*types.EntityProfile) ([]*types.EntityProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	if len(entities) == 0 {
		return []*types.EntityProfile{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

func (er *entityRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.EntityProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var results []*types.EntityProfile
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *entityRepo) GetByDIDs(ctx context.Context, tx *gorm.DB, dids []string) ([]*types.EntityProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var results []*types.EntityProfile
	if len(dids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("did IN ?", dids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *entityRepo) GetChildren(ctx context.Context, tx *gorm.DB, parentID uuid.UUID) ([]*types.EntityProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var results []*types.EntityProfile
	if err := transaction.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *entityRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.EntityProfile{}).Error
}
