package entity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/a2p-backend/internal/domain/entity"
	"github.com/yungbote/a2p-backend/internal/platform/logger"
)

type EnforcedRuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rules []*types.EnforcedRule) ([]*types.EnforcedRule, error)
	GetByEntityIDs(ctx context.Context, tx *gorm.DB, entityIDs []uuid.UUID) ([]*types.EnforcedRule, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type enforcedRuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnforcedRuleRepo(db *gorm.DB, baseLog *logger.Logger) EnforcedRuleRepo {
	repoLog := baseLog.With("repo", "EnforcedRuleRepo")
	return &enforcedRuleRepo{db: db, log: repoLog}
}

func (rr *enforcedRuleRepo) Create(ctx context.Context, tx *gorm.DB, rules []*types.EnforcedRule) ([]*types.EnforcedRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(rules) == 0 {
		return []*types.EnforcedRule{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (rr *enforcedRuleRepo) GetByEntityIDs(ctx context.Context, tx *gorm.DB, entityIDs []uuid.UUID) ([]*types.EnforcedRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.EnforcedRule
	if len(entityIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("entity_id IN ?", entityIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *enforcedRuleRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.EnforcedRule{}).Error
}
