package entity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/a2p-backend/internal/domain/entity"
	"github.com/yungbote/a2p-backend/internal/platform/logger"
)

type PolicySettingRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, setting *types.PolicySetting) error
	GetByEntityID(ctx context.Context, tx *gorm.DB, entityID uuid.UUID) ([]*types.PolicySetting, error)
}

type policySettingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPolicySettingRepo(db *gorm.DB, baseLog *logger.Logger) PolicySettingRepo {
	repoLog := baseLog.With("repo", "PolicySettingRepo")
	return &policySettingRepo{db: db, log: repoLog}
}

func (sr *policySettingRepo) Upsert(ctx context.Context, tx *gorm.DB, setting *types.PolicySetting) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entity_id"}, {Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(setting).Error
}

func (sr *policySettingRepo) GetByEntityID(ctx context.Context, tx *gorm.DB, entityID uuid.UUID) ([]*types.PolicySetting, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.PolicySetting
	if err := transaction.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("path ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
