package consent

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/a2p-backend/internal/domain/consent"
	"github.com/yungbote/a2p-backend/internal/platform/logger"
)

type ConsentPolicyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, policies []*types.ConsentPolicy) ([]*types.ConsentPolicy, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ConsentPolicy, error)
	// GetByProfileID returns the profile's policies in declaration order
	// (the evaluator re-sorts by priority itself).
	GetByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) ([]*types.ConsentPolicy, error)
	NextPosition(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) (int, error)
	SetDisabled(ctx context.Context, tx *gorm.DB, id uuid.UUID, disabled bool) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type consentPolicyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConsentPolicyRepo(db *gorm.DB, baseLog *logger.Logger) ConsentPolicyRepo {
	repoLog := baseLog.With("repo", "ConsentPolicyRepo")
	return &consentPolicyRepo{db: db, log: repoLog}
}

func (cr *consentPolicyRepo) Create(ctx context.Context, tx *gorm.DB, policies []*types.ConsentPolicy) ([]*types.ConsentPolicy, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(policies) == 0 {
		return []*types.ConsentPolicy{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

func (cr *consentPolicyRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ConsentPolicy, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.ConsentPolicy
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

func (cr *consentPolicyRepo) GetByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) ([]*types.ConsentPolicy, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.ConsentPolicy
	if err := transaction.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *consentPolicyRepo) NextPosition(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var max *int
	if err := transaction.WithContext(ctx).
		Model(&types.ConsentPolicy{}).
		Where("profile_id = ?", profileID).
		Select("MAX(position)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

func (cr *consentPolicyRepo) SetDisabled(ctx context.Context, tx *gorm.DB, id uuid.UUID, disabled bool) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ConsentPolicy{}).
		Where("id = ?", id).
		Update("disabled", disabled).Error
}

func (cr *consentPolicyRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.ConsentPolicy{}).Error
}
