package auth

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/a2p-backend/internal/domain/auth"
	"github.com/yungbote/a2p-backend/internal/platform/logger"
)

type OwnerTokenRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tokens []*types.OwnerToken) ([]*types.OwnerToken, error)
	GetByProfileIDs(ctx context.Context, tx *gorm.DB, profileIDs []uuid.UUID) ([]*types.OwnerToken, error)
	GetByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) ([]*types.OwnerToken, error)
	GetByRefreshTokens(ctx context.Context, tx *gorm.DB, refreshTokens []string) ([]*types.OwnerToken, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	SoftDeleteByProfileIDs(ctx context.Context, tx *gorm.DB, profileIDs []uuid.UUID) error
}

type ownerTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOwnerTokenRepo(db *gorm.DB, baseLog *logger.Logger) OwnerTokenRepo {
	repoLog := baseLog.With("repo", "OwnerTokenRepo")
	return &ownerTokenRepo{db: db, log: repoLog}
}

func (tr *ownerTokenRepo) Create(ctx context.Context, tx *gorm.DB, tokens []*types.OwnerToken) ([]*types.OwnerToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if len(tokens) == 0 {
		return []*types.OwnerToken{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (tr *ownerTokenRepo) GetByProfileIDs(ctx context.Context, tx *gorm.DB, profileIDs []uuid.UUID) ([]*types.OwnerToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var results []*types.OwnerToken
	if len(profileIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("profile_id IN ?", profileIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *ownerTokenRepo) GetByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) ([]*types.OwnerToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var results []*types.OwnerToken
	if len(accessTokens) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("access_token IN ?", accessTokens).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *ownerTokenRepo) GetByRefreshTokens(ctx context.Context, tx *gorm.DB, refreshTokens []string) ([]*types.OwnerToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var results []*types.OwnerToken
	if len(refreshTokens) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("refresh_token IN ?", refreshTokens).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *ownerTokenRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.OwnerToken{}).Error
}

func (tr *ownerTokenRepo) SoftDeleteByProfileIDs(ctx context.Context, tx *gorm.DB, profileIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if len(profileIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("profile_id IN ?", profileIDs).
		Delete(&types.OwnerToken{}).Error
}
