package proposal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/a2p-backend/internal/domain/proposal"
	"github.com/yungbote/a2p-backend/internal/platform/logger"
)

type ProposalRepo interface {
	Create(ctx context.Context, tx *gorm.DB, proposals []*types.Proposal) ([]*types.Proposal, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Proposal, error)
	GetByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) ([]*types.Proposal, error)
	GetPendingByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) ([]*types.Proposal, error)
	// GetExpiredPending returns pending proposals across all profiles whose
	// expiry is at or before now. Used by the background sweep.
	GetExpiredPending(ctx context.Context, tx *gorm.DB, now time.Time, limit int) ([]*types.Proposal, error)
	Save(ctx context.Context, tx *gorm.DB, proposal *types.Proposal) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type proposalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProposalRepo(db *gorm.DB, baseLog *logger.Logger) ProposalRepo {
	repoLog := baseLog.With("repo", "ProposalRepo")
	return &proposalRepo{db: db, log: repoLog}
}

func (pr *proposalRepo) Create(ctx context.Context, tx *gorm.DB, proposals []*types.Proposal) ([]*types.Proposal, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(proposals) == 0 {
		return []*types.Proposal{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&proposals).Error; err != nil {
		return nil, err
	}
	return proposals, nil
}

func (pr *proposalRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Proposal, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Proposal
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

func (pr *proposalRepo) GetByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) ([]*types.Proposal, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Proposal
	if err := transaction.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *proposalRepo) GetPendingByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) ([]*types.Proposal, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Proposal
	if err := transaction.WithContext(ctx).
		Where("profile_id = ? AND status = ?", profileID, types.StatusPending).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *proposalRepo) GetExpiredPending(ctx context.Context, tx *gorm.DB, now time.Time, limit int) ([]*types.Proposal, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Proposal
	q := transaction.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", types.StatusPending, now).
		Order("expires_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *proposalRepo) Save(ctx context.Context, tx *gorm.DB, proposal *types.Proposal) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).Save(proposal).Error
}

func (pr *proposalRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Proposal{}).Error
}
