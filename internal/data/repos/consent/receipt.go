package consent

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/a2p-backend/internal/domain/consent"
	"github.com/yungbote/a2p-backend/internal/platform/logger"
)

type ConsentReceiptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, receipts []*types.ConsentReceipt) ([]*types.ConsentReceipt, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ConsentReceipt, error)
	GetByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) ([]*types.ConsentReceipt, error)
	GetByActorDID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID, actorDID string) ([]*types.ConsentReceipt, error)
	MarkRevoked(ctx context.Context, tx *gorm.DB, id uuid.UUID, reason string, revokedAt time.Time) error
}

type consentReceiptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConsentReceiptRepo(db *gorm.DB, baseLog *logger.Logger) ConsentReceiptRepo {
	repoLog := baseLog.With("repo", "ConsentReceiptRepo")
	return &consentReceiptRepo{db: db, log: repoLog}
}

func (rr *consentReceiptRepo) Create(ctx context.Context, tx *gorm.DB, receipts []*types.ConsentReceipt) ([]*types.ConsentReceipt, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(receipts) == 0 {
		return []*types.ConsentReceipt{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

func (rr *consentReceiptRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ConsentReceipt, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.ConsentReceipt
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

func (rr *consentReceiptRepo) GetByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) ([]*types.ConsentReceipt, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.ConsentReceipt
	if err := transaction.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("granted_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *consentReceiptRepo) GetByActorDID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID, actorDID string) ([]*types.ConsentReceipt, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.ConsentReceipt
	if err := transaction.WithContext(ctx).
		Where("profile_id = ? AND actor_did = ?", profileID, actorDID).
		Order("granted_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// MarkRevoked only touches unrevoked rows, so revocation stays idempotent
// at the storage layer too.
func (rr *consentReceiptRepo) MarkRevoked(ctx context.Context, tx *gorm.DB, id uuid.UUID, reason string, revokedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ConsentReceipt{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Updates(map[string]any{
			"revoked_at":     revokedAt,
			"revoked_reason": reason,
		}).Error
}
