package profile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/a2p-backend/internal/domain/profile"
	"github.com/yungbote/a2p-backend/internal/platform/logger"
)

type MemoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, memories []*types.Memory) ([]*types.Memory, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Memory, error)
	GetByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) ([]*types.Memory, error)
	GetActiveByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) ([]*types.Memory, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.MemoryStatus) error
	Confirm(ctx context.Context, tx *gorm.DB, id uuid.UUID, confidence float64, confirmedAt time.Time) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type memoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMemoryRepo(db *gorm.DB, baseLog *logger.Logger) MemoryRepo {
	repoLog := baseLog.With("repo", "MemoryRepo")
	return &memoryRepo{db: db, log: repoLog}
}

func (mr *memoryRepo) Create(ctx context.Context, tx *gorm.DB, memories []*types.Memory) ([]*types.Memory, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(memories) == 0 {
		return []*types.Memory{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&memories).Error; err != nil {
		return nil, err
	}
	return memories, nil
}

func (mr *memoryRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Memory, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.Memory
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

func (mr *memoryRepo) GetByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) ([]*types.Memory, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.Memory
	if err := transaction.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *memoryRepo) GetActiveByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) ([]*types.Memory, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.Memory
	if err := transaction.WithContext(ctx).
		Where("profile_id = ? AND status = ?", profileID, types.MemoryActive).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *memoryRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.MemoryStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Memory{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (mr *memoryRepo) Confirm(ctx context.Context, tx *gorm.DB, id uuid.UUID, confidence float64, confirmedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Memory{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"confidence":     confidence,
			"status":         types.MemoryActive,
			"last_confirmed": confirmedAt,
		}).Error
}

func (mr *memoryRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Memory{}).Error
}
