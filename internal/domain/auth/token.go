package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/a2p-backend/internal/domain/profile"
)

// OwnerToken is a persisted session for a profile owner. Access and
// refresh tokens are stored so a refresh can be revoked server-side.
type OwnerToken struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProfileID    uuid.UUID        `gorm:"index;not null" json:"profile_id"`
	Profile      *profile.Profile `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProfileID;references:ID" json:"profile,omitempty"`
	AccessToken  string           `gorm:"uniqueIndex;not null;column:access_token" json:"access_token"`
	RefreshToken string           `gorm:"uniqueIndex;not null;column:refresh_token" json:"refresh_token"`
	ExpiresAt    time.Time        `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt    time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
}

func (OwnerToken) TableName() string { return "owner_token" }
