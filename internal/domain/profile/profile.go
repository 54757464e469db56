package profile

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileType tags what kind of actor owns a profile.
type ProfileType string

const (
	TypeUser   ProfileType = "user"
	TypeAgent  ProfileType = "agent"
	TypeEntity ProfileType = "entity"
)

// MemoryStatus is the lifecycle state of a stored memory.
type MemoryStatus string

const (
	MemoryActive        MemoryStatus = "active"
	MemoryPendingReview MemoryStatus = "pending_review"
	MemoryArchived      MemoryStatus = "archived"
)

// Sensitivity classifies how widely a memory may be shared. Prohibited
// memories never leave the store regardless of granted scopes.
type Sensitivity string

const (
	SensitivityPublic     Sensitivity = "public"
	SensitivityScoped     Sensitivity = "scoped"
	SensitivitySensitive  Sensitivity = "sensitive"
	SensitivityProhibited Sensitivity = "prohibited"
)

// SourceMethod records how a memory entered the profile.
type SourceMethod string

const (
	SourceDirect   SourceMethod = "direct"
	SourceProposal SourceMethod = "proposal"
)

// Profile is the root aggregate: one owner, their memories, policies,
// proposals and receipts (each in its own table, keyed by ProfileID).
// Agents never mutate a profile directly; every agent-side addition goes
// through the proposal lifecycle.
type Profile struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	DID         string      `gorm:"uniqueIndex;not null;column:did" json:"did"`
	ProfileType ProfileType `gorm:"not null;default:'user';column:profile_type" json:"profile_type"`
	DisplayName string      `gorm:"not null;column:display_name" json:"display_name"`
	Email       string      `gorm:"uniqueIndex;not null" json:"email"`
	Password    string      `gorm:"not null" json:"-"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Profile) TableName() string { return "profile" }

// Memory is one stored fact about the profile owner.
type Memory struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID   uuid.UUID    `gorm:"type:uuid;index;not null" json:"profile_id"`
	Content     string       `gorm:"not null" json:"content"`
	Category    string       `gorm:"not null;index" json:"category"`
	MemoryType  string       `gorm:"column:memory_type" json:"memory_type,omitempty"`
	Confidence  float64      `gorm:"not null;default:1" json:"confidence"`
	Status      MemoryStatus `gorm:"not null;default:'active'" json:"status"`
	Sensitivity Sensitivity  `gorm:"not null;default:'scoped'" json:"sensitivity"`

	SourceActorDID   string       `gorm:"column:source_actor_did" json:"source_actor_did,omitempty"`
	SourceMethod     SourceMethod `gorm:"not null;default:'direct';column:source_method" json:"source_method"`
	SourceProposalID *uuid.UUID   `gorm:"type:uuid;column:source_proposal_id" json:"source_proposal_id,omitempty"`

	LastConfirmed time.Time `gorm:"not null;column:last_confirmed" json:"last_confirmed"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Memory) TableName() string { return "memory" }

// Visible reports whether the memory may be returned for a set of granted
// scopes. The category must be covered by a granted scope and the
// sensitivity must permit sharing at all.
func (m Memory) Visible(grantedScopes []string, match func(scope, pattern string) bool) bool {
	if m.Sensitivity == SensitivityProhibited {
		return false
	}
	if m.Status == MemoryArchived {
		return false
	}
	for _, granted := range grantedScopes {
		// A granted scope acts as a pattern over the memory category: a
		// grant for a2p:preferences covers a2p:preferences.ui.
		if match(m.Category, granted) || match(m.Category, granted+".*") {
			return true
		}
	}
	return false
}
