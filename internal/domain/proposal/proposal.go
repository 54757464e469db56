package proposal

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/a2p-backend/internal/domain/profile"
)

// Status is the proposal lifecycle state. Pending is the only non-terminal
// state; every transition out of it stamps a resolution record exactly once.
type Status string

const (
	StatusPending           Status = "pending"
	StatusApproved          Status = "approved"
	StatusApprovedWithEdits Status = "approved_with_edits"
	StatusRejected          Status = "rejected"
	StatusExpired           Status = "expired"
	StatusWithdrawn         Status = "withdrawn"
)

// Resolved reports whether the status is terminal.
func (s Status) Resolved() bool { return s != StatusPending }

// Proposal is an agent-submitted candidate memory awaiting owner action.
// Resolved proposals stay in the collection for audit until an explicit
// cleanup removes them.
type Proposal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID uuid.UUID `gorm:"type:uuid;index;not null" json:"profile_id"`
	ActorDID  string    `gorm:"not null;index;column:actor_did" json:"actor_did"`

	Content       string              `gorm:"not null" json:"content"`
	Category      string              `gorm:"not null" json:"category"`
	MemoryType    string              `gorm:"column:memory_type" json:"memory_type,omitempty"`
	Confidence    float64             `gorm:"not null;default:0.5" json:"confidence"`
	Sensitivity   profile.Sensitivity `gorm:"not null;default:'scoped'" json:"sensitivity"`
	Justification string              `json:"justification,omitempty"`

	Status    Status     `gorm:"not null;default:'pending';index" json:"status"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy       string     `gorm:"column:resolved_by" json:"resolved_by,omitempty"`
	ResolutionReason string     `json:"resolution_reason,omitempty"`
	CreatedMemoryID  *uuid.UUID `gorm:"type:uuid;column:created_memory_id" json:"created_memory_id,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Proposal) TableName() string { return "proposal" }

// New creates a pending proposal. TTL of zero means the proposal never
// expires on its own.
func New(id, profileID uuid.UUID, actorDID, content, category, memoryType, justification string, confidence float64, ttl time.Duration, now time.Time) Proposal {
	p := Proposal{
		ID:            id,
		ProfileID:     profileID,
		ActorDID:      actorDID,
		Content:       content,
		Category:      category,
		MemoryType:    memoryType,
		Confidence:    clampConfidence(confidence),
		Sensitivity:   profile.SensitivityScoped,
		Justification: justification,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if ttl > 0 {
		expires := now.Add(ttl)
		p.ExpiresAt = &expires
	}
	return p
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
