package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EntityType is the closed set of organizational entity kinds.
type EntityType string

const (
	TypeOrganization EntityType = "organization"
	TypeDepartment   EntityType = "department"
	TypeTeam         EntityType = "team"
)

// Enforcement is how an ancestor rule constrains a descendant's value for
// the governed path.
type Enforcement string

const (
	// EnforcementLocked pins the value exactly.
	EnforcementLocked Enforcement = "locked"
	// EnforcementMin sets a numeric floor.
	EnforcementMin Enforcement = "min"
	// EnforcementMax sets a numeric ceiling.
	EnforcementMax Enforcement = "max"
	// EnforcementSubset restricts a list value to the rule's list.
	EnforcementSubset Enforcement = "subset"
	// EnforcementAdditive lets a list value only grow relative to the
	// ancestor baseline.
	EnforcementAdditive Enforcement = "additive"
)

// ValidEnforcement reports whether e is one of the closed set.
func ValidEnforcement(e Enforcement) bool {
	switch e {
	case EnforcementLocked, EnforcementMin, EnforcementMax, EnforcementSubset, EnforcementAdditive:
		return true
	}
	return false
}

// EntityProfile is an organization, department or team node in the
// governance hierarchy. Each node points at exactly one parent (none at
// the root); children are discovered by parent id.
type EntityProfile struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DID         string     `gorm:"uniqueIndex;not null;column:did" json:"did"`
	DisplayName string     `gorm:"not null;column:display_name" json:"display_name"`
	EntityType  EntityType `gorm:"not null;column:entity_type" json:"entity_type"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Depth       int        `gorm:"not null;default:0" json:"depth"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (EntityProfile) TableName() string { return "entity_profile" }

// EnforcedRule is an ancestor-imposed constraint on descendant policy
// values. The rule value is an arbitrary JSON document whose shape depends
// on the enforcement mode.
type EnforcedRule struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EntityID      uuid.UUID      `gorm:"type:uuid;index;not null" json:"entity_id"`
	Path          string         `gorm:"not null;index" json:"path"`
	Value         datatypes.JSON `gorm:"not null" json:"value"`
	Enforcement   Enforcement    `gorm:"not null" json:"enforcement"`
	Justification string         `json:"justification,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (EnforcedRule) TableName() string { return "enforced_rule" }

// PolicySetting is an entity's own declared value for a governed path.
// Writes go through ValidateChange before they land here.
type PolicySetting struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EntityID uuid.UUID      `gorm:"type:uuid;index;not null" json:"entity_id"`
	Path     string         `gorm:"not null;index" json:"path"`
	Value    datatypes.JSON `gorm:"not null" json:"value"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PolicySetting) TableName() string { return "entity_policy_setting" }
