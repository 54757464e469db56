package consent

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PermissionLevel is a closed set of capability tags. The read levels are
// ordered (none < read_public < read_scoped < read_full); propose and write
// are orthogonal capabilities granted alongside a read level.
type PermissionLevel string

const (
	PermissionNone       PermissionLevel = "none"
	PermissionReadPublic PermissionLevel = "read_public"
	PermissionReadScoped PermissionLevel = "read_scoped"
	PermissionReadFull   PermissionLevel = "read_full"
	PermissionPropose    PermissionLevel = "propose"
	PermissionWrite      PermissionLevel = "write"
)

var readRank = map[PermissionLevel]int{
	PermissionNone:       0,
	PermissionReadPublic: 1,
	PermissionReadScoped: 2,
	PermissionReadFull:   3,
}

// ValidPermission reports whether p is one of the closed set.
func ValidPermission(p PermissionLevel) bool {
	switch p {
	case PermissionNone, PermissionReadPublic, PermissionReadScoped,
		PermissionReadFull, PermissionPropose, PermissionWrite:
		return true
	}
	return false
}

// HasAtLeast reports whether perms contains a read level at or above want.
func HasAtLeast(perms []PermissionLevel, want PermissionLevel) bool {
	wantRank, ok := readRank[want]
	if !ok {
		return false
	}
	for _, p := range perms {
		if r, ok := readRank[p]; ok && r >= wantRank {
			return true
		}
	}
	return false
}

// HasCapability reports whether perms contains the exact capability tag.
func HasCapability(perms []PermissionLevel, cap PermissionLevel) bool {
	for _, p := range perms {
		if p == cap {
			return true
		}
	}
	return false
}

// TimeWindow restricts a policy to an absolute validity window. Either
// bound may be zero, meaning unbounded on that side.
type TimeWindow struct {
	Start time.Time `json:"start,omitzero"`
	End   time.Time `json:"end,omitzero"`
}

// Contains reports whether now falls inside the window.
func (w TimeWindow) Contains(now time.Time) bool {
	if !w.Start.IsZero() && now.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && !now.Before(w.End) {
		return false
	}
	return true
}

// RateLimit caps how often a matching actor may evaluate the policy. The
// counter itself lives in the service shell (redis fixed window); the core
// only carries the declaration.
type RateLimit struct {
	MaxRequests   int `json:"maxRequests"`
	WindowSeconds int `json:"windowSeconds"`
}

// Conditions is the closed struct of optional policy conditions. Every
// field is optional; a nil field imposes nothing. Evaluation can therefore
// never silently ignore an unrecognized condition key.
type Conditions struct {
	MinTrustScore           *float64    `json:"minTrustScore,omitempty"`
	RequireVerifiedOperator *bool       `json:"requireVerifiedOperator,omitempty"`
	RequireAudit            *bool       `json:"requireAudit,omitempty"`
	AllowedJurisdictions    []string    `json:"allowedJurisdictions,omitempty"`
	BlockedJurisdictions    []string    `json:"blockedJurisdictions,omitempty"`
	TimeWindow              *TimeWindow `json:"timeWindow,omitempty"`
	RateLimit               *RateLimit  `json:"rateLimit,omitempty"`
}

// ActorTrust is the trust metadata the authentication collaborator supplies
// for an actor. A nil *ActorTrust means no trust data is available: any
// positive trust threshold then fails, a verified-operator requirement
// fails, and jurisdiction allow-lists fail while deny-lists pass.
type ActorTrust struct {
	OperatorVerified bool
	CommunityScore   float64
	Jurisdiction     string
	AuditEnabled     bool
}

// ConsentPolicy grants or denies scopes to actors matching a pattern.
// Policies are immutable once evaluated against; evaluation never mutates
// them. Position preserves declaration order for priority ties.
type ConsentPolicy struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID    uuid.UUID         `gorm:"type:uuid;index;not null" json:"profile_id"`
	Name         string            `gorm:"not null" json:"name"`
	Priority     int               `gorm:"not null;default:0" json:"priority"`
	Position     int               `gorm:"not null;default:0" json:"position"`
	ActorPattern string            `gorm:"not null;column:actor_pattern" json:"actor_pattern"`
	Allow        []string          `gorm:"serializer:json" json:"allow"`
	Deny         []string          `gorm:"serializer:json" json:"deny"`
	Permissions  []PermissionLevel `gorm:"serializer:json" json:"permissions"`
	Conditions   *Conditions       `gorm:"serializer:json" json:"conditions,omitempty"`
	Disabled     bool              `gorm:"not null;default:false" json:"disabled"`
	ExpiresAt    *time.Time        `json:"expires_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ConsentPolicy) TableName() string { return "consent_policy" }

// Expired reports whether the policy's expiry, if set, is not strictly in
// the future.
func (p ConsentPolicy) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && !p.ExpiresAt.After(now)
}

// conditionsHold checks every declared condition against the actor's trust
// metadata. Rate limits are excluded; they are enforced in the service
// shell where the counter state lives.
func (p ConsentPolicy) conditionsHold(trust *ActorTrust, now time.Time) bool {
	c := p.Conditions
	if c == nil {
		return true
	}
	if c.RequireVerifiedOperator != nil && *c.RequireVerifiedOperator {
		if trust == nil || !trust.OperatorVerified {
			return false
		}
	}
	if c.MinTrustScore != nil {
		score := 0.0
		if trust != nil {
			score = trust.CommunityScore
		}
		if score < *c.MinTrustScore {
			return false
		}
	}
	if c.RequireAudit != nil && *c.RequireAudit {
		if trust == nil || !trust.AuditEnabled {
			return false
		}
	}
	if len(c.AllowedJurisdictions) > 0 {
		if trust == nil || trust.Jurisdiction == "" {
			return false
		}
		if !containsString(c.AllowedJurisdictions, trust.Jurisdiction) {
			return false
		}
	}
	if len(c.BlockedJurisdictions) > 0 && trust != nil && trust.Jurisdiction != "" {
		if containsString(c.BlockedJurisdictions, trust.Jurisdiction) {
			return false
		}
	}
	if c.TimeWindow != nil && !c.TimeWindow.Contains(now) {
		return false
	}
	return true
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
