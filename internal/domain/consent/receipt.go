package consent

import (
	"time"

	"github.com/google/uuid"
)

// ConsentReceipt is the immutable audit record of one granted evaluation.
// Only the revocation fields are ever set after issuance.
type ConsentReceipt struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID     uuid.UUID         `gorm:"type:uuid;index;not null" json:"profile_id"`
	OwnerDID      string            `gorm:"not null;column:owner_did" json:"owner_did"`
	ActorDID      string            `gorm:"not null;index;column:actor_did" json:"actor_did"`
	Purpose       string            `json:"purpose,omitempty"`
	GrantedScopes []string          `gorm:"serializer:json" json:"granted_scopes"`
	DeniedScopes  []string          `gorm:"serializer:json" json:"denied_scopes"`
	Permissions   []PermissionLevel `gorm:"serializer:json" json:"permissions"`
	MatchedPolicy *uuid.UUID        `gorm:"type:uuid" json:"matched_policy,omitempty"`
	GrantedAt     time.Time         `gorm:"not null" json:"granted_at"`
	ExpiresAt     *time.Time        `json:"expires_at,omitempty"`
	RevokedAt     *time.Time        `json:"revoked_at,omitempty"`
	RevokedReason string            `json:"revoked_reason,omitempty"`
}

func (ConsentReceipt) TableName() string { return "consent_receipt" }

// IssueReceipt converts a granted decision into a receipt. The receipt
// inherits its expiry from the matched policy when that policy carries one.
func IssueReceipt(id uuid.UUID, decision Decision, profileID uuid.UUID, ownerDID, actorDID, purpose string, matched *ConsentPolicy, now time.Time) ConsentReceipt {
	r := ConsentReceipt{
		ID:            id,
		ProfileID:     profileID,
		OwnerDID:      ownerDID,
		ActorDID:      actorDID,
		Purpose:       purpose,
		GrantedScopes: append([]string{}, decision.GrantedScopes...),
		DeniedScopes:  append([]string{}, decision.DeniedScopes...),
		Permissions:   append([]PermissionLevel{}, decision.Permissions...),
		MatchedPolicy: decision.MatchedPolicy,
		GrantedAt:     now,
	}
	if matched != nil && matched.ExpiresAt != nil {
		expiry := *matched.ExpiresAt
		r.ExpiresAt = &expiry
	}
	return r
}

// Revoke marks the receipt revoked. Idempotent: revoking an already revoked
// receipt returns it unchanged.
func Revoke(r ConsentReceipt, reason string, now time.Time) ConsentReceipt {
	if r.RevokedAt != nil {
		return r
	}
	revokedAt := now
	r.RevokedAt = &revokedAt
	r.RevokedReason = reason
	return r
}

// ReceiptValid reports whether the receipt is not revoked and not expired.
func ReceiptValid(r ConsentReceipt, now time.Time) bool {
	if r.RevokedAt != nil {
		return false
	}
	if r.ExpiresAt != nil && !r.ExpiresAt.After(now) {
		return false
	}
	return true
}
