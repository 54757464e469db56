package proposal

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/a2p-backend/internal/domain/profile"
	pkgerrors "github.com/yungbote/a2p-backend/internal/pkg/errors"
)

// Approve resolves a pending proposal into a new memory. When
// editedContent is non-empty the memory carries it verbatim and the
// proposal resolves as approved_with_edits; otherwise the original
// proposed content is used.
func Approve(p Proposal, editedContent, resolverDID string, memoryID uuid.UUID, now time.Time) (Proposal, profile.Memory, error) {
	if p.Status.Resolved() {
		return p, profile.Memory{}, fmt.Errorf("proposal %s is %s: %w", p.ID, p.Status, pkgerrors.ErrInvalidTransition)
	}

	content := p.Content
	status := StatusApproved
	if editedContent != "" && editedContent != p.Content {
		content = editedContent
		status = StatusApprovedWithEdits
	}

	mem := profile.Memory{
		ID:               memoryID,
		ProfileID:        p.ProfileID,
		Content:          content,
		Category:         p.Category,
		MemoryType:       p.MemoryType,
		Confidence:       p.Confidence,
		Status:           profile.MemoryActive,
		Sensitivity:      p.Sensitivity,
		SourceActorDID:   p.ActorDID,
		SourceMethod:     profile.SourceProposal,
		SourceProposalID: &p.ID,
		LastConfirmed:    now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	resolvedAt := now
	p.Status = status
	p.ResolvedAt = &resolvedAt
	p.ResolvedBy = resolverDID
	p.CreatedMemoryID = &memoryID
	p.UpdatedAt = now
	return p, mem, nil
}

// Reject resolves a pending proposal without creating any memory.
func Reject(p Proposal, reason, resolverDID string, now time.Time) (Proposal, error) {
	if p.Status.Resolved() {
		return p, fmt.Errorf("proposal %s is %s: %w", p.ID, p.Status, pkgerrors.ErrInvalidTransition)
	}
	resolvedAt := now
	p.Status = StatusRejected
	p.ResolvedAt = &resolvedAt
	p.ResolvedBy = resolverDID
	p.ResolutionReason = reason
	p.UpdatedAt = now
	return p, nil
}

// Withdraw cancels a still-pending proposal. Only the proposing actor may
// withdraw its own proposal.
func Withdraw(p Proposal, actorDID string, now time.Time) (Proposal, error) {
	if p.ActorDID != actorDID {
		return p, fmt.Errorf("proposal %s belongs to a different actor: %w", p.ID, pkgerrors.ErrInvalidTransition)
	}
	if p.Status.Resolved() {
		return p, fmt.Errorf("proposal %s is %s: %w", p.ID, p.Status, pkgerrors.ErrInvalidTransition)
	}
	resolvedAt := now
	p.Status = StatusWithdrawn
	p.ResolvedAt = &resolvedAt
	p.ResolvedBy = actorDID
	p.UpdatedAt = now
	return p, nil
}

// SweepExpired marks every pending proposal whose expiry has passed as
// expired. Already-resolved proposals are untouched, so running the sweep
// repeatedly on the same state changes nothing. The returned slice holds
// only the proposals that changed.
func SweepExpired(proposals []Proposal, now time.Time) []Proposal {
	var changed []Proposal
	for _, p := range proposals {
		if p.Status != StatusPending {
			continue
		}
		if p.ExpiresAt == nil || p.ExpiresAt.After(now) {
			continue
		}
		resolvedAt := now
		p.Status = StatusExpired
		p.ResolvedAt = &resolvedAt
		p.ResolutionReason = "expired before review"
		p.UpdatedAt = now
		changed = append(changed, p)
	}
	return changed
}

// CleanupExpired selects resolved proposals whose resolution is older than
// the retention window. Pending and recently-resolved proposals are never
// selected.
func CleanupExpired(proposals []Proposal, keepDays int, now time.Time) []Proposal {
	cutoff := now.AddDate(0, 0, -keepDays)
	var stale []Proposal
	for _, p := range proposals {
		if !p.Status.Resolved() || p.ResolvedAt == nil {
			continue
		}
		if p.ResolvedAt.Before(cutoff) {
			stale = append(stale, p)
		}
	}
	return stale
}
