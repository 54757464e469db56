package proposal

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/a2p-backend/internal/domain/profile"
	pkgerrors "github.com/yungbote/a2p-backend/internal/pkg/errors"
)

var (
	testNow   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	agentDID  = "did:a2p:agent:local:assistant"
	ownerDID  = "did:a2p:user:local:bob"
	profileID = uuid.New()
)

func pending(t *testing.T) Proposal {
	t.Helper()
	return New(uuid.New(), profileID, agentDID,
		"Prefers dark mode in all applications", "a2p:preferences.ui",
		"preference", "User mentioned this explicitly", 0.9, 0, testNow)
}

func TestApproveVerbatim(t *testing.T) {
	p := pending(t)
	memID := uuid.New()

	resolved, mem, err := Approve(p, "", ownerDID, memID, testNow)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if resolved.Status != StatusApproved {
		t.Fatalf("status: %s", resolved.Status)
	}
	if mem.Content != p.Content || mem.Category != p.Category {
		t.Fatalf("memory did not carry proposal content: %+v", mem)
	}
	if mem.SourceMethod != profile.SourceProposal || mem.SourceProposalID == nil || *mem.SourceProposalID != p.ID {
		t.Fatalf("memory source record: %+v", mem)
	}
	if resolved.CreatedMemoryID == nil || *resolved.CreatedMemoryID != memID {
		t.Fatalf("resolution record missing memory id: %+v", resolved)
	}
	if resolved.ResolvedAt == nil || resolved.ResolvedBy != ownerDID {
		t.Fatalf("resolution record: %+v", resolved)
	}
}

func TestApproveWithEdits(t *testing.T) {
	p := pending(t)
	resolved, mem, err := Approve(p, "X", ownerDID, uuid.New(), testNow)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if mem.Content != "X" {
		t.Fatalf("edited content must be used verbatim, got %q", mem.Content)
	}
	if resolved.Status != StatusApprovedWithEdits {
		t.Fatalf("status: %s", resolved.Status)
	}
}

func TestApproveAlreadyResolved(t *testing.T) {
	p := pending(t)
	resolved, _, err := Approve(p, "", ownerDID, uuid.New(), testNow)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, _, err := Approve(resolved, "", ownerDID, uuid.New(), testNow); !errors.Is(err, pkgerrors.ErrInvalidTransition) {
		t.Fatalf("second approval should be an invalid transition, got %v", err)
	}
}

func TestRejectCreatesNoMemory(t *testing.T) {
	p := pending(t)
	resolved, err := Reject(p, "Incorrect - I actually like Python!", ownerDID, testNow)
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if resolved.Status != StatusRejected {
		t.Fatalf("status: %s", resolved.Status)
	}
	if resolved.CreatedMemoryID != nil {
		t.Fatal("rejection must not reference a created memory")
	}
	if resolved.ResolutionReason == "" {
		t.Fatal("rejection reason should be recorded")
	}
}

func TestWithdrawOnlyByProposer(t *testing.T) {
	p := pending(t)
	if _, err := Withdraw(p, "did:a2p:agent:local:other", testNow); !errors.Is(err, pkgerrors.ErrInvalidTransition) {
		t.Fatalf("foreign actor withdraw should fail, got %v", err)
	}
	resolved, err := Withdraw(p, agentDID, testNow)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if resolved.Status != StatusWithdrawn {
		t.Fatalf("status: %s", resolved.Status)
	}
	if _, err := Withdraw(resolved, agentDID, testNow); !errors.Is(err, pkgerrors.ErrInvalidTransition) {
		t.Fatalf("withdraw of resolved proposal should fail, got %v", err)
	}
}

func TestSweepExpiredIdempotent(t *testing.T) {
	withTTL := New(uuid.New(), profileID, agentDID, "content", "a2p:interests", "", "", 0.5, time.Hour, testNow)
	fresh := New(uuid.New(), profileID, agentDID, "content", "a2p:interests", "", "", 0.5, 48*time.Hour, testNow)
	eternal := pending(t)

	later := testNow.Add(2 * time.Hour)
	changed := SweepExpired([]Proposal{withTTL, fresh, eternal}, later)
	if len(changed) != 1 || changed[0].ID != withTTL.ID {
		t.Fatalf("sweep changed: %+v", changed)
	}
	if changed[0].Status != StatusExpired || changed[0].ResolvedAt == nil {
		t.Fatalf("expired proposal resolution: %+v", changed[0])
	}

	// Second run on the updated state is a no-op.
	second := SweepExpired([]Proposal{changed[0], fresh, eternal}, later)
	if len(second) != 0 {
		t.Fatalf("second sweep must change nothing, got %+v", second)
	}
}

func TestCleanupRetention(t *testing.T) {
	old := pending(t)
	oldResolved, err := Reject(old, "", ownerDID, testNow.AddDate(0, 0, -40))
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	recent := pending(t)
	recentResolved, err := Reject(recent, "", ownerDID, testNow.AddDate(0, 0, -5))
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	open := pending(t)

	stale := CleanupExpired([]Proposal{oldResolved, recentResolved, open}, 30, testNow)
	if len(stale) != 1 || stale[0].ID != oldResolved.ID {
		t.Fatalf("cleanup selected: %+v", stale)
	}
}
