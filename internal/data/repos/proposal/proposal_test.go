package proposal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/a2p-backend/internal/data/repos/testutil"
	types "github.com/yungbote/a2p-backend/internal/domain/proposal"
)

func TestProposalRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewProposalRepo(db, testutil.Logger(t))

	owner := testutil.SeedProfile(t, ctx, tx, "did:a2p:user:local:proposalrepo", "proposalrepo@example.com")
	actor := "did:a2p:agent:local:work-assistant"

	now := time.Now().UTC()

	fresh := types.New(uuid.New(), owner.ID, actor,
		"owner prefers dark mode", "a2p:preferences.ui", "preference", "",
		0.9, time.Hour, now)
	stale := types.New(uuid.New(), owner.ID, actor,
		"owner likes tennis", "a2p:interests", "interest", "",
		0.7, time.Minute, now.Add(-time.Hour))

	if _, err := repo.Create(ctx, tx, []*types.Proposal{&fresh, &stale}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{fresh.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByProfileID(ctx, tx, owner.ID); err != nil || len(rows) != 2 {
		t.Fatalf("GetByProfileID: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetPendingByProfileID(ctx, tx, owner.ID); err != nil || len(rows) != 2 {
		t.Fatalf("GetPendingByProfileID: err=%v len=%d", err, len(rows))
	}

	expired, err := repo.GetExpiredPending(ctx, tx, now, 10)
	if err != nil {
		t.Fatalf("GetExpiredPending: %v", err)
	}
	if len(expired) != 1 || expired[0].ID != stale.ID {
		t.Fatalf("GetExpiredPending: len=%d", len(expired))
	}

	resolvedAt := now
	fresh.Status = types.StatusRejected
	fresh.ResolvedAt = &resolvedAt
	fresh.ResolvedBy = owner.DID
	if err := repo.Save(ctx, tx, &fresh); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rows, err := repo.GetPendingByProfileID(ctx, tx, owner.ID); err != nil || len(rows) != 1 {
		t.Fatalf("GetPendingByProfileID after resolve: err=%v len=%d", err, len(rows))
	}

	if err := repo.DeleteByIDs(ctx, tx, []uuid.UUID{fresh.ID, stale.ID}); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	if rows, err := repo.GetByProfileID(ctx, tx, owner.ID); err != nil || len(rows) != 0 {
		t.Fatalf("after DeleteByIDs GetByProfileID: err=%v len=%d", err, len(rows))
	}
}
