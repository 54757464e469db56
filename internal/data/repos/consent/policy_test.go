package consent

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/a2p-backend/internal/data/repos/testutil"
	types "github.com/yungbote/a2p-backend/internal/domain/consent"
)

func TestConsentPolicyRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewConsentPolicyRepo(db, testutil.Logger(t))

	owner := testutil.SeedProfile(t, ctx, tx, "did:a2p:user:local:policyrepo", "policyrepo@example.com")

	makePolicy := func(name string, position int) *types.ConsentPolicy {
		return &types.ConsentPolicy{
			ID:           uuid.New(),
			ProfileID:    owner.ID,
			Name:         name,
			Position:     position,
			ActorPattern: "did:a2p:agent:local:*",
			Allow:        []string{"a2p:preferences"},
			Deny:         []string{},
			Permissions:  []types.PermissionLevel{types.PermissionReadScoped},
		}
	}

	p1 := makePolicy("first", 0)
	p2 := makePolicy("second", 1)
	if _, err := repo.Create(ctx, tx, []*types.ConsentPolicy{p1, p2}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{p1.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}

	rows, err := repo.GetByProfileID(ctx, tx, owner.ID)
	if err != nil {
		t.Fatalf("GetByProfileID: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("GetByProfileID: len=%d", len(rows))
	}
	if rows[0].Name != "first" || rows[1].Name != "second" {
		t.Fatalf("GetByProfileID order: got %q, %q", rows[0].Name, rows[1].Name)
	}

	next, err := repo.NextPosition(ctx, tx, owner.ID)
	if err != nil {
		t.Fatalf("NextPosition: %v", err)
	}
	if next != 2 {
		t.Fatalf("NextPosition: got %d want 2", next)
	}

	if err := repo.SetDisabled(ctx, tx, p1.ID, true); err != nil {
		t.Fatalf("SetDisabled: %v", err)
	}
	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{p1.ID})
	if err != nil || len(got) != 1 {
		t.Fatalf("GetByIDs after disable: err=%v len=%d", err, len(got))
	}
	if !got[0].Disabled {
		t.Fatalf("expected policy disabled")
	}

	if err := repo.Delete(ctx, tx, p2.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{p2.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after Delete GetByIDs: err=%v len=%d", err, len(rows))
	}
}
