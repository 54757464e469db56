package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/a2p-backend/internal/domain/consent"
	"github.com/yungbote/a2p-backend/internal/domain/profile"
	"github.com/yungbote/a2p-backend/internal/domain/proposal"
)

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, did, email string) *profile.Profile {
	tb.Helper()
	p := &profile.Profile{
		ID:          uuid.New(),
		DID:         did,
		ProfileType: profile.TypeUser,
		DisplayName: "Test Owner",
		Email:       email,
		Password:    "pw",
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func SeedMemory(tb testing.TB, ctx context.Context, tx *gorm.DB, profileID uuid.UUID, category string) *profile.Memory {
	tb.Helper()
	m := &profile.Memory{
		ID:            uuid.New(),
		ProfileID:     profileID,
		Content:       "remembers something",
		Category:      category,
		Confidence:    1,
		Status:        profile.MemoryActive,
		Sensitivity:   profile.SensitivityScoped,
		SourceMethod:  profile.SourceDirect,
		LastConfirmed: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed memory: %v", err)
	}
	return m
}

func SeedPolicy(tb testing.TB, ctx context.Context, tx *gorm.DB, profileID uuid.UUID, actorPattern string, allow []string) *consent.ConsentPolicy {
	tb.Helper()
	p := &consent.ConsentPolicy{
		ID:           uuid.New(),
		ProfileID:    profileID,
		Name:         "test policy",
		ActorPattern: actorPattern,
		Allow:        allow,
		Deny:         []string{},
		Permissions:  []consent.PermissionLevel{consent.PermissionReadScoped},
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed policy: %v", err)
	}
	return p
}

func SeedProposal(tb testing.TB, ctx context.Context, tx *gorm.DB, profileID uuid.UUID, actorDID string) *proposal.Proposal {
	tb.Helper()
	p := proposal.New(uuid.New(), profileID, actorDID,
		"owner prefers morning meetings", "a2p:preferences.scheduling", "preference", "",
		0.8, 0, time.Now().UTC())
	if err := tx.WithContext(ctx).Create(&p).Error; err != nil {
		tb.Fatalf("seed proposal: %v", err)
	}
	return &p
}
