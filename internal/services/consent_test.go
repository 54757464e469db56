package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/yungbote/a2p-backend/internal/data/repos"
	"github.com/yungbote/a2p-backend/internal/data/repos/testutil"
	"github.com/yungbote/a2p-backend/internal/domain/consent"
	"github.com/yungbote/a2p-backend/internal/domain/profile"
	"github.com/yungbote/a2p-backend/internal/pkg/clock"
	pkgerrors "github.com/yungbote/a2p-backend/internal/pkg/errors"
	"github.com/yungbote/a2p-backend/internal/requestdata"
)

// countingLimiter stands in for the redis window: it counts per key and
// records the window it was asked to enforce.
type countingLimiter struct {
	calls   map[string]int
	windows map[string]int
}

func newCountingLimiter() *countingLimiter {
	return &countingLimiter{calls: map[string]int{}, windows: map[string]int{}}
}

func (l *countingLimiter) Allow(_ context.Context, key string, maxRequests, windowSeconds int) (bool, error) {
	l.calls[key]++
	l.windows[key] = windowSeconds
	return l.calls[key] <= maxRequests, nil
}

func (l *countingLimiter) Close() error { return nil }

func TestEvaluateAccessRateLimit(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	now := time.Now().UTC()
	clk := clock.Fixed(now)

	owner := testutil.SeedProfile(t, ctx, tx, "did:a2p:user:local:ratelimited", "ratelimited@example.com")
	testutil.SeedMemory(t, ctx, tx, owner.ID, "a2p:preferences.scheduling")

	pol := testutil.SeedPolicy(t, ctx, tx, owner.ID, "did:a2p:agent:acme:*", []string{"a2p:preferences.*"})
	pol.Conditions = &consent.Conditions{
		RateLimit: &consent.RateLimit{MaxRequests: 2, WindowSeconds: 60},
	}
	if err := tx.WithContext(ctx).Save(pol).Error; err != nil {
		t.Fatalf("attach rate limit: %v", err)
	}

	profileRepo := repos.NewProfileRepo(tx, log)
	memoryRepo := repos.NewMemoryRepo(tx, log)
	policyRepo := repos.NewConsentPolicyRepo(tx, log)
	receiptRepo := repos.NewConsentReceiptRepo(tx, log)

	limiter := newCountingLimiter()
	decay := profile.DecayConfig{
		HalfLife:         180 * 24 * time.Hour,
		ReviewThreshold:  0.5,
		ArchiveThreshold: 0.2,
	}
	profileSvc := NewProfileService(tx, log, clk, decay, profileRepo, memoryRepo)
	consentSvc := NewConsentService(tx, log, clk, limiter, profileRepo, policyRepo, receiptRepo, profileSvc)

	actorDID := "did:a2p:agent:acme:scheduler"
	agentCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{
		ActorDID: actorDID,
		Trust:    &consent.ActorTrust{},
	})
	req := AccessRequest{
		ProfileDID: owner.DID,
		Scopes:     []string{"a2p:preferences.scheduling"},
		Purpose:    "scheduling",
	}

	for i := 1; i <= 2; i++ {
		result, err := consentSvc.EvaluateAccess(agentCtx, req)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if !result.Decision.Granted {
			t.Fatalf("request %d not granted", i)
		}
		if len(result.Memories) != 1 {
			t.Fatalf("request %d returned %d memories, want 1", i, len(result.Memories))
		}
	}

	if _, err := consentSvc.EvaluateAccess(agentCtx, req); !errors.Is(err, pkgerrors.ErrAccessDenied) {
		t.Fatalf("expected access denied once the window is exhausted, got %v", err)
	}

	// The counter key is scoped to policy and actor so separate actors never
	// share a window.
	wantKey := fmt.Sprintf("a2p:ratelimit:%s:%s", pol.ID, actorDID)
	if got := limiter.calls[wantKey]; got != 3 {
		t.Fatalf("limiter saw %d calls for %s, want 3", got, wantKey)
	}
	if got := limiter.windows[wantKey]; got != 60 {
		t.Fatalf("limiter window = %d, want 60", got)
	}
}
