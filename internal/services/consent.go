package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/a2p-backend/internal/data/repos"
	"github.com/yungbote/a2p-backend/internal/domain/consent"
	"github.com/yungbote/a2p-backend/internal/pkg/clock"
	pkgerrors "github.com/yungbote/a2p-backend/internal/pkg/errors"
	"github.com/yungbote/a2p-backend/internal/platform/logger"
	"github.com/yungbote/a2p-backend/internal/requestdata"
	"github.com/yungbote/a2p-backend/internal/utils"
)

// PolicyInput is the owner-facing payload for creating a consent policy.
type PolicyInput struct {
	Name         string                    `json:"name"`
	Priority     int                       `json:"priority"`
	ActorPattern string                    `json:"actor_pattern"`
	Allow        []string                  `json:"allow"`
	Deny         []string                  `json:"deny"`
	Permissions  []consent.PermissionLevel `json:"permissions"`
	Conditions   *consent.Conditions       `json:"conditions,omitempty"`
	TTLSeconds   int                       `json:"ttl_seconds,omitempty"`
}

// AccessRequest is what an agent asks for.
type AccessRequest struct {
	ProfileDID string   `json:"profile_did"`
	Scopes     []string `json:"scopes"`
	Purpose    string   `json:"purpose,omitempty"`
}

// AccessResult bundles the decision with the receipt issued for it, when
// access was granted.
type AccessResult struct {
	ProfileID uuid.UUID               `json:"profile_id"`
	Decision  consent.Decision        `json:"decision"`
	Receipt   *consent.ConsentReceipt `json:"receipt,omitempty"`
	Memories  []AgentMemoryView       `json:"memories,omitempty"`
}

// ConsentService owns the policy list and the evaluation path. Evaluation
// loads the owner's policies, runs the pure evaluator, applies any
// rate-limit conditions against redis, and persists a receipt when access
// was granted.
type ConsentService interface {
	CreatePolicy(ctx context.Context, in PolicyInput) (*consent.ConsentPolicy, error)
	ListPolicies(ctx context.Context) ([]*consent.ConsentPolicy, error)
	SetPolicyDisabled(ctx context.Context, policyID uuid.UUID, disabled bool) error
	DeletePolicy(ctx context.Context, policyID uuid.UUID) error

	EvaluateAccess(ctx context.Context, req AccessRequest) (*AccessResult, error)

	ListReceipts(ctx context.Context) ([]*consent.ConsentReceipt, error)
	RevokeReceipt(ctx context.Context, receiptID uuid.UUID, reason string) (*consent.ConsentReceipt, error)
}

type consentService struct {
	db             *gorm.DB
	log            *logger.Logger
	clk            clock.Clock
	limiter        RateLimiter
	profileRepo    repos.ProfileRepo
	policyRepo     repos.ConsentPolicyRepo
	receiptRepo    repos.ConsentReceiptRepo
	profileService ProfileService
}

func NewConsentService(
	db *gorm.DB,
	log *logger.Logger,
	clk clock.Clock,
	limiter RateLimiter,
	profileRepo repos.ProfileRepo,
	policyRepo repos.ConsentPolicyRepo,
	receiptRepo repos.ConsentReceiptRepo,
	profileService ProfileService,
) ConsentService {
	serviceLog := log.With("service", "ConsentService")
	return &consentService{
		db:             db,
		log:            serviceLog,
		clk:            clk,
		limiter:        limiter,
		profileRepo:    profileRepo,
		policyRepo:     policyRepo,
		receiptRepo:    receiptRepo,
		profileService: profileService,
	}
}

func (cs *consentService) CreatePolicy(ctx context.Context, in PolicyInput) (*consent.ConsentPolicy, error) {
	profileID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, fmt.Errorf("policy name is required: %w", pkgerrors.ErrInvalidArgument)
	}
	if in.ActorPattern == "" {
		return nil, fmt.Errorf("actor pattern is required: %w", pkgerrors.ErrInvalidArgument)
	}
	if len(in.Allow) == 0 && len(in.Deny) == 0 {
		return nil, fmt.Errorf("policy must allow or deny at least one scope: %w", pkgerrors.ErrInvalidArgument)
	}
	for _, perm := range in.Permissions {
		if !consent.ValidPermission(perm) {
			return nil, fmt.Errorf("unknown permission %q: %w", perm, pkgerrors.ErrInvalidArgument)
		}
	}

	now := cs.clk.Now()
	p := &consent.ConsentPolicy{
		ID:           uuid.New(),
		ProfileID:    profileID,
		Name:         in.Name,
		Priority:     in.Priority,
		ActorPattern: in.ActorPattern,
		Allow:        in.Allow,
		Deny:         in.Deny,
		Permissions:  in.Permissions,
		Conditions:   in.Conditions,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.TTLSeconds > 0 {
		expires := now.Add(time.Duration(in.TTLSeconds) * time.Second)
		p.ExpiresAt = &expires
	}

	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		position, err := cs.policyRepo.NextPosition(ctx, tx, profileID)
		if err != nil {
			return fmt.Errorf("next position: %w", err)
		}
		p.Position = position
		_, err = cs.policyRepo.Create(ctx, tx, []*consent.ConsentPolicy{p})
		return err
	}); err != nil {
		return nil, fmt.Errorf("create policy: %w", err)
	}
	return p, nil
}

func (cs *consentService) ListPolicies(ctx context.Context) ([]*consent.ConsentPolicy, error) {
	profileID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	return cs.policyRepo.GetByProfileID(ctx, nil, profileID)
}

func (cs *consentService) SetPolicyDisabled(ctx context.Context, policyID uuid.UUID, disabled bool) error {
	profileID, err := ownerID(ctx)
	if err != nil {
		return err
	}
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.ownedPolicy(ctx, tx, profileID, policyID); err != nil {
			return err
		}
		return cs.policyRepo.SetDisabled(ctx, tx, policyID, disabled)
	})
}

func (cs *consentService) DeletePolicy(ctx context.Context, policyID uuid.UUID) error {
	profileID, err := ownerID(ctx)
	if err != nil {
		return err
	}
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.ownedPolicy(ctx, tx, profileID, policyID); err != nil {
			return err
		}
		return cs.policyRepo.Delete(ctx, tx, policyID)
	})
}

func (cs *consentService) EvaluateAccess(ctx context.Context, req AccessRequest) (*AccessResult, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.ActorDID == "" {
		return nil, fmt.Errorf("agent identity not set: %w", pkgerrors.ErrUnauthorized)
	}
	if !utils.ValidDID(req.ProfileDID) {
		return nil, fmt.Errorf("profile identifier %q: %w", req.ProfileDID, pkgerrors.ErrInvalidArgument)
	}
	if len(req.Scopes) == 0 {
		return nil, fmt.Errorf("at least one scope is required: %w", pkgerrors.ErrInvalidArgument)
	}

	owners, err := cs.profileRepo.GetByDIDs(ctx, nil, []string{req.ProfileDID})
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if len(owners) == 0 {
		return nil, fmt.Errorf("profile %s: %w", req.ProfileDID, pkgerrors.ErrNotFound)
	}
	owner := owners[0]

	stored, err := cs.policyRepo.GetByProfileID(ctx, nil, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch policies: %w", err)
	}
	policies := make([]consent.ConsentPolicy, 0, len(stored))
	for _, p := range stored {
		policies = append(policies, *p)
	}

	now := cs.clk.Now()
	decision := consent.Evaluate(policies, rd.ActorDID, req.Scopes, rd.Trust, now)

	if decision.AllExpired {
		return nil, fmt.Errorf("every policy matching %s has expired: %w", rd.ActorDID, pkgerrors.ErrExpiredPolicy)
	}
	if !decision.Granted {
		return nil, fmt.Errorf("no scope granted to %s: %w", rd.ActorDID, pkgerrors.ErrAccessDenied)
	}

	// Rate limits ride on the matched policy; the counter key is scoped to
	// actor and policy so separate actors never share a window.
	matched := cs.matchedPolicy(policies, decision)
	if matched != nil && matched.Conditions != nil && matched.Conditions.RateLimit != nil {
		rl := matched.Conditions.RateLimit
		key := fmt.Sprintf("a2p:ratelimit:%s:%s", matched.ID, rd.ActorDID)
		ok, err := cs.limiter.Allow(ctx, key, rl.MaxRequests, rl.WindowSeconds)
		if err != nil {
			return nil, fmt.Errorf("rate limit check: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("rate limit exhausted for %s: %w", rd.ActorDID, pkgerrors.ErrAccessDenied)
		}
	}

	receipt := consent.IssueReceipt(uuid.New(), decision, owner.ID, owner.DID, rd.ActorDID, req.Purpose, matched, now)
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := cs.receiptRepo.Create(ctx, tx, []*consent.ConsentReceipt{&receipt})
		return err
	}); err != nil {
		return nil, fmt.Errorf("persist receipt: %w", err)
	}

	memories, err := cs.profileService.AgentMemories(ctx, owner.ID, decision)
	if err != nil {
		return nil, err
	}

	cs.log.Info("access granted",
		"actor_did", rd.ActorDID,
		"profile_id", owner.ID.String(),
		"granted", len(decision.GrantedScopes),
		"denied", len(decision.DeniedScopes))

	return &AccessResult{
		ProfileID: owner.ID,
		Decision:  decision,
		Receipt:   &receipt,
		Memories:  memories,
	}, nil
}

func (cs *consentService) ListReceipts(ctx context.Context) ([]*consent.ConsentReceipt, error) {
	profileID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	return cs.receiptRepo.GetByProfileID(ctx, nil, profileID)
}

func (cs *consentService) RevokeReceipt(ctx context.Context, receiptID uuid.UUID, reason string) (*consent.ConsentReceipt, error) {
	profileID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	var revoked *consent.ConsentReceipt
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := cs.receiptRepo.GetByIDs(ctx, tx, []uuid.UUID{receiptID})
		if err != nil {
			return fmt.Errorf("fetch receipt: %w", err)
		}
		if len(found) == 0 || found[0].ProfileID != profileID {
			return fmt.Errorf("receipt %s: %w", receiptID, pkgerrors.ErrNotFound)
		}
		r := consent.Revoke(*found[0], reason, cs.clk.Now())
		if r.RevokedAt != found[0].RevokedAt {
			if err := cs.receiptRepo.MarkRevoked(ctx, tx, r.ID, r.RevokedReason, *r.RevokedAt); err != nil {
				return fmt.Errorf("mark revoked: %w", err)
			}
		}
		revoked = &r
		return nil
	}); err != nil {
		return nil, err
	}
	return revoked, nil
}

func (cs *consentService) ownedPolicy(ctx context.Context, tx *gorm.DB, profileID, policyID uuid.UUID) (*consent.ConsentPolicy, error) {
	found, err := cs.policyRepo.GetByIDs(ctx, tx, []uuid.UUID{policyID})
	if err != nil {
		return nil, fmt.Errorf("fetch policy: %w", err)
	}
	if len(found) == 0 || found[0].ProfileID != profileID {
		return nil, fmt.Errorf("policy %s: %w", policyID, pkgerrors.ErrNotFound)
	}
	return found[0], nil
}

func (cs *consentService) matchedPolicy(policies []consent.ConsentPolicy, decision consent.Decision) *consent.ConsentPolicy {
	if decision.MatchedPolicy == nil {
		return nil
	}
	for i := range policies {
		if policies[i].ID == *decision.MatchedPolicy {
			return &policies[i]
		}
	}
	return nil
}
