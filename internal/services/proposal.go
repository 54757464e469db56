package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/a2p-backend/internal/data/repos"
	"github.com/yungbote/a2p-backend/internal/domain/consent"
	"github.com/yungbote/a2p-backend/internal/domain/profile"
	"github.com/yungbote/a2p-backend/internal/domain/proposal"
	"github.com/yungbote/a2p-backend/internal/pkg/clock"
	pkgerrors "github.com/yungbote/a2p-backend/internal/pkg/errors"
	"github.com/yungbote/a2p-backend/internal/platform/logger"
	"github.com/yungbote/a2p-backend/internal/requestdata"
	"github.com/yungbote/a2p-backend/internal/utils"
)

// ProposalInput is the agent-facing payload for submitting a proposal.
type ProposalInput struct {
	ProfileDID    string  `json:"profile_did"`
	Content       string  `json:"content"`
	Category      string  `json:"category"`
	MemoryType    string  `json:"memory_type,omitempty"`
	Confidence    float64 `json:"confidence"`
	Justification string  `json:"justification,omitempty"`
	TTLSeconds    int     `json:"ttl_seconds,omitempty"`
}

// ProposalResult returns the created proposal together with advisory
// duplicate matches against the owner's existing memories.
type ProposalResult struct {
	Proposal *proposal.Proposal       `json:"proposal"`
	Similar  []proposal.SimilarMemory `json:"similar,omitempty"`
}

// ProposalService runs the proposal lifecycle. Agents submit and withdraw;
// owners approve, edit or reject; the sweeper expires what nobody touched.
type ProposalService interface {
	Propose(ctx context.Context, in ProposalInput) (*ProposalResult, error)
	Withdraw(ctx context.Context, proposalID uuid.UUID) (*proposal.Proposal, error)

	ListPending(ctx context.Context) ([]*proposal.Proposal, error)
	ListAll(ctx context.Context) ([]*proposal.Proposal, error)
	Approve(ctx context.Context, proposalID uuid.UUID, editedContent string) (*proposal.Proposal, *profile.Memory, error)
	Reject(ctx context.Context, proposalID uuid.UUID, reason string) (*proposal.Proposal, error)

	SweepExpired(ctx context.Context, limit int) (int, error)
	Cleanup(ctx context.Context, keepDays int) (int, error)
}

type proposalService struct {
	db           *gorm.DB
	log          *logger.Logger
	clk          clock.Clock
	defaultTTL   time.Duration
	profileRepo  repos.ProfileRepo
	memoryRepo   repos.MemoryRepo
	policyRepo   repos.ConsentPolicyRepo
	proposalRepo repos.ProposalRepo
}

func NewProposalService(
	db *gorm.DB,
	log *logger.Logger,
	clk clock.Clock,
	defaultTTL time.Duration,
	profileRepo repos.ProfileRepo,
	memoryRepo repos.MemoryRepo,
	policyRepo repos.ConsentPolicyRepo,
	proposalRepo repos.ProposalRepo,
) ProposalService {
	serviceLog := log.With("service", "ProposalService")
	return &proposalService{
		db:           db,
		log:          serviceLog,
		clk:          clk,
		defaultTTL:   defaultTTL,
		profileRepo:  profileRepo,
		memoryRepo:   memoryRepo,
		policyRepo:   policyRepo,
		proposalRepo: proposalRepo,
	}
}

// Propose checks that the actor holds the propose capability for the
// proposal's category before anything lands. Read access alone is not
// enough.
func (ps *proposalService) Propose(ctx context.Context, in ProposalInput) (*ProposalResult, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.ActorDID == "" {
		return nil, fmt.Errorf("agent identity not set: %w", pkgerrors.ErrUnauthorized)
	}
	if !utils.ValidDID(in.ProfileDID) {
		return nil, fmt.Errorf("profile identifier %q: %w", in.ProfileDID, pkgerrors.ErrInvalidArgument)
	}
	if in.Content == "" || in.Category == "" {
		return nil, fmt.Errorf("content and category are required: %w", pkgerrors.ErrInvalidArgument)
	}

	owners, err := ps.profileRepo.GetByDIDs(ctx, nil, []string{in.ProfileDID})
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if len(owners) == 0 {
		return nil, fmt.Errorf("profile %s: %w", in.ProfileDID, pkgerrors.ErrNotFound)
	}
	owner := owners[0]

	stored, err := ps.policyRepo.GetByProfileID(ctx, nil, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch policies: %w", err)
	}
	policies := make([]consent.ConsentPolicy, 0, len(stored))
	for _, p := range stored {
		policies = append(policies, *p)
	}

	now := ps.clk.Now()
	decision := consent.Evaluate(policies, rd.ActorDID, []string{in.Category}, rd.Trust, now)
	if decision.AllExpired {
		return nil, fmt.Errorf("every policy matching %s has expired: %w", rd.ActorDID, pkgerrors.ErrExpiredPolicy)
	}
	if !decision.Granted {
		return nil, fmt.Errorf("no access to %s: %w", in.Category, pkgerrors.ErrAccessDenied)
	}
	if !consent.HasCapability(decision.Permissions, consent.PermissionPropose) {
		return nil, fmt.Errorf("actor %s may read but not propose: %w", rd.ActorDID, pkgerrors.ErrPermissionInsufficient)
	}

	ttl := ps.defaultTTL
	if in.TTLSeconds > 0 {
		ttl = time.Duration(in.TTLSeconds) * time.Second
	}
	p := proposal.New(uuid.New(), owner.ID, rd.ActorDID,
		in.Content, in.Category, in.MemoryType, in.Justification,
		in.Confidence, ttl, now)

	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ps.proposalRepo.Create(ctx, tx, []*proposal.Proposal{&p})
		return err
	}); err != nil {
		return nil, fmt.Errorf("create proposal: %w", err)
	}

	// Duplicate detection is advisory; a flagged proposal still lands.
	active, err := ps.memoryRepo.GetActiveByProfileID(ctx, nil, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch memories for similarity: %w", err)
	}
	memories := make([]profile.Memory, 0, len(active))
	for _, m := range active {
		memories = append(memories, *m)
	}
	similar := proposal.FindSimilar(in.Content, memories, proposal.DefaultSimilarityThreshold)

	ps.log.Info("proposal submitted",
		"actor_did", rd.ActorDID,
		"profile_id", owner.ID.String(),
		"category", in.Category,
		"similar", len(similar))

	return &ProposalResult{Proposal: &p, Similar: similar}, nil
}

func (ps *proposalService) Withdraw(ctx context.Context, proposalID uuid.UUID) (*proposal.Proposal, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.ActorDID == "" {
		return nil, fmt.Errorf("agent identity not set: %w", pkgerrors.ErrUnauthorized)
	}
	var withdrawn *proposal.Proposal
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := ps.proposalRepo.GetByIDs(ctx, tx, []uuid.UUID{proposalID})
		if err != nil {
			return fmt.Errorf("fetch proposal: %w", err)
		}
		if len(found) == 0 {
			return fmt.Errorf("proposal %s: %w", proposalID, pkgerrors.ErrNotFound)
		}
		p, err := proposal.Withdraw(*found[0], rd.ActorDID, ps.clk.Now())
		if err != nil {
			return err
		}
		if err := ps.proposalRepo.Save(ctx, tx, &p); err != nil {
			return fmt.Errorf("save proposal: %w", err)
		}
		withdrawn = &p
		return nil
	}); err != nil {
		return nil, err
	}
	return withdrawn, nil
}

func (ps *proposalService) ListPending(ctx context.Context) ([]*proposal.Proposal, error) {
	profileID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	return ps.proposalRepo.GetPendingByProfileID(ctx, nil, profileID)
}

func (ps *proposalService) ListAll(ctx context.Context) ([]*proposal.Proposal, error) {
	profileID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	return ps.proposalRepo.GetByProfileID(ctx, nil, profileID)
}

func (ps *proposalService) Approve(ctx context.Context, proposalID uuid.UUID, editedContent string) (*proposal.Proposal, *profile.Memory, error) {
	profileID, err := ownerID(ctx)
	if err != nil {
		return nil, nil, err
	}
	var resolved *proposal.Proposal
	var created *profile.Memory
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := ps.ownedProposal(ctx, tx, profileID, proposalID)
		if err != nil {
			return err
		}
		owners, err := ps.profileRepo.GetByIDs(ctx, tx, []uuid.UUID{profileID})
		if err != nil || len(owners) == 0 {
			return fmt.Errorf("fetch owner: %w", pkgerrors.ErrNotFound)
		}
		p, mem, err := proposal.Approve(*found, editedContent, owners[0].DID, uuid.New(), ps.clk.Now())
		if err != nil {
			return err
		}
		if _, err := ps.memoryRepo.Create(ctx, tx, []*profile.Memory{&mem}); err != nil {
			return fmt.Errorf("create memory: %w", err)
		}
		if err := ps.proposalRepo.Save(ctx, tx, &p); err != nil {
			return fmt.Errorf("save proposal: %w", err)
		}
		resolved = &p
		created = &mem
		return nil
	}); err != nil {
		return nil, nil, err
	}
	return resolved, created, nil
}

func (ps *proposalService) Reject(ctx context.Context, proposalID uuid.UUID, reason string) (*proposal.Proposal, error) {
	profileID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	var resolved *proposal.Proposal
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := ps.ownedProposal(ctx, tx, profileID, proposalID)
		if err != nil {
			return err
		}
		owners, err := ps.profileRepo.GetByIDs(ctx, tx, []uuid.UUID{profileID})
		if err != nil || len(owners) == 0 {
			return fmt.Errorf("fetch owner: %w", pkgerrors.ErrNotFound)
		}
		p, err := proposal.Reject(*found, reason, owners[0].DID, ps.clk.Now())
		if err != nil {
			return err
		}
		if err := ps.proposalRepo.Save(ctx, tx, &p); err != nil {
			return fmt.Errorf("save proposal: %w", err)
		}
		resolved = &p
		return nil
	}); err != nil {
		return nil, err
	}
	return resolved, nil
}

// SweepExpired expires pending proposals past their TTL, in batches.
// Running it twice over the same state is a no-op the second time.
func (ps *proposalService) SweepExpired(ctx context.Context, limit int) (int, error) {
	now := ps.clk.Now()
	swept := 0
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stale, err := ps.proposalRepo.GetExpiredPending(ctx, tx, now, limit)
		if err != nil {
			return fmt.Errorf("fetch expired pending: %w", err)
		}
		pending := make([]proposal.Proposal, 0, len(stale))
		for _, p := range stale {
			pending = append(pending, *p)
		}
		for _, p := range proposal.SweepExpired(pending, now) {
			expired := p
			if err := ps.proposalRepo.Save(ctx, tx, &expired); err != nil {
				return fmt.Errorf("save expired proposal: %w", err)
			}
			swept++
		}
		return nil
	}); err != nil {
		return 0, err
	}
	if swept > 0 {
		ps.log.Info("expired proposals swept", "count", swept)
	}
	return swept, nil
}

// Cleanup removes resolved proposals older than the retention window.
func (ps *proposalService) Cleanup(ctx context.Context, keepDays int) (int, error) {
	profileID, err := ownerID(ctx)
	if err != nil {
		return 0, err
	}
	now := ps.clk.Now()
	removed := 0
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all, err := ps.proposalRepo.GetByProfileID(ctx, tx, profileID)
		if err != nil {
			return fmt.Errorf("fetch proposals: %w", err)
		}
		proposals := make([]proposal.Proposal, 0, len(all))
		for _, p := range all {
			proposals = append(proposals, *p)
		}
		stale := proposal.CleanupExpired(proposals, keepDays, now)
		if len(stale) == 0 {
			return nil
		}
		ids := make([]uuid.UUID, 0, len(stale))
		for _, p := range stale {
			ids = append(ids, p.ID)
		}
		if err := ps.proposalRepo.DeleteByIDs(ctx, tx, ids); err != nil {
			return fmt.Errorf("delete stale proposals: %w", err)
		}
		removed = len(ids)
		return nil
	}); err != nil {
		return 0, err
	}
	return removed, nil
}

func (ps *proposalService) ownedProposal(ctx context.Context, tx *gorm.DB, profileID, proposalID uuid.UUID) (*proposal.Proposal, error) {
	found, err := ps.proposalRepo.GetByIDs(ctx, tx, []uuid.UUID{proposalID})
	if err != nil {
		return nil, fmt.Errorf("fetch proposal: %w", err)
	}
	if len(found) == 0 || found[0].ProfileID != profileID {
		return nil, fmt.Errorf("proposal %s: %w", proposalID, pkgerrors.ErrNotFound)
	}
	return found[0], nil
}
