package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/a2p-backend/internal/data/repos"
	"github.com/yungbote/a2p-backend/internal/domain/consent"
	"github.com/yungbote/a2p-backend/internal/domain/profile"
	"github.com/yungbote/a2p-backend/internal/pkg/clock"
	pkgerrors "github.com/yungbote/a2p-backend/internal/pkg/errors"
	"github.com/yungbote/a2p-backend/internal/platform/logger"
	"github.com/yungbote/a2p-backend/internal/requestdata"
)

// MemoryInput is the owner-facing payload for a direct memory write.
type MemoryInput struct {
	Content     string              `json:"content"`
	Category    string              `json:"category"`
	MemoryType  string              `json:"memory_type"`
	Confidence  float64             `json:"confidence"`
	Sensitivity profile.Sensitivity `json:"sensitivity"`
}

// AgentMemoryView is one memory as an agent sees it: confidence decayed to
// the moment of the read.
type AgentMemoryView struct {
	ID         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	MemoryType string    `json:"memory_type,omitempty"`
	Confidence float64   `json:"confidence"`
}

// ProfileService is the owner-facing surface over profiles and memories,
// plus the scope-filtered agent read path.
type ProfileService interface {
	GetMe(ctx context.Context) (*profile.Profile, error)
	UpdateDisplayName(ctx context.Context, displayName string) (*profile.Profile, error)
	DeleteMe(ctx context.Context) error

	AddMemory(ctx context.Context, in MemoryInput) (*profile.Memory, error)
	ListMemories(ctx context.Context) ([]*profile.Memory, error)
	ConfirmMemory(ctx context.Context, memoryID uuid.UUID) (*profile.Memory, error)
	ArchiveMemory(ctx context.Context, memoryID uuid.UUID) error
	DeleteMemory(ctx context.Context, memoryID uuid.UUID) error

	// AgentMemories returns the memories visible under a granted decision.
	// Sensitivity and the decayed status both gate visibility; confidence
	// in the result reflects decay at read time without writing back.
	AgentMemories(ctx context.Context, profileID uuid.UUID, decision consent.Decision) ([]AgentMemoryView, error)
}

type profileService struct {
	db          *gorm.DB
	log         *logger.Logger
	clk         clock.Clock
	decay       profile.DecayConfig
	profileRepo repos.ProfileRepo
	memoryRepo  repos.MemoryRepo
}

func NewProfileService(
	db *gorm.DB,
	log *logger.Logger,
	clk clock.Clock,
	decay profile.DecayConfig,
	profileRepo repos.ProfileRepo,
	memoryRepo repos.MemoryRepo,
) ProfileService {
	serviceLog := log.With("service", "ProfileService")
	return &profileService{
		db:          db,
		log:         serviceLog,
		clk:         clk,
		decay:       decay,
		profileRepo: profileRepo,
		memoryRepo:  memoryRepo,
	}
}

func (ps *profileService) GetMe(ctx context.Context) (*profile.Profile, error) {
	profileID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	found, err := ps.profileRepo.GetByIDs(ctx, nil, []uuid.UUID{profileID})
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("profile %s: %w", profileID, pkgerrors.ErrNotFound)
	}
	return found[0], nil
}

func (ps *profileService) UpdateDisplayName(ctx context.Context, displayName string) (*profile.Profile, error) {
	if displayName == "" {
		return nil, fmt.Errorf("display name is required: %w", pkgerrors.ErrInvalidArgument)
	}
	profileID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ps.profileRepo.UpdateDisplayName(ctx, tx, profileID, displayName)
	}); err != nil {
		return nil, fmt.Errorf("update display name: %w", err)
	}
	return ps.GetMe(ctx)
}

func (ps *profileService) DeleteMe(ctx context.Context) error {
	profileID, err := ownerID(ctx)
	if err != nil {
		return err
	}
	return ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ps.profileRepo.Delete(ctx, tx, profileID)
	})
}

func (ps *profileService) AddMemory(ctx context.Context, in MemoryInput) (*profile.Memory, error) {
	profileID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	if in.Content == "" || in.Category == "" {
		return nil, fmt.Errorf("content and category are required: %w", pkgerrors.ErrInvalidArgument)
	}
	sensitivity := in.Sensitivity
	if sensitivity == "" {
		sensitivity = profile.SensitivityScoped
	}
	confidence := in.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = 1
	}

	now := ps.clk.Now()
	m := &profile.Memory{
		ID:            uuid.New(),
		ProfileID:     profileID,
		Content:       in.Content,
		Category:      in.Category,
		MemoryType:    in.MemoryType,
		Confidence:    confidence,
		Status:        profile.MemoryActive,
		Sensitivity:   sensitivity,
		SourceMethod:  profile.SourceDirect,
		LastConfirmed: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ps.memoryRepo.Create(ctx, tx, []*profile.Memory{m})
		return err
	}); err != nil {
		return nil, fmt.Errorf("create memory: %w", err)
	}
	return m, nil
}

func (ps *profileService) ListMemories(ctx context.Context) ([]*profile.Memory, error) {
	profileID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	memories, err := ps.memoryRepo.GetByProfileID(ctx, nil, profileID)
	if err != nil {
		return nil, fmt.Errorf("fetch memories: %w", err)
	}
	now := ps.clk.Now()
	for i := range memories {
		decayed := profile.ApplyDecay(*memories[i], ps.decay, now)
		memories[i] = &decayed
	}
	return memories, nil
}

// ConfirmMemory resets decay: confidence returns to full and the
// last-confirmed timestamp moves to now.
func (ps *profileService) ConfirmMemory(ctx context.Context, memoryID uuid.UUID) (*profile.Memory, error) {
	profileID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	now := ps.clk.Now()
	var confirmed *profile.Memory
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := ps.ownedMemory(ctx, tx, profileID, memoryID)
		if err != nil {
			return err
		}
		if err := ps.memoryRepo.Confirm(ctx, tx, m.ID, 1, now); err != nil {
			return fmt.Errorf("confirm memory: %w", err)
		}
		if m.Status != profile.MemoryActive {
			if err := ps.memoryRepo.UpdateStatus(ctx, tx, m.ID, profile.MemoryActive); err != nil {
				return fmt.Errorf("reactivate memory: %w", err)
			}
		}
		m.Confidence = 1
		m.LastConfirmed = now
		m.Status = profile.MemoryActive
		confirmed = m
		return nil
	}); err != nil {
		return nil, err
	}
	return confirmed, nil
}

func (ps *profileService) ArchiveMemory(ctx context.Context, memoryID uuid.UUID) error {
	profileID, err := ownerID(ctx)
	if err != nil {
		return err
	}
	return ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := ps.ownedMemory(ctx, tx, profileID, memoryID)
		if err != nil {
			return err
		}
		return ps.memoryRepo.UpdateStatus(ctx, tx, m.ID, profile.MemoryArchived)
	})
}

func (ps *profileService) DeleteMemory(ctx context.Context, memoryID uuid.UUID) error {
	profileID, err := ownerID(ctx)
	if err != nil {
		return err
	}
	return ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := ps.ownedMemory(ctx, tx, profileID, memoryID)
		if err != nil {
			return err
		}
		return ps.memoryRepo.Delete(ctx, tx, m.ID)
	})
}

func (ps *profileService) AgentMemories(ctx context.Context, profileID uuid.UUID, decision consent.Decision) ([]AgentMemoryView, error) {
	if !decision.Granted {
		return []AgentMemoryView{}, nil
	}
	memories, err := ps.memoryRepo.GetActiveByProfileID(ctx, nil, profileID)
	if err != nil {
		return nil, fmt.Errorf("fetch memories: %w", err)
	}
	now := ps.clk.Now()
	views := []AgentMemoryView{}
	for _, m := range memories {
		decayed := profile.ApplyDecay(*m, ps.decay, now)
		if !decayed.Visible(decision.GrantedScopes, consent.MatchScope) {
			continue
		}
		if !readableAt(decayed.Sensitivity, decision.Permissions) {
			continue
		}
		views = append(views, AgentMemoryView{
			ID:         decayed.ID,
			Content:    decayed.Content,
			Category:   decayed.Category,
			MemoryType: decayed.MemoryType,
			Confidence: decayed.Confidence,
		})
	}
	return views, nil
}

func (ps *profileService) ownedMemory(ctx context.Context, tx *gorm.DB, profileID, memoryID uuid.UUID) (*profile.Memory, error) {
	found, err := ps.memoryRepo.GetByIDs(ctx, tx, []uuid.UUID{memoryID})
	if err != nil {
		return nil, fmt.Errorf("fetch memory: %w", err)
	}
	if len(found) == 0 || found[0].ProfileID != profileID {
		return nil, fmt.Errorf("memory %s: %w", memoryID, pkgerrors.ErrNotFound)
	}
	return found[0], nil
}

// readableAt maps each sensitivity tier to the minimum granted read level
// allowed to see it. Prohibited has no tier; Visible already excludes it.
func readableAt(s profile.Sensitivity, perms []consent.PermissionLevel) bool {
	switch s {
	case profile.SensitivityPublic:
		return consent.HasAtLeast(perms, consent.PermissionReadPublic)
	case profile.SensitivityScoped:
		return consent.HasAtLeast(perms, consent.PermissionReadScoped)
	case profile.SensitivitySensitive:
		return consent.HasAtLeast(perms, consent.PermissionReadFull)
	}
	return false
}

func ownerID(ctx context.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.ProfileID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("owner identity not set: %w", pkgerrors.ErrUnauthorized)
	}
	return rd.ProfileID, nil
}
