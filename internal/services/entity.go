package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/a2p-backend/internal/data/repos"
	"github.com/yungbote/a2p-backend/internal/domain/entity"
	"github.com/yungbote/a2p-backend/internal/pkg/clock"
	pkgerrors "github.com/yungbote/a2p-backend/internal/pkg/errors"
	"github.com/yungbote/a2p-backend/internal/platform/logger"
	"github.com/yungbote/a2p-backend/internal/utils"
)

// EntityInput creates a node in the governance hierarchy.
type EntityInput struct {
	DisplayName string            `json:"display_name"`
	EntityType  entity.EntityType `json:"entity_type"`
	ParentID    *uuid.UUID        `json:"parent_id,omitempty"`
}

// RuleInput declares an enforced rule on an entity.
type RuleInput struct {
	Path          string             `json:"path"`
	Value         any                `json:"value"`
	Enforcement   entity.Enforcement `json:"enforcement"`
	Justification string             `json:"justification,omitempty"`
}

// SettingInput is a proposed policy value for a governed path.
type SettingInput struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// EntityService manages the organization hierarchy and resolves enforced
// policies down ancestry chains. Every write to a governed path is checked
// against ancestor rules before it lands.
type EntityService interface {
	CreateEntity(ctx context.Context, in EntityInput) (*entity.EntityProfile, error)
	GetEntity(ctx context.Context, entityID uuid.UUID) (*entity.EntityProfile, error)
	ListChildren(ctx context.Context, entityID uuid.UUID) ([]*entity.EntityProfile, error)

	AttachRule(ctx context.Context, entityID uuid.UUID, in RuleInput) (*entity.EnforcedRule, error)
	ListRules(ctx context.Context, entityID uuid.UUID) ([]*entity.EnforcedRule, error)
	RemoveRule(ctx context.Context, entityID, ruleID uuid.UUID) error

	EffectivePolicies(ctx context.Context, entityID uuid.UUID) (map[string]entity.EffectivePolicy, error)
	ValidateChange(ctx context.Context, entityID uuid.UUID, in SettingInput) (entity.ChangeResult, error)
	ApplySetting(ctx context.Context, entityID uuid.UUID, in SettingInput) (*entity.PolicySetting, error)
	ListSettings(ctx context.Context, entityID uuid.UUID) ([]*entity.PolicySetting, error)
}

type entityService struct {
	db          *gorm.DB
	log         *logger.Logger
	clk         clock.Clock
	maxDepth    int
	entityRepo  repos.EntityRepo
	ruleRepo    repos.EnforcedRuleRepo
	settingRepo repos.PolicySettingRepo
}

func NewEntityService(
	db *gorm.DB,
	log *logger.Logger,
	clk clock.Clock,
	maxDepth int,
	entityRepo repos.EntityRepo,
	ruleRepo repos.EnforcedRuleRepo,
	settingRepo repos.PolicySettingRepo,
) EntityService {
	serviceLog := log.With("service", "EntityService")
	return &entityService{
		db:          db,
		log:         serviceLog,
		clk:         clk,
		maxDepth:    maxDepth,
		entityRepo:  entityRepo,
		ruleRepo:    ruleRepo,
		settingRepo: settingRepo,
	}
}

func (es *entityService) CreateEntity(ctx context.Context, in EntityInput) (*entity.EntityProfile, error) {
	if in.DisplayName == "" {
		return nil, fmt.Errorf("display name is required: %w", pkgerrors.ErrInvalidArgument)
	}
	switch in.EntityType {
	case entity.TypeOrganization, entity.TypeDepartment, entity.TypeTeam:
	default:
		return nil, fmt.Errorf("entity type %q: %w", in.EntityType, pkgerrors.ErrInvalidArgument)
	}

	depth := 0
	if in.ParentID != nil {
		parents, err := es.entityRepo.GetByIDs(ctx, nil, []uuid.UUID{*in.ParentID})
		if err != nil {
			return nil, fmt.Errorf("fetch parent: %w", err)
		}
		if len(parents) == 0 {
			return nil, fmt.Errorf("parent %s: %w", in.ParentID, pkgerrors.ErrNotFound)
		}
		depth = parents[0].Depth + 1
		if es.maxDepth > 0 && depth >= es.maxDepth {
			return nil, fmt.Errorf("hierarchy deeper than %d levels: %w", es.maxDepth, pkgerrors.ErrInvalidArgument)
		}
	}

	id := uuid.New()
	now := es.clk.Now()
	e := &entity.EntityProfile{
		ID:          id,
		DID:         utils.MintDID("entity", "local", id.String()),
		DisplayName: in.DisplayName,
		EntityType:  in.EntityType,
		ParentID:    in.ParentID,
		Depth:       depth,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := es.entityRepo.Create(ctx, tx, []*entity.EntityProfile{e})
		return err
	}); err != nil {
		return nil, fmt.Errorf("create entity: %w", err)
	}
	return e, nil
}

func (es *entityService) GetEntity(ctx context.Context, entityID uuid.UUID) (*entity.EntityProfile, error) {
	found, err := es.entityRepo.GetByIDs(ctx, nil, []uuid.UUID{entityID})
	if err != nil {
		return nil, fmt.Errorf("fetch entity: %w", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("entity %s: %w", entityID, pkgerrors.ErrNotFound)
	}
	return found[0], nil
}

func (es *entityService) ListChildren(ctx context.Context, entityID uuid.UUID) ([]*entity.EntityProfile, error) {
	if _, err := es.GetEntity(ctx, entityID); err != nil {
		return nil, err
	}
	return es.entityRepo.GetChildren(ctx, nil, entityID)
}

func (es *entityService) AttachRule(ctx context.Context, entityID uuid.UUID, in RuleInput) (*entity.EnforcedRule, error) {
	if in.Path == "" {
		return nil, fmt.Errorf("rule path is required: %w", pkgerrors.ErrInvalidArgument)
	}
	if !entity.ValidEnforcement(in.Enforcement) {
		return nil, fmt.Errorf("enforcement %q: %w", in.Enforcement, pkgerrors.ErrInvalidArgument)
	}
	if _, err := es.GetEntity(ctx, entityID); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(in.Value)
	if err != nil {
		return nil, fmt.Errorf("encode rule value: %w", pkgerrors.ErrInvalidArgument)
	}

	now := es.clk.Now()
	rule := &entity.EnforcedRule{
		ID:            uuid.New(),
		EntityID:      entityID,
		Path:          in.Path,
		Value:         datatypes.JSON(raw),
		Enforcement:   in.Enforcement,
		Justification: in.Justification,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := es.ruleRepo.Create(ctx, tx, []*entity.EnforcedRule{rule})
		return err
	}); err != nil {
		return nil, fmt.Errorf("create rule: %w", err)
	}
	return rule, nil
}

func (es *entityService) ListRules(ctx context.Context, entityID uuid.UUID) ([]*entity.EnforcedRule, error) {
	if _, err := es.GetEntity(ctx, entityID); err != nil {
		return nil, err
	}
	return es.ruleRepo.GetByEntityIDs(ctx, nil, []uuid.UUID{entityID})
}

func (es *entityService) RemoveRule(ctx context.Context, entityID, ruleID uuid.UUID) error {
	rules, err := es.ruleRepo.GetByEntityIDs(ctx, nil, []uuid.UUID{entityID})
	if err != nil {
		return fmt.Errorf("fetch rules: %w", err)
	}
	for _, r := range rules {
		if r.ID == ruleID {
			return es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				return es.ruleRepo.Delete(ctx, tx, ruleID)
			})
		}
	}
	return fmt.Errorf("rule %s on entity %s: %w", ruleID, entityID, pkgerrors.ErrNotFound)
}

func (es *entityService) EffectivePolicies(ctx context.Context, entityID uuid.UUID) (map[string]entity.EffectivePolicy, error) {
	chain, err := es.ancestryChain(ctx, entityID)
	if err != nil {
		return nil, err
	}
	return entity.EffectivePolicies(chain), nil
}

func (es *entityService) ValidateChange(ctx context.Context, entityID uuid.UUID, in SettingInput) (entity.ChangeResult, error) {
	if in.Path == "" {
		return entity.ChangeResult{}, fmt.Errorf("setting path is required: %w", pkgerrors.ErrInvalidArgument)
	}
	chain, err := es.ancestryChain(ctx, entityID)
	if err != nil {
		return entity.ChangeResult{}, err
	}
	return entity.ValidateChange(chain, in.Path, in.Value), nil
}

// ApplySetting validates against ancestor rules and persists the value only
// when every rule admits it.
func (es *entityService) ApplySetting(ctx context.Context, entityID uuid.UUID, in SettingInput) (*entity.PolicySetting, error) {
	result, err := es.ValidateChange(ctx, entityID, in)
	if err != nil {
		return nil, err
	}
	if !result.Allowed {
		return nil, fmt.Errorf("%s: %w", result.Reason, pkgerrors.ErrPolicyConstraintViolated)
	}
	raw, err := json.Marshal(in.Value)
	if err != nil {
		return nil, fmt.Errorf("encode setting value: %w", pkgerrors.ErrInvalidArgument)
	}

	now := es.clk.Now()
	setting := &entity.PolicySetting{
		ID:        uuid.New(),
		EntityID:  entityID,
		Path:      in.Path,
		Value:     datatypes.JSON(raw),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return es.settingRepo.Upsert(ctx, tx, setting)
	}); err != nil {
		return nil, fmt.Errorf("persist setting: %w", err)
	}
	return setting, nil
}

func (es *entityService) ListSettings(ctx context.Context, entityID uuid.UUID) ([]*entity.PolicySetting, error) {
	if _, err := es.GetEntity(ctx, entityID); err != nil {
		return nil, err
	}
	return es.settingRepo.GetByEntityID(ctx, nil, entityID)
}

// ancestryChain loads the entity and walks parent pointers up to the root,
// attaching each node's declared rules. Leaf-first order, as the resolver
// expects.
func (es *entityService) ancestryChain(ctx context.Context, entityID uuid.UUID) ([]entity.Node, error) {
	var chain []entity.Node
	currentID := &entityID
	seen := make(map[uuid.UUID]struct{})
	for currentID != nil {
		if _, cycle := seen[*currentID]; cycle {
			return nil, fmt.Errorf("ancestry cycle at %s: %w", currentID, pkgerrors.ErrInvalidArgument)
		}
		seen[*currentID] = struct{}{}

		found, err := es.entityRepo.GetByIDs(ctx, nil, []uuid.UUID{*currentID})
		if err != nil {
			return nil, fmt.Errorf("fetch entity: %w", err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("entity %s: %w", currentID, pkgerrors.ErrNotFound)
		}
		node := found[0]

		rules, err := es.ruleRepo.GetByEntityIDs(ctx, nil, []uuid.UUID{node.ID})
		if err != nil {
			return nil, fmt.Errorf("fetch rules: %w", err)
		}
		ruleVals := make([]entity.EnforcedRule, 0, len(rules))
		for _, r := range rules {
			ruleVals = append(ruleVals, *r)
		}

		chain = append(chain, entity.Node{Entity: *node, Rules: ruleVals})
		currentID = node.ParentID
	}
	return chain, nil
}
