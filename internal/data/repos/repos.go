package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/a2p-backend/internal/data/repos/auth"
	"github.com/yungbote/a2p-backend/internal/data/repos/consent"
	"github.com/yungbote/a2p-backend/internal/data/repos/entity"
	"github.com/yungbote/a2p-backend/internal/data/repos/profile"
	"github.com/yungbote/a2p-backend/internal/data/repos/proposal"
	"github.com/yungbote/a2p-backend/internal/platform/logger"
)

type ProfileRepo = profile.ProfileRepo
type MemoryRepo = profile.MemoryRepo

type ConsentPolicyRepo = consent.ConsentPolicyRepo
type ConsentReceiptRepo = consent.ConsentReceiptRepo

type ProposalRepo = proposal.ProposalRepo

type EntityRepo = entity.EntityRepo
type EnforcedRuleRepo = entity.EnforcedRuleRepo
type PolicySettingRepo = entity.PolicySettingRepo

type OwnerTokenRepo = auth.OwnerTokenRepo

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return profile.NewProfileRepo(db, baseLog)
}
func NewMemoryRepo(db *gorm.DB, baseLog *logger.Logger) MemoryRepo {
	return profile.NewMemoryRepo(db, baseLog)
}

func NewConsentPolicyRepo(db *gorm.DB, baseLog *logger.Logger) ConsentPolicyRepo {
	return consent.NewConsentPolicyRepo(db, baseLog)
}
func NewConsentReceiptRepo(db *gorm.DB, baseLog *logger.Logger) ConsentReceiptRepo {
	return consent.NewConsentReceiptRepo(db, baseLog)
}

func NewProposalRepo(db *gorm.DB, baseLog *logger.Logger) ProposalRepo {
	return proposal.NewProposalRepo(db, baseLog)
}

func NewEntityRepo(db *gorm.DB, baseLog *logger.Logger) EntityRepo {
	return entity.NewEntityRepo(db, baseLog)
}
func NewEnforcedRuleRepo(db *gorm.DB, baseLog *logger.Logger) EnforcedRuleRepo {
	return entity.NewEnforcedRuleRepo(db, baseLog)
}
func NewPolicySettingRepo(db *gorm.DB, baseLog *logger.Logger) PolicySettingRepo {
	return entity.NewPolicySettingRepo(db, baseLog)
}

func NewOwnerTokenRepo(db *gorm.DB, baseLog *logger.Logger) OwnerTokenRepo {
	return auth.NewOwnerTokenRepo(db, baseLog)
}
