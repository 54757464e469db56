package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/a2p-backend/internal/data/repos"
	"github.com/yungbote/a2p-backend/internal/platform/logger"
)

type Repos struct {
	Profile        repos.ProfileRepo
	Memory         repos.MemoryRepo
	ConsentPolicy  repos.ConsentPolicyRepo
	ConsentReceipt repos.ConsentReceiptRepo
	Proposal       repos.ProposalRepo
	Entity         repos.EntityRepo
	EnforcedRule   repos.EnforcedRuleRepo
	PolicySetting  repos.PolicySettingRepo
	OwnerToken     repos.OwnerTokenRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Profile:        repos.NewProfileRepo(db, log),
		Memory:         repos.NewMemoryRepo(db, log),
		ConsentPolicy:  repos.NewConsentPolicyRepo(db, log),
		ConsentReceipt: repos.NewConsentReceiptRepo(db, log),
		Proposal:       repos.NewProposalRepo(db, log),
		Entity:         repos.NewEntityRepo(db, log),
		EnforcedRule:   repos.NewEnforcedRuleRepo(db, log),
		PolicySetting:  repos.NewPolicySettingRepo(db, log),
		OwnerToken:     repos.NewOwnerTokenRepo(db, log),
	}
}
