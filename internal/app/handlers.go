package app

import (
	"github.com/yungbote/a2p-backend/internal/handlers"
	"github.com/yungbote/a2p-backend/internal/platform/logger"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Profile  *handlers.ProfileHandler
	Policy   *handlers.PolicyHandler
	Access   *handlers.AccessHandler
	Proposal *handlers.ProposalHandler
	Entity   *handlers.EntityHandler
}

func wireHandlers(log *logger.Logger, cfg Config, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:     handlers.NewAuthHandler(serviceset.Auth, cfg.AccessTokenTTL),
		Profile:  handlers.NewProfileHandler(serviceset.Profile),
		Policy:   handlers.NewPolicyHandler(serviceset.Consent),
		Access:   handlers.NewAccessHandler(serviceset.Consent),
		Proposal: handlers.NewProposalHandler(serviceset.Proposal),
		Entity:   handlers.NewEntityHandler(serviceset.Entity),
	}
}
