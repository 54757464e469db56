package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/a2p-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:     cfg.ServiceName,
		AuthHandler:     handlerset.Auth,
		ProfileHandler:  handlerset.Profile,
		PolicyHandler:   handlerset.Policy,
		AccessHandler:   handlerset.Access,
		ProposalHandler: handlerset.Proposal,
		EntityHandler:   handlerset.Entity,
		AuthMiddleware:  middlewareset.Auth,
	})
}
