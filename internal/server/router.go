package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/a2p-backend/internal/handlers"
	"github.com/yungbote/a2p-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName string

	AuthHandler     *handlers.AuthHandler
	ProfileHandler  *handlers.ProfileHandler
	PolicyHandler   *handlers.PolicyHandler
	AccessHandler   *handlers.AccessHandler
	ProposalHandler *handlers.ProposalHandler
	EntityHandler   *handlers.EntityHandler

	AuthMiddleware *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthMiddleware.RefreshToken(), cfg.AuthHandler.Refresh)
	router.POST("/agent/token", cfg.AuthHandler.AgentToken)

	// Owner surface
	owner := router.Group("/api")
	owner.Use(cfg.AuthMiddleware.RequireOwner())
	{
		owner.POST("/logout", cfg.AuthHandler.Logout)

		owner.GET("/profile", cfg.ProfileHandler.GetMe)
		owner.PATCH("/profile", cfg.ProfileHandler.UpdateDisplayName)
		owner.DELETE("/profile", cfg.ProfileHandler.DeleteMe)

		owner.POST("/memories", cfg.ProfileHandler.AddMemory)
		owner.GET("/memories", cfg.ProfileHandler.ListMemories)
		owner.POST("/memories/:id/confirm", cfg.ProfileHandler.ConfirmMemory)
		owner.POST("/memories/:id/archive", cfg.ProfileHandler.ArchiveMemory)
		owner.DELETE("/memories/:id", cfg.ProfileHandler.DeleteMemory)

		owner.POST("/policies", cfg.PolicyHandler.Create)
		owner.GET("/policies", cfg.PolicyHandler.List)
		owner.PATCH("/policies/:id", cfg.PolicyHandler.SetDisabled)
		owner.DELETE("/policies/:id", cfg.PolicyHandler.Delete)

		owner.GET("/receipts", cfg.PolicyHandler.ListReceipts)
		owner.POST("/receipts/:id/revoke", cfg.PolicyHandler.RevokeReceipt)

		owner.GET("/proposals", cfg.ProposalHandler.ListAll)
		owner.GET("/proposals/pending", cfg.ProposalHandler.ListPending)
		owner.POST("/proposals/:id/approve", cfg.ProposalHandler.Approve)
		owner.POST("/proposals/:id/reject", cfg.ProposalHandler.Reject)
		owner.POST("/proposals/cleanup", cfg.ProposalHandler.Cleanup)

		owner.POST("/entities", cfg.EntityHandler.Create)
		owner.GET("/entities/:id", cfg.EntityHandler.Get)
		owner.GET("/entities/:id/children", cfg.EntityHandler.ListChildren)
		owner.POST("/entities/:id/rules", cfg.EntityHandler.AttachRule)
		owner.GET("/entities/:id/rules", cfg.EntityHandler.ListRules)
		owner.DELETE("/entities/:id/rules/:ruleId", cfg.EntityHandler.RemoveRule)
		owner.GET("/entities/:id/effective", cfg.EntityHandler.EffectivePolicies)
		owner.POST("/entities/:id/validate", cfg.EntityHandler.ValidateChange)
		owner.POST("/entities/:id/settings", cfg.EntityHandler.ApplySetting)
		owner.GET("/entities/:id/settings", cfg.EntityHandler.ListSettings)
	}

	// Agent surface
	agent := router.Group("/agent")
	agent.Use(cfg.AuthMiddleware.RequireAgent())
	{
		agent.POST("/access", cfg.AccessHandler.Evaluate)
		agent.GET("/profile/:did", cfg.AccessHandler.ProfileView)
		agent.POST("/proposals", cfg.ProposalHandler.Submit)
		agent.POST("/proposals/:id/withdraw", cfg.ProposalHandler.Withdraw)
	}

	return router
}
