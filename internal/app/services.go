package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/a2p-backend/internal/jobs"
	"github.com/yungbote/a2p-backend/internal/pkg/clock"
	"github.com/yungbote/a2p-backend/internal/platform/logger"
	"github.com/yungbote/a2p-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	Profile  services.ProfileService
	Consent  services.ConsentService
	Proposal services.ProposalService
	Entity   services.EntityService

	RateLimiter RateLimiterCloser
	Sweeper     *jobs.Sweeper
}

type RateLimiterCloser = services.RateLimiter

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")
	clk := clock.System()

	var limiter services.RateLimiter
	if cfg.RedisAddr != "" {
		redisLimiter, err := services.NewRedisRateLimiter(log, cfg.RedisAddr)
		if err != nil {
			return Services{}, err
		}
		limiter = redisLimiter
	} else {
		log.Warn("no REDIS_ADDR configured, rate limits are not enforced")
		limiter = services.NewNoopRateLimiter()
	}

	authService := services.NewAuthService(db, log, reposet.Profile, reposet.OwnerToken,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	profileService := services.NewProfileService(db, log, clk, cfg.Decay,
		reposet.Profile, reposet.Memory)
	consentService := services.NewConsentService(db, log, clk, limiter,
		reposet.Profile, reposet.ConsentPolicy, reposet.ConsentReceipt, profileService)
	proposalService := services.NewProposalService(db, log, clk, cfg.ProposalTTL,
		reposet.Profile, reposet.Memory, reposet.ConsentPolicy, reposet.Proposal)
	entityService := services.NewEntityService(db, log, clk, cfg.MaxEntityDepth,
		reposet.Entity, reposet.EnforcedRule, reposet.PolicySetting)

	sweeper := jobs.NewSweeper(log, proposalService, cfg.SweepInterval, cfg.SweepBatchSize)

	return Services{
		Auth:        authService,
		Profile:     profileService,
		Consent:     consentService,
		Proposal:    proposalService,
		Entity:      entityService,
		RateLimiter: limiter,
		Sweeper:     sweeper,
	}, nil
}
