package app

import (
	"time"

	"github.com/yungbote/a2p-backend/internal/domain/profile"
	"github.com/yungbote/a2p-backend/internal/platform/logger"
	"github.com/yungbote/a2p-backend/internal/utils"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	RedisAddr string

	ProposalTTL      time.Duration
	SweepInterval    time.Duration
	SweepBatchSize   int
	MaxEntityDepth   int
	Decay            profile.DecayConfig
	ServiceName      string
	Environment      string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

	redisAddr := utils.GetEnv("REDIS_ADDR", "", log)

	proposalTTLDays := utils.GetEnvAsInt("PROPOSAL_TTL_DAYS", 7, log)
	sweepIntervalSeconds := utils.GetEnvAsInt("SWEEP_INTERVAL_SECONDS", 60, log)
	sweepBatchSize := utils.GetEnvAsInt("SWEEP_BATCH_SIZE", 200, log)
	maxEntityDepth := utils.GetEnvAsInt("MAX_ENTITY_DEPTH", 6, log)

	halfLifeDays := utils.GetEnvAsInt("DECAY_HALF_LIFE_DAYS", 180, log)
	reviewThreshold := utils.GetEnvAsFloat("DECAY_REVIEW_THRESHOLD", 0.5, log)
	archiveThreshold := utils.GetEnvAsFloat("DECAY_ARCHIVE_THRESHOLD", 0.2, log)

	cfg := Config{
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		RedisAddr:       redisAddr,
		ProposalTTL:     time.Duration(proposalTTLDays) * 24 * time.Hour,
		SweepInterval:   time.Duration(sweepIntervalSeconds) * time.Second,
		SweepBatchSize:  sweepBatchSize,
		MaxEntityDepth:  maxEntityDepth,
		Decay: profile.DecayConfig{
			HalfLife:         time.Duration(halfLifeDays) * 24 * time.Hour,
			ReviewThreshold:  reviewThreshold,
			ArchiveThreshold: archiveThreshold,
		},
		ServiceName: utils.GetEnv("SERVICE_NAME", "a2p-backend", log),
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),
	}
	return applyConfigFile(cfg, log)
}
