package app

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/a2p-backend/internal/platform/logger"
)

// fileConfig is the optional YAML overlay. Every field is a pointer so an
// absent key leaves the env-derived value alone.
type fileConfig struct {
	JWTSecretKey     *string  `yaml:"jwt_secret_key"`
	AccessTokenTTL   *int     `yaml:"access_token_ttl_seconds"`
	RefreshTokenTTL  *int     `yaml:"refresh_token_ttl_seconds"`
	RedisAddr        *string  `yaml:"redis_addr"`
	ProposalTTLDays  *int     `yaml:"proposal_ttl_days"`
	SweepInterval    *int     `yaml:"sweep_interval_seconds"`
	SweepBatchSize   *int     `yaml:"sweep_batch_size"`
	MaxEntityDepth   *int     `yaml:"max_entity_depth"`
	DecayHalfLife    *int     `yaml:"decay_half_life_days"`
	ReviewThreshold  *float64 `yaml:"decay_review_threshold"`
	ArchiveThreshold *float64 `yaml:"decay_archive_threshold"`
	ServiceName      *string  `yaml:"service_name"`
	Environment      *string  `yaml:"environment"`
}

// applyConfigFile overlays values from the CONFIG_FILE YAML, when set, on
// top of the env-derived config.
func applyConfigFile(cfg Config, log *logger.Logger) Config {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		return cfg
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("config file unreadable, using env config", "path", path, "error", err)
		return cfg
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		log.Warn("config file malformed, using env config", "path", path, "error", err)
		return cfg
	}

	if fc.JWTSecretKey != nil {
		cfg.JWTSecretKey = *fc.JWTSecretKey
	}
	if fc.AccessTokenTTL != nil {
		cfg.AccessTokenTTL = time.Duration(*fc.AccessTokenTTL) * time.Second
	}
	if fc.RefreshTokenTTL != nil {
		cfg.RefreshTokenTTL = time.Duration(*fc.RefreshTokenTTL) * time.Second
	}
	if fc.RedisAddr != nil {
		cfg.RedisAddr = *fc.RedisAddr
	}
	if fc.ProposalTTLDays != nil {
		cfg.ProposalTTL = time.Duration(*fc.ProposalTTLDays) * 24 * time.Hour
	}
	if fc.SweepInterval != nil {
		cfg.SweepInterval = time.Duration(*fc.SweepInterval) * time.Second
	}
	if fc.SweepBatchSize != nil {
		cfg.SweepBatchSize = *fc.SweepBatchSize
	}
	if fc.MaxEntityDepth != nil {
		cfg.MaxEntityDepth = *fc.MaxEntityDepth
	}
	if fc.DecayHalfLife != nil {
		cfg.Decay.HalfLife = time.Duration(*fc.DecayHalfLife) * 24 * time.Hour
	}
	if fc.ReviewThreshold != nil {
		cfg.Decay.ReviewThreshold = *fc.ReviewThreshold
	}
	if fc.ArchiveThreshold != nil {
		cfg.Decay.ArchiveThreshold = *fc.ArchiveThreshold
	}
	if fc.ServiceName != nil {
		cfg.ServiceName = *fc.ServiceName
	}
	if fc.Environment != nil {
		cfg.Environment = *fc.Environment
	}
	log.Info("config file applied", "path", path)
	return cfg
}
