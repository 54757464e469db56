package profile

import (
	"math"
	"time"
)

// DecayConfig controls read-time confidence decay.
type DecayConfig struct {
	// HalfLife is the elapsed time after which confidence halves. Zero
	// disables decay.
	HalfLife time.Duration
	// ReviewThreshold flags a memory for user review once decayed
	// confidence drops below it.
	ReviewThreshold float64
	// ArchiveThreshold archives a memory once decayed confidence drops
	// below it. Archived memories are never deleted.
	ArchiveThreshold float64
}

// DefaultDecayConfig mirrors the service defaults: 180-day half-life,
// review below 0.5, archive below 0.2.
func DefaultDecayConfig() DecayConfig {
	return DecayConfig{
		HalfLife:         180 * 24 * time.Hour,
		ReviewThreshold:  0.5,
		ArchiveThreshold: 0.2,
	}
}

// DecayedConfidence computes the current confidence of a memory as a
// monotonically non-increasing function of time since it was last
// confirmed. Pure and idempotent: it never writes back, so repeated reads
// at the same instant agree.
func DecayedConfidence(base float64, lastConfirmed time.Time, cfg DecayConfig, now time.Time) float64 {
	if cfg.HalfLife <= 0 {
		return clamp01(base)
	}
	elapsed := now.Sub(lastConfirmed)
	if elapsed <= 0 {
		return clamp01(base)
	}
	halves := float64(elapsed) / float64(cfg.HalfLife)
	return clamp01(base * math.Pow(0.5, halves))
}

// ApplyDecay returns a copy of m with its confidence recomputed and its
// status moved to pending_review or archived when the configured
// thresholds are crossed. Statuses only ever move toward archived.
func ApplyDecay(m Memory, cfg DecayConfig, now time.Time) Memory {
	m.Confidence = DecayedConfidence(m.Confidence, m.LastConfirmed, cfg, now)
	switch {
	case m.Confidence < cfg.ArchiveThreshold:
		m.Status = MemoryArchived
	case m.Confidence < cfg.ReviewThreshold && m.Status == MemoryActive:
		m.Status = MemoryPendingReview
	}
	return m
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
