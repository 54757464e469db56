package profile

import (
	"testing"
	"time"
)

var decayNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func TestDecayedConfidenceHalfLife(t *testing.T) {
	cfg := DecayConfig{HalfLife: 30 * 24 * time.Hour, ReviewThreshold: 0.5, ArchiveThreshold: 0.2}
	confirmed := decayNow.Add(-30 * 24 * time.Hour)

	got := DecayedConfidence(1.0, confirmed, cfg, decayNow)
	if got < 0.499 || got > 0.501 {
		t.Fatalf("one half-life should halve confidence, got %f", got)
	}

	// Monotonically non-increasing.
	prev := 1.0
	for days := 0; days <= 120; days += 10 {
		c := DecayedConfidence(1.0, decayNow.Add(-time.Duration(days)*24*time.Hour), cfg, decayNow)
		if c > prev {
			t.Fatalf("confidence increased at %d days: %f > %f", days, c, prev)
		}
		prev = c
	}

	// Future last-confirmed and zero half-life leave confidence unchanged.
	if got := DecayedConfidence(0.8, decayNow.Add(time.Hour), cfg, decayNow); got != 0.8 {
		t.Fatalf("future confirmation must not decay, got %f", got)
	}
	if got := DecayedConfidence(0.8, confirmed, DecayConfig{}, decayNow); got != 0.8 {
		t.Fatalf("zero half-life disables decay, got %f", got)
	}
}

func TestApplyDecayThresholds(t *testing.T) {
	cfg := DecayConfig{HalfLife: 30 * 24 * time.Hour, ReviewThreshold: 0.5, ArchiveThreshold: 0.2}

	fresh := Memory{Confidence: 1.0, Status: MemoryActive, LastConfirmed: decayNow}
	if got := ApplyDecay(fresh, cfg, decayNow); got.Status != MemoryActive {
		t.Fatalf("fresh memory should stay active, got %s", got.Status)
	}

	stale := Memory{Confidence: 1.0, Status: MemoryActive, LastConfirmed: decayNow.Add(-45 * 24 * time.Hour)}
	if got := ApplyDecay(stale, cfg, decayNow); got.Status != MemoryPendingReview {
		t.Fatalf("stale memory should be flagged for review, got %s", got.Status)
	}

	ancient := Memory{Confidence: 1.0, Status: MemoryActive, LastConfirmed: decayNow.Add(-100 * 24 * time.Hour)}
	got := ApplyDecay(ancient, cfg, decayNow)
	if got.Status != MemoryArchived {
		t.Fatalf("ancient memory should be archived, got %s", got.Status)
	}

	// Idempotent at the same instant.
	again := ApplyDecay(got, cfg, decayNow)
	if again.Status != MemoryArchived {
		t.Fatalf("archive is terminal, got %s", again.Status)
	}
}

func TestMemoryVisible(t *testing.T) {
	match := func(scope, pattern string) bool {
		// Delegated to the consent matcher in production; exact match plus
		// dotted-prefix here keeps the test hermetic.
		if scope == pattern {
			return true
		}
		if len(pattern) > 2 && pattern[len(pattern)-2:] == ".*" {
			prefix := pattern[:len(pattern)-2]
			return scope == prefix || (len(scope) > len(prefix) && scope[:len(prefix)+1] == prefix+".")
		}
		return false
	}

	m := Memory{Category: "a2p:preferences.ui", Status: MemoryActive, Sensitivity: SensitivityScoped}
	if !m.Visible([]string{"a2p:preferences"}, match) {
		t.Fatal("grant for the parent scope should expose the memory")
	}
	if m.Visible([]string{"a2p:health"}, match) {
		t.Fatal("unrelated grant must not expose the memory")
	}

	m.Sensitivity = SensitivityProhibited
	if m.Visible([]string{"a2p:preferences"}, match) {
		t.Fatal("prohibited memories never leave the store")
	}

	m.Sensitivity = SensitivityScoped
	m.Status = MemoryArchived
	if m.Visible([]string{"a2p:preferences"}, match) {
		t.Fatal("archived memories are not served")
	}
}
