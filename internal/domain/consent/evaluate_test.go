package consent

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func policy(name, pattern string, priority int, position int, allow, deny []string, perms []PermissionLevel) ConsentPolicy {
	return ConsentPolicy{
		ID:           uuid.New(),
		ProfileID:    uuid.New(),
		Name:         name,
		Priority:     priority,
		Position:     position,
		ActorPattern: pattern,
		Allow:        allow,
		Deny:         deny,
		Permissions:  perms,
	}
}

func TestEvaluateScenario(t *testing.T) {
	p := policy("agents", "agent:*", 0, 0,
		[]string{"a2p:preferences.*"}, nil,
		[]PermissionLevel{PermissionReadScoped, PermissionPropose})

	d := Evaluate([]ConsentPolicy{p}, "agent:local:bot",
		[]string{"a2p:preferences.communication", "a2p:health"}, nil, testNow)

	if !d.Granted {
		t.Fatal("expected granted decision")
	}
	if len(d.GrantedScopes) != 1 || d.GrantedScopes[0] != "a2p:preferences.communication" {
		t.Fatalf("granted scopes: %v", d.GrantedScopes)
	}
	if len(d.DeniedScopes) != 1 || d.DeniedScopes[0] != "a2p:health" {
		t.Fatalf("denied scopes: %v", d.DeniedScopes)
	}
	if d.MatchedPolicy == nil || *d.MatchedPolicy != p.ID {
		t.Fatalf("matched policy: %v", d.MatchedPolicy)
	}
	if !HasCapability(d.Permissions, PermissionPropose) || !HasAtLeast(d.Permissions, PermissionReadScoped) {
		t.Fatalf("permissions: %v", d.Permissions)
	}
}

func TestEvaluateDenyAlwaysWins(t *testing.T) {
	allow := policy("allow prefs", "agent:*", 100, 0,
		[]string{"a2p:preferences.*"}, nil,
		[]PermissionLevel{PermissionReadScoped})
	deny := policy("deny sensitive", "agent:*", 1, 1,
		nil, []string{"a2p:preferences.sensitive"},
		[]PermissionLevel{PermissionReadScoped})

	scopes := []string{"a2p:preferences.communication", "a2p:preferences.sensitive"}
	for _, order := range [][]ConsentPolicy{{allow, deny}, {deny, allow}} {
		d := Evaluate(order, "agent:x", scopes, nil, testNow)
		if len(d.GrantedScopes) != 1 || d.GrantedScopes[0] != "a2p:preferences.communication" {
			t.Fatalf("granted scopes: %v", d.GrantedScopes)
		}
		if len(d.DeniedScopes) != 1 || d.DeniedScopes[0] != "a2p:preferences.sensitive" {
			t.Fatalf("denied scopes: %v", d.DeniedScopes)
		}
	}
}

func TestEvaluateEmptyScopeList(t *testing.T) {
	p := policy("open", "agent:*", 0, 0, []string{"a2p:*"}, nil, []PermissionLevel{PermissionReadFull})
	d := Evaluate([]ConsentPolicy{p}, "agent:x", nil, nil, testNow)
	if d.Granted {
		t.Fatal("empty requested-scope list must never grant")
	}
}

func TestEvaluateActorPatternFilter(t *testing.T) {
	p := policy("work only", "did:a2p:agent:local:local:work-*", 0, 0,
		[]string{"a2p:professional.*"}, nil, []PermissionLevel{PermissionReadScoped})
	d := Evaluate([]ConsentPolicy{p}, "did:a2p:agent:local:local:health-tracker",
		[]string{"a2p:professional.title"}, nil, testNow)
	if d.Granted {
		t.Fatal("non-matching actor must not be granted")
	}
	if len(d.DeniedScopes) != 1 {
		t.Fatalf("denied scopes: %v", d.DeniedScopes)
	}
}

func TestEvaluateExpiredAndDisabled(t *testing.T) {
	past := testNow.Add(-time.Hour)
	expired := policy("expired", "agent:*", 0, 0, []string{"a2p:*"}, nil, []PermissionLevel{PermissionReadFull})
	expired.ExpiresAt = &past

	d := Evaluate([]ConsentPolicy{expired}, "agent:x", []string{"a2p:health"}, nil, testNow)
	if d.Granted {
		t.Fatal("expired policy must not grant")
	}
	if !d.AllExpired {
		t.Fatal("expected AllExpired when every matching policy has expired")
	}

	// Expiry exactly at now is not strictly in the future.
	atNow := expired
	atNow.ExpiresAt = &testNow
	if d := Evaluate([]ConsentPolicy{atNow}, "agent:x", []string{"a2p:health"}, nil, testNow); d.Granted {
		t.Fatal("expiry at now must not grant")
	}

	disabled := policy("disabled", "agent:*", 0, 0, []string{"a2p:*"}, nil, []PermissionLevel{PermissionReadFull})
	disabled.Disabled = true
	d = Evaluate([]ConsentPolicy{disabled}, "agent:x", []string{"a2p:health"}, nil, testNow)
	if d.Granted {
		t.Fatal("disabled policy must not grant")
	}
	if d.AllExpired {
		t.Fatal("disabled is not expired")
	}
}

func TestEvaluateTrustConditions(t *testing.T) {
	verified := true
	minScore := 0.8
	audit := true

	base := policy("conditional", "agent:*", 0, 0, []string{"a2p:preferences.*"}, nil,
		[]PermissionLevel{PermissionReadScoped})

	t.Run("verified operator", func(t *testing.T) {
		p := base
		p.Conditions = &Conditions{RequireVerifiedOperator: &verified}
		if d := Evaluate([]ConsentPolicy{p}, "agent:x", []string{"a2p:preferences.ui"}, nil, testNow); d.Granted {
			t.Fatal("missing trust data must fail a verified-operator check")
		}
		trust := &ActorTrust{OperatorVerified: true}
		if d := Evaluate([]ConsentPolicy{p}, "agent:x", []string{"a2p:preferences.ui"}, trust, testNow); !d.Granted {
			t.Fatal("verified operator should pass")
		}
	})

	t.Run("min trust score", func(t *testing.T) {
		p := base
		p.Conditions = &Conditions{MinTrustScore: &minScore}
		if d := Evaluate([]ConsentPolicy{p}, "agent:x", []string{"a2p:preferences.ui"}, nil, testNow); d.Granted {
			t.Fatal("absent trust data is score 0 and must fail a positive threshold")
		}
		low := &ActorTrust{CommunityScore: 0.3}
		if d := Evaluate([]ConsentPolicy{p}, "agent:x", []string{"a2p:preferences.ui"}, low, testNow); d.Granted {
			t.Fatal("low score must fail")
		}
		high := &ActorTrust{CommunityScore: 0.9}
		if d := Evaluate([]ConsentPolicy{p}, "agent:x", []string{"a2p:preferences.ui"}, high, testNow); !d.Granted {
			t.Fatal("high score should pass")
		}
	})

	t.Run("require audit", func(t *testing.T) {
		p := base
		p.Conditions = &Conditions{RequireAudit: &audit}
		trust := &ActorTrust{}
		if d := Evaluate([]ConsentPolicy{p}, "agent:x", []string{"a2p:preferences.ui"}, trust, testNow); d.Granted {
			t.Fatal("absent audit flag must fail")
		}
		trust.AuditEnabled = true
		if d := Evaluate([]ConsentPolicy{p}, "agent:x", []string{"a2p:preferences.ui"}, trust, testNow); !d.Granted {
			t.Fatal("audit flag should pass")
		}
	})

	t.Run("jurisdictions", func(t *testing.T) {
		p := base
		p.Conditions = &Conditions{AllowedJurisdictions: []string{"EU", "UK"}}
		if d := Evaluate([]ConsentPolicy{p}, "agent:x", []string{"a2p:preferences.ui"}, &ActorTrust{}, testNow); d.Granted {
			t.Fatal("missing jurisdiction must fail an allow-list")
		}
		if d := Evaluate([]ConsentPolicy{p}, "agent:x", []string{"a2p:preferences.ui"}, &ActorTrust{Jurisdiction: "US"}, testNow); d.Granted {
			t.Fatal("US is not in the allow-list")
		}
		if d := Evaluate([]ConsentPolicy{p}, "agent:x", []string{"a2p:preferences.ui"}, &ActorTrust{Jurisdiction: "EU"}, testNow); !d.Granted {
			t.Fatal("EU should pass the allow-list")
		}

		p.Conditions = &Conditions{BlockedJurisdictions: []string{"XX"}}
		if d := Evaluate([]ConsentPolicy{p}, "agent:x", []string{"a2p:preferences.ui"}, nil, testNow); !d.Granted {
			t.Fatal("missing jurisdiction passes a deny-list-only condition")
		}
		if d := Evaluate([]ConsentPolicy{p}, "agent:x", []string{"a2p:preferences.ui"}, &ActorTrust{Jurisdiction: "XX"}, testNow); d.Granted {
			t.Fatal("blocked jurisdiction must fail")
		}
	})

	t.Run("time window", func(t *testing.T) {
		p := base
		p.Conditions = &Conditions{TimeWindow: &TimeWindow{
			Start: testNow.Add(-time.Hour),
			End:   testNow.Add(time.Hour),
		}}
		if d := Evaluate([]ConsentPolicy{p}, "agent:x", []string{"a2p:preferences.ui"}, nil, testNow); !d.Granted {
			t.Fatal("inside the window should pass")
		}
		if d := Evaluate([]ConsentPolicy{p}, "agent:x", []string{"a2p:preferences.ui"}, nil, testNow.Add(2*time.Hour)); d.Granted {
			t.Fatal("outside the window must fail")
		}
	})
}

func TestEvaluatePermissionUnion(t *testing.T) {
	a := policy("reader", "agent:*", 10, 0, []string{"a2p:preferences.*"}, nil,
		[]PermissionLevel{PermissionReadScoped})
	b := policy("proposer", "agent:*", 5, 1, []string{"a2p:interests.*"}, nil,
		[]PermissionLevel{PermissionReadPublic, PermissionPropose})
	c := policy("bystander", "agent:*", 1, 2, []string{"a2p:financial.*"}, nil,
		[]PermissionLevel{PermissionWrite})

	d := Evaluate([]ConsentPolicy{a, b, c}, "agent:x",
		[]string{"a2p:preferences.ui", "a2p:interests.music"}, nil, testNow)
	if !d.Granted {
		t.Fatal("expected grant")
	}
	// Union comes only from policies that granted a requested scope.
	want := []PermissionLevel{PermissionReadPublic, PermissionReadScoped, PermissionPropose}
	if len(d.Permissions) != len(want) {
		t.Fatalf("permissions: %v", d.Permissions)
	}
	for _, p := range want {
		if !HasCapability(d.Permissions, p) && !HasAtLeast(d.Permissions, p) {
			t.Fatalf("missing permission %s in %v", p, d.Permissions)
		}
	}
	if HasCapability(d.Permissions, PermissionWrite) {
		t.Fatal("write came from a policy that granted nothing")
	}
	if d.MatchedPolicy == nil || *d.MatchedPolicy != a.ID {
		t.Fatalf("matched policy should be the highest-priority granting policy, got %v", d.MatchedPolicy)
	}
}

func TestEvaluatePriorityTieBreak(t *testing.T) {
	first := policy("first", "agent:*", 10, 0, []string{"a2p:preferences.*"}, nil,
		[]PermissionLevel{PermissionReadScoped})
	second := policy("second", "agent:*", 10, 1, []string{"a2p:preferences.*"}, nil,
		[]PermissionLevel{PermissionReadFull})

	d := Evaluate([]ConsentPolicy{second, first}, "agent:x", []string{"a2p:preferences.ui"}, nil, testNow)
	if d.MatchedPolicy == nil || *d.MatchedPolicy != first.ID {
		t.Fatal("declaration order must break priority ties")
	}
}
