package entity

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func node(name string, depth int, rules ...EnforcedRule) Node {
	return Node{
		Entity: EntityProfile{
			ID:          uuid.New(),
			DID:         "did:a2p:entity:local:" + name,
			DisplayName: name,
			EntityType:  TypeOrganization,
			Depth:       depth,
		},
		Rules: rules,
	}
}

func rule(path string, value any, enforcement Enforcement, justification string) EnforcedRule {
	raw, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}
	return EnforcedRule{
		ID:            uuid.New(),
		Path:          path,
		Value:         datatypes.JSON(raw),
		Enforcement:   enforcement,
		Justification: justification,
	}
}

func TestValidateChangeLocked(t *testing.T) {
	root := node("Acme Corp", 0, rule("gdpr", true, EnforcementLocked, "EU operations"))
	team := node("Platform Team", 2)
	chain := []Node{team, root}

	if res := ValidateChange(chain, "gdpr", false); res.Allowed {
		t.Fatal("locked value must not change")
	} else if res.Reason == "" {
		t.Fatal("denial must carry a reason")
	}
	if res := ValidateChange(chain, "gdpr", true); !res.Allowed {
		t.Fatalf("matching the locked value is allowed, got %q", res.Reason)
	}
}

func TestValidateChangeMinMax(t *testing.T) {
	root := node("Acme Corp", 0,
		rule("encryptionBits", 256, EnforcementMin, ""),
		rule("sessionHours", 8, EnforcementMax, ""))
	team := node("Platform Team", 2)
	chain := []Node{team, root}

	if res := ValidateChange(chain, "encryptionBits", 128); res.Allowed {
		t.Fatal("128 is below the 256 floor")
	}
	if res := ValidateChange(chain, "encryptionBits", 512); !res.Allowed {
		t.Fatalf("512 satisfies the floor, got %q", res.Reason)
	}
	if res := ValidateChange(chain, "sessionHours", 12); res.Allowed {
		t.Fatal("12 is above the 8 ceiling")
	}
	if res := ValidateChange(chain, "sessionHours", float64(8)); !res.Allowed {
		t.Fatalf("the bound itself is allowed, got %q", res.Reason)
	}
}

func TestValidateChangeSubset(t *testing.T) {
	root := node("Acme Corp", 0,
		rule("allowedRegions", []string{"eu-west", "eu-central"}, EnforcementSubset, ""))
	chain := []Node{node("Data Team", 1), root}

	res := ValidateChange(chain, "allowedRegions", []string{"eu-west", "us-east"})
	if res.Allowed {
		t.Fatal("us-east is outside the parent list")
	}
	if want := "us-east"; !strings.Contains(res.Reason, want) {
		t.Fatalf("denial should name the offending element, got %q", res.Reason)
	}
	if res := ValidateChange(chain, "allowedRegions", []string{"eu-west"}); !res.Allowed {
		t.Fatalf("proper subset is allowed, got %q", res.Reason)
	}
}

func TestValidateChangeAdditive(t *testing.T) {
	root := node("Acme Corp", 0,
		rule("auditedEvents", []string{"login", "export"}, EnforcementAdditive, ""))
	chain := []Node{node("Security Team", 1), root}

	if res := ValidateChange(chain, "auditedEvents", []string{"login"}); res.Allowed {
		t.Fatal("removing a baseline element must be denied")
	}
	if res := ValidateChange(chain, "auditedEvents", []string{"login", "export", "delete"}); !res.Allowed {
		t.Fatalf("growing the list is allowed, got %q", res.Reason)
	}
}

func TestValidateChangeSelfRulesSkipped(t *testing.T) {
	team := node("Platform Team", 1, rule("gdpr", true, EnforcementLocked, "self rule"))
	chain := []Node{team, node("Acme Corp", 0)}

	if res := ValidateChange(chain, "gdpr", false); !res.Allowed {
		t.Fatalf("an entity's own rules never constrain itself, got %q", res.Reason)
	}
}

func TestValidateChangeClosestDenierWins(t *testing.T) {
	root := node("Acme Corp", 0, rule("retentionDays", 30, EnforcementMin, ""))
	dept := node("Data Dept", 1, rule("retentionDays", 90, EnforcementMin, ""))
	chain := []Node{node("Analytics Team", 2), dept, root}

	if res := ValidateChange(chain, "retentionDays", 60); res.Allowed {
		t.Fatal("the department floor of 90 still applies")
	}
	if res := ValidateChange(chain, "retentionDays", 120); !res.Allowed {
		t.Fatalf("120 satisfies every ancestor floor, got %q", res.Reason)
	}
}

func TestEffectivePolicies(t *testing.T) {
	root := node("Acme Corp", 0,
		rule("gdpr", true, EnforcementLocked, "EU operations"),
		rule("retentionDays", 30, EnforcementMin, ""))
	dept := node("Data Dept", 1,
		rule("retentionDays", 90, EnforcementMin, ""),
		rule("gdpr", false, EnforcementLocked, "attempted override"))
	team := node("Analytics Team", 2)
	chain := []Node{team, dept, root}

	effective := EffectivePolicies(chain)

	gdpr, ok := effective["gdpr"]
	if !ok || gdpr.Value != true || gdpr.Source != "Acme Corp" || !gdpr.Locked {
		t.Fatalf("locked root rule must survive a descendant override: %+v", gdpr)
	}
	retention, ok := effective["retentionDays"]
	if !ok || retention.Source != "Data Dept" {
		t.Fatalf("closer ancestor should layer onto an unlocked path: %+v", retention)
	}
	if n, isNum := retention.Value.(float64); !isNum || n != 90 {
		t.Fatalf("retention value: %+v", retention.Value)
	}
}
