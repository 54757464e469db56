package consent

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Decision is the outcome of evaluating one access request. It is a plain
// value: a denial is a normal decision, never an error.
type Decision struct {
	Granted       bool              `json:"granted"`
	GrantedScopes []string          `json:"granted_scopes"`
	DeniedScopes  []string          `json:"denied_scopes"`
	Permissions   []PermissionLevel `json:"permissions"`
	MatchedPolicy *uuid.UUID        `json:"matched_policy,omitempty"`

	// AllExpired is set when at least one policy matched the actor pattern
	// but every one of them had expired. The service shell maps this to the
	// expired-policy error kind.
	AllExpired bool `json:"all_expired,omitempty"`
}

// Evaluate resolves a set of consent policies into a deterministic access
// decision for one actor and one set of requested scopes. It is pure: no
// clock reads, no mutation of the policy set.
//
// A scope is granted iff at least one surviving policy's allow list covers
// it and no surviving policy's deny list covers it. Deny is evaluated
// across the whole surviving set, so a deny always wins regardless of the
// priority of the policy that allowed the scope.
func Evaluate(policies []ConsentPolicy, actorDID string, requestedScopes []string, trust *ActorTrust, now time.Time) Decision {
	decision := Decision{
		GrantedScopes: []string{},
		DeniedScopes:  []string{},
		Permissions:   []PermissionLevel{},
	}
	if len(requestedScopes) == 0 {
		return decision
	}

	matchedActor := 0
	expired := 0
	survivors := make([]ConsentPolicy, 0, len(policies))
	for _, p := range policies {
		if !MatchActor(actorDID, p.ActorPattern) {
			continue
		}
		matchedActor++
		if p.Expired(now) {
			expired++
			continue
		}
		if p.Disabled {
			continue
		}
		if !p.conditionsHold(trust, now) {
			continue
		}
		survivors = append(survivors, p)
	}
	if matchedActor > 0 && matchedActor == expired {
		decision.AllExpired = true
	}
	if len(survivors) == 0 {
		decision.DeniedScopes = append(decision.DeniedScopes, requestedScopes...)
		return decision
	}

	// Highest priority first; declaration order breaks ties.
	sort.SliceStable(survivors, func(i, j int) bool {
		if survivors[i].Priority != survivors[j].Priority {
			return survivors[i].Priority > survivors[j].Priority
		}
		return survivors[i].Position < survivors[j].Position
	})

	granting := make(map[uuid.UUID]*ConsentPolicy)
	for _, scope := range requestedScopes {
		denied := false
		for _, p := range survivors {
			if MatchAnyScope(scope, p.Deny) {
				denied = true
				break
			}
		}
		if denied {
			decision.DeniedScopes = append(decision.DeniedScopes, scope)
			continue
		}
		allowed := false
		for i := range survivors {
			if MatchAnyScope(scope, survivors[i].Allow) {
				allowed = true
				if _, seen := granting[survivors[i].ID]; !seen {
					granting[survivors[i].ID] = &survivors[i]
				}
			}
		}
		if allowed {
			decision.GrantedScopes = append(decision.GrantedScopes, scope)
		} else {
			decision.DeniedScopes = append(decision.DeniedScopes, scope)
		}
	}

	decision.Granted = len(decision.GrantedScopes) > 0
	if !decision.Granted {
		return decision
	}

	// Merged permissions: union across every policy that granted at least
	// one requested scope, in a stable canonical order.
	permSet := make(map[PermissionLevel]struct{})
	for _, p := range granting {
		for _, perm := range p.Permissions {
			permSet[perm] = struct{}{}
		}
	}
	for _, perm := range []PermissionLevel{
		PermissionNone, PermissionReadPublic, PermissionReadScoped,
		PermissionReadFull, PermissionPropose, PermissionWrite,
	} {
		if _, ok := permSet[perm]; ok {
			decision.Permissions = append(decision.Permissions, perm)
		}
	}

	// Matched policy: the highest-priority survivor that granted a scope.
	for i := range survivors {
		if _, ok := granting[survivors[i].ID]; ok {
			id := survivors[i].ID
			decision.MatchedPolicy = &id
			break
		}
	}
	return decision
}
