package entity

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Node pairs an entity with its declared enforced rules. An ancestry chain
// is ordered leaf-first: chain[0] is the entity itself, the last element is
// the root.
type Node struct {
	Entity EntityProfile
	Rules  []EnforcedRule
}

// EffectivePolicy is the resolved constraint a descendant sees for one
// governed path.
type EffectivePolicy struct {
	Value       any         `json:"value"`
	Source      string      `json:"source"`
	Enforcement Enforcement `json:"enforcement"`
	Locked      bool        `json:"locked"`
}

// ChangeResult is the outcome of validating a proposed policy change.
type ChangeResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// EffectivePolicies walks the ancestry root-to-leaf and computes the
// effective constraint per path. Closer ancestors may layer a rule onto a
// path, but a locked rule set higher up is never silently overridden.
func EffectivePolicies(chain []Node) map[string]EffectivePolicy {
	result := make(map[string]EffectivePolicy)
	for i := len(chain) - 1; i >= 0; i-- {
		node := chain[i]
		for _, rule := range node.Rules {
			if existing, ok := result[rule.Path]; ok && existing.Locked {
				continue
			}
			result[rule.Path] = EffectivePolicy{
				Value:       decodeValue(rule.Value),
				Source:      node.Entity.DisplayName,
				Enforcement: rule.Enforcement,
				Locked:      rule.Enforcement == EnforcementLocked,
			}
		}
	}
	return result
}

// ValidateChange checks a proposed value for a governed path against every
// ancestor rule. Only ancestors constrain an entity; its own rules are
// skipped. The chain is leaf-first, so ancestors are chain[1:].
func ValidateChange(chain []Node, path string, newValue any) ChangeResult {
	for i, node := range chain {
		if i == 0 {
			continue
		}
		for _, rule := range node.Rules {
			if rule.Path != path {
				continue
			}
			if res := checkRule(node.Entity.DisplayName, rule, path, newValue); !res.Allowed {
				return res
			}
		}
	}
	return ChangeResult{Allowed: true}
}

func checkRule(source string, rule EnforcedRule, path string, newValue any) ChangeResult {
	ruleValue := decodeValue(rule.Value)
	switch rule.Enforcement {
	case EnforcementLocked:
		if !valuesEqual(newValue, ruleValue) {
			reason := fmt.Sprintf("%q is locked by %s", path, source)
			if rule.Justification != "" {
				reason += ": " + rule.Justification
			}
			return ChangeResult{Allowed: false, Reason: reason}
		}

	case EnforcementMin:
		num, numOK := asNumber(newValue)
		bound, boundOK := asNumber(ruleValue)
		if numOK && boundOK && num < bound {
			return ChangeResult{Allowed: false, Reason: fmt.Sprintf("%q minimum is %v (set by %s)", path, ruleValue, source)}
		}

	case EnforcementMax:
		num, numOK := asNumber(newValue)
		bound, boundOK := asNumber(ruleValue)
		if numOK && boundOK && num > bound {
			return ChangeResult{Allowed: false, Reason: fmt.Sprintf("%q maximum is %v (set by %s)", path, ruleValue, source)}
		}

	case EnforcementSubset:
		newList, newOK := asStringList(newValue)
		allowedList, allowedOK := asStringList(ruleValue)
		if newOK && allowedOK {
			allowed := make(map[string]struct{}, len(allowedList))
			for _, v := range allowedList {
				allowed[v] = struct{}{}
			}
			var invalid []string
			for _, v := range newList {
				if _, ok := allowed[v]; !ok {
					invalid = append(invalid, v)
				}
			}
			if len(invalid) > 0 {
				return ChangeResult{Allowed: false, Reason: fmt.Sprintf(
					"%q must be a subset of %v (set by %s). Invalid: %s",
					path, allowedList, source, strings.Join(invalid, ", "))}
			}
		}

	case EnforcementAdditive:
		// Provisional semantics: the list may only grow relative to the
		// ancestor baseline, so every baseline element must survive.
		newList, newOK := asStringList(newValue)
		baseline, baseOK := asStringList(ruleValue)
		if newOK && baseOK {
			present := make(map[string]struct{}, len(newList))
			for _, v := range newList {
				present[v] = struct{}{}
			}
			var removed []string
			for _, v := range baseline {
				if _, ok := present[v]; !ok {
					removed = append(removed, v)
				}
			}
			if len(removed) > 0 {
				return ChangeResult{Allowed: false, Reason: fmt.Sprintf(
					"%q may only grow from the baseline set by %s. Removed: %s",
					path, source, strings.Join(removed, ", "))}
			}
		}
	}
	return ChangeResult{Allowed: true}
}

func decodeValue(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// valuesEqual compares a proposed value against a decoded rule value. The
// proposed value may arrive either as native Go types or as decoded JSON,
// so numbers are normalized before the deep comparison.
func valuesEqual(a, b any) bool {
	if an, ok := asNumber(a); ok {
		if bn, ok := asNumber(b); ok {
			return an == bn
		}
		return false
	}
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func normalize(v any) any {
	switch t := v.(type) {
	case []string:
		out := make([]any, 0, len(t))
		for _, s := range t {
			out = append(out, s)
		}
		return out
	default:
		return v
	}
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}

func asStringList(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
