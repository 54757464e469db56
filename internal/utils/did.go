package utils

import (
	"fmt"
	"strings"
)

// DID is a parsed a2p decentralized identifier of the form
// did:a2p:<type>:<namespace>:<local-id>. The local id may itself contain
// colons (hosted namespaces mint nested ids).
type DID struct {
	Type      string
	Namespace string
	LocalID   string
}

const didPrefix = "did:a2p:"

var validDIDTypes = map[string]struct{}{
	"user":   {},
	"agent":  {},
	"entity": {},
}

// ParseDID validates identifier syntax before any core component sees the
// value. Malformed identifiers never reach the policy evaluator.
func ParseDID(raw string) (DID, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, didPrefix) {
		return DID{}, fmt.Errorf("identifier %q must start with %q", raw, didPrefix)
	}
	rest := strings.TrimPrefix(raw, didPrefix)
	parts := strings.SplitN(rest, ":", 3)
	if len(parts) != 3 {
		return DID{}, fmt.Errorf("identifier %q must be did:a2p:<type>:<namespace>:<local-id>", raw)
	}
	if _, ok := validDIDTypes[parts[0]]; !ok {
		return DID{}, fmt.Errorf("identifier type %q is not one of user, agent, entity", parts[0])
	}
	if parts[1] == "" {
		return DID{}, fmt.Errorf("identifier %q has an empty namespace", raw)
	}
	if parts[2] == "" {
		return DID{}, fmt.Errorf("identifier %q has an empty local id", raw)
	}
	return DID{Type: parts[0], Namespace: parts[1], LocalID: parts[2]}, nil
}

// ValidDID reports whether raw parses as an a2p identifier.
func ValidDID(raw string) bool {
	_, err := ParseDID(raw)
	return err == nil
}

// MintDID builds an identifier from its triple.
func MintDID(didType, namespace, localID string) string {
	return didPrefix + didType + ":" + namespace + ":" + localID
}
