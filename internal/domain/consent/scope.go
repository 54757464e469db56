package consent

import "strings"

// MatchScope reports whether a concrete scope string is covered by a
// pattern. Exact equality always matches. A pattern ending in ".*" matches
// the scope when it equals the prefix or starts with prefix plus ".". A
// pattern ending in ":*" matches any scope beginning with the prefix plus
// ":". Any other wildcard form fails closed.
func MatchScope(scope, pattern string) bool {
	if scope == pattern {
		return true
	}
	if strings.HasSuffix(pattern, ".*") {
		prefix := pattern[:len(pattern)-2]
		return scope == prefix || strings.HasPrefix(scope, prefix+".")
	}
	if strings.HasSuffix(pattern, ":*") {
		prefix := pattern[:len(pattern)-2]
		return strings.HasPrefix(scope, prefix+":")
	}
	return false
}

// MatchActor reports whether an actor identifier is covered by a policy's
// actor pattern. Actor patterns allow a generic trailing wildcard, so
// "did:a2p:agent:local:local:work-*" covers every work agent in that
// namespace.
func MatchActor(actorDID, pattern string) bool {
	if actorDID == pattern {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(actorDID, pattern[:len(pattern)-1])
	}
	return false
}

// MatchAnyScope reports whether any pattern in patterns covers scope.
func MatchAnyScope(scope string, patterns []string) bool {
	for _, p := range patterns {
		if MatchScope(scope, p) {
			return true
		}
	}
	return false
}
