package consent

import "testing"

func TestMatchScope(t *testing.T) {
	cases := []struct {
		scope   string
		pattern string
		want    bool
	}{
		{"a2p:preferences.communication", "a2p:preferences.communication", true},
		{"a2p:preferences.communication", "a2p:preferences.*", true},
		{"a2p:preferences", "a2p:preferences.*", true},
		{"a2p:preferences-extra", "a2p:preferences.*", false},
		{"a2p:preferencesx.y", "a2p:preferences.*", false},
		{"a2p:health", "a2p:preferences.*", false},
		{"a2p:health", "a2p:*", true},
		{"a2p:preferences.ui", "a2p:*", true},
		{"b2b:health", "a2p:*", false},
		{"a2p", "a2p:*", false},
		// Undefined wildcard forms fail closed.
		{"a2p:health", "a2p:he*", false},
		{"anything", "*", false},
		{"", "", true},
		{"", "a2p:*", false},
	}
	for _, tc := range cases {
		if got := MatchScope(tc.scope, tc.pattern); got != tc.want {
			t.Fatalf("MatchScope(%q, %q) = %v, want %v", tc.scope, tc.pattern, got, tc.want)
		}
	}
}

func TestMatchActor(t *testing.T) {
	cases := []struct {
		actor   string
		pattern string
		want    bool
	}{
		{"did:a2p:agent:local:assistant", "did:a2p:agent:local:assistant", true},
		{"did:a2p:agent:local:assistant", "did:a2p:agent:*", true},
		{"did:a2p:agent:local:local:work-slack", "did:a2p:agent:local:local:work-*", true},
		{"did:a2p:agent:local:local:health-tracker", "did:a2p:agent:local:local:work-*", false},
		{"did:a2p:user:local:alice", "did:a2p:agent:*", false},
	}
	for _, tc := range cases {
		if got := MatchActor(tc.actor, tc.pattern); got != tc.want {
			t.Fatalf("MatchActor(%q, %q) = %v, want %v", tc.actor, tc.pattern, got, tc.want)
		}
	}
}

func TestHasAtLeast(t *testing.T) {
	perms := []PermissionLevel{PermissionReadScoped, PermissionPropose}
	if !HasAtLeast(perms, PermissionReadPublic) {
		t.Fatal("read_scoped should satisfy read_public")
	}
	if HasAtLeast(perms, PermissionReadFull) {
		t.Fatal("read_scoped should not satisfy read_full")
	}
	if HasAtLeast(perms, PermissionPropose) {
		t.Fatal("propose is a capability, not a read level")
	}
	if !HasCapability(perms, PermissionPropose) {
		t.Fatal("expected propose capability")
	}
	if HasCapability(perms, PermissionWrite) {
		t.Fatal("unexpected write capability")
	}
}
