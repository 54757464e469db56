package utils

import "testing"

func TestParseDID(t *testing.T) {
	cases := []struct {
		raw     string
		ok      bool
		didType string
		local   string
	}{
		{"did:a2p:user:local:alice", true, "user", "alice"},
		{"did:a2p:agent:local:assistant", true, "agent", "assistant"},
		{"did:a2p:agent:local:local:work-slack-assistant", true, "agent", "local:work-slack-assistant"},
		{"did:a2p:entity:acme:org-root", true, "entity", "org-root"},
		{"did:web:agent:local:x", false, "", ""},
		{"did:a2p:robot:local:x", false, "", ""},
		{"did:a2p:agent::x", false, "", ""},
		{"did:a2p:agent:local:", false, "", ""},
		{"did:a2p:agent", false, "", ""},
		{"", false, "", ""},
	}
	for _, tc := range cases {
		got, err := ParseDID(tc.raw)
		if tc.ok && err != nil {
			t.Fatalf("ParseDID(%q): unexpected error %v", tc.raw, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("ParseDID(%q): expected error", tc.raw)
			}
			continue
		}
		if got.Type != tc.didType || got.LocalID != tc.local {
			t.Fatalf("ParseDID(%q): got %+v", tc.raw, got)
		}
	}
}

func TestMintDIDRoundTrip(t *testing.T) {
	raw := MintDID("user", "local", "bob")
	did, err := ParseDID(raw)
	if err != nil {
		t.Fatalf("ParseDID: %v", err)
	}
	if did.Namespace != "local" || did.LocalID != "bob" {
		t.Fatalf("round trip mismatch: %+v", did)
	}
}
