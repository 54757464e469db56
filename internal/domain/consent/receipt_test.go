package consent

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueReceiptInheritsPolicyExpiry(t *testing.T) {
	expiry := testNow.Add(24 * time.Hour)
	matched := policy("expiring", "agent:*", 0, 0, []string{"a2p:*"}, nil,
		[]PermissionLevel{PermissionReadScoped})
	matched.ExpiresAt = &expiry

	d := Evaluate([]ConsentPolicy{matched}, "agent:x", []string{"a2p:preferences.ui"}, nil, testNow)
	if !d.Granted {
		t.Fatal("expected grant")
	}

	r := IssueReceipt(uuid.New(), d, matched.ProfileID, "did:a2p:user:local:alice", "agent:x", "testing", &matched, testNow)
	if r.ExpiresAt == nil || !r.ExpiresAt.Equal(expiry) {
		t.Fatalf("receipt expiry: %v", r.ExpiresAt)
	}
	if !r.GrantedAt.Equal(testNow) {
		t.Fatalf("granted at: %v", r.GrantedAt)
	}
	if !ReceiptValid(r, testNow) {
		t.Fatal("fresh receipt should be valid")
	}
	if ReceiptValid(r, expiry) {
		t.Fatal("receipt at expiry instant is no longer valid")
	}

	noExpiry := IssueReceipt(uuid.New(), d, matched.ProfileID, "did:a2p:user:local:alice", "agent:x", "", nil, testNow)
	if noExpiry.ExpiresAt != nil {
		t.Fatal("receipt without matched policy expiry must not expire")
	}
}

func TestRevokeIdempotent(t *testing.T) {
	d := Decision{Granted: true, GrantedScopes: []string{"a2p:preferences.ui"}}
	r := IssueReceipt(uuid.New(), d, uuid.New(), "owner", "agent:x", "", nil, testNow)

	revoked := Revoke(r, "owner rotated agents", testNow.Add(time.Minute))
	if revoked.RevokedAt == nil || revoked.RevokedReason != "owner rotated agents" {
		t.Fatalf("revocation not recorded: %+v", revoked)
	}
	if ReceiptValid(revoked, testNow.Add(2*time.Minute)) {
		t.Fatal("revoked receipt must be invalid")
	}

	again := Revoke(revoked, "different reason", testNow.Add(time.Hour))
	if !again.RevokedAt.Equal(*revoked.RevokedAt) || again.RevokedReason != revoked.RevokedReason {
		t.Fatal("revoke must be idempotent")
	}
}
