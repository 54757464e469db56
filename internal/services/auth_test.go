package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/yungbote/a2p-backend/internal/data/repos"
	"github.com/yungbote/a2p-backend/internal/data/repos/testutil"
	"github.com/yungbote/a2p-backend/internal/platform/apierr"
)

func TestRegisterOwnerDuplicateEmail(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	profileRepo := repos.NewProfileRepo(tx, log)
	tokenRepo := repos.NewOwnerTokenRepo(tx, log)
	svc := NewAuthService(tx, log, profileRepo, tokenRepo, "test-secret", time.Hour, 24*time.Hour)

	if _, err := svc.RegisterOwner(ctx, "First Owner", "taken@example.com", "longenoughpw"); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.RegisterOwner(ctx, "Second Owner", "taken@example.com", "longenoughpw")
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected a typed api error, got %v", err)
	}
	if ae.Status != http.StatusConflict || ae.Code != "EMAIL_IN_USE" {
		t.Fatalf("status=%d code=%q, want 409 EMAIL_IN_USE", ae.Status, ae.Code)
	}
}
