package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/yungbote/a2p-backend/internal/pkg/errors"
	"github.com/yungbote/a2p-backend/internal/platform/apierr"
)

func respondServiceError(t *testing.T, err error) (int, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondServiceError(c, err)

	var env ErrorEnvelope
	if jsonErr := json.Unmarshal(rec.Body.Bytes(), &env); jsonErr != nil {
		t.Fatalf("decode envelope: %v", jsonErr)
	}
	return rec.Code, env
}

func TestRespondServiceErrorTypedStatus(t *testing.T) {
	err := apierr.New(http.StatusConflict, "EMAIL_IN_USE", errors.New("email already registered"))
	status, env := respondServiceError(t, err)
	if status != http.StatusConflict {
		t.Fatalf("status = %d, want %d", status, http.StatusConflict)
	}
	if env.Error.Code != "EMAIL_IN_USE" {
		t.Fatalf("code = %q, want EMAIL_IN_USE", env.Error.Code)
	}
}

func TestRespondServiceErrorSentinelMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("policies lapsed: %w", pkgerrors.ErrExpiredPolicy), http.StatusForbidden, "EXPIRED_POLICY"},
		{fmt.Errorf("no scope granted: %w", pkgerrors.ErrAccessDenied), http.StatusForbidden, "ACCESS_DENIED"},
		{fmt.Errorf("already resolved: %w", pkgerrors.ErrInvalidTransition), http.StatusConflict, "INVALID_TRANSITION"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, env := respondServiceError(t, tc.err)
		if status != tc.status || env.Error.Code != tc.code {
			t.Fatalf("%v: got %d %q, want %d %q", tc.err, status, env.Error.Code, tc.status, tc.code)
		}
	}
}
