package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/yungbote/a2p-backend/internal/pkg/errors"
	"github.com/yungbote/a2p-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps service-layer sentinel errors onto the wire
// error codes. Anything unrecognized is a 500.
func RespondServiceError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		RespondError(c, ae.Status, ae.Code, err)
		return
	}
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", err)
	case errors.Is(err, pkgerrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "NOT_FOUND", err)
	case errors.Is(err, pkgerrors.ErrExpiredPolicy):
		RespondError(c, http.StatusForbidden, "EXPIRED_POLICY", err)
	case errors.Is(err, pkgerrors.ErrPermissionInsufficient):
		RespondError(c, http.StatusForbidden, "PERMISSION_INSUFFICIENT", err)
	case errors.Is(err, pkgerrors.ErrAccessDenied):
		RespondError(c, http.StatusForbidden, "ACCESS_DENIED", err)
	case errors.Is(err, pkgerrors.ErrInvalidTransition):
		RespondError(c, http.StatusConflict, "INVALID_TRANSITION", err)
	case errors.Is(err, pkgerrors.ErrPolicyConstraintViolated):
		RespondError(c, http.StatusUnprocessableEntity, "POLICY_CONSTRAINT_VIOLATED", err)
	default:
		RespondError(c, http.StatusInternalServerError, "INTERNAL", err)
	}
}
