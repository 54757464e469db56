package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/a2p-backend/internal/services"
)

type AccessHandler struct {
	consentService services.ConsentService
}

func NewAccessHandler(consentService services.ConsentService) *AccessHandler {
	return &AccessHandler{consentService: consentService}
}

// Evaluate is the agent-facing access request: decide, record a receipt,
// and return the visible memories in one round trip.
func (ah *AccessHandler) Evaluate(c *gin.Context) {
	var req services.AccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	result, err := ah.consentService.EvaluateAccess(c.Request.Context(), req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

// ProfileView is the read-only variant keyed by profile DID. Scopes come
// from repeated "scope" query params; a receipt is recorded the same way
// as for Evaluate.
func (ah *AccessHandler) ProfileView(c *gin.Context) {
	req := services.AccessRequest{
		ProfileDID: c.Param("did"),
		Scopes:     c.QueryArray("scope"),
		Purpose:    c.Query("purpose"),
	}
	result, err := ah.consentService.EvaluateAccess(c.Request.Context(), req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}
