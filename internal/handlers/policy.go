package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/a2p-backend/internal/services"
)

type PolicyHandler struct {
	consentService services.ConsentService
}

func NewPolicyHandler(consentService services.ConsentService) *PolicyHandler {
	return &PolicyHandler{consentService: consentService}
}

func (ph *PolicyHandler) Create(c *gin.Context) {
	var req services.PolicyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	p, err := ph.consentService.CreatePolicy(c.Request.Context(), req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, p)
}

func (ph *PolicyHandler) List(c *gin.Context) {
	policies, err := ph.consentService.ListPolicies(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"policies": policies})
}

func (ph *PolicyHandler) SetDisabled(c *gin.Context) {
	policyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	var req struct {
		Disabled bool `json:"disabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	if err := ph.consentService.SetPolicyDisabled(c.Request.Context(), policyID, req.Disabled); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (ph *PolicyHandler) Delete(c *gin.Context) {
	policyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	if err := ph.consentService.DeletePolicy(c.Request.Context(), policyID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (ph *PolicyHandler) ListReceipts(c *gin.Context) {
	receipts, err := ph.consentService.ListReceipts(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"receipts": receipts})
}

func (ph *PolicyHandler) RevokeReceipt(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	r, err := ph.consentService.RevokeReceipt(c.Request.Context(), receiptID, req.Reason)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, r)
}
