package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/a2p-backend/internal/services"
)

type ProposalHandler struct {
	proposalService services.ProposalService
}

func NewProposalHandler(proposalService services.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposalService: proposalService}
}

// Submit is the agent side: propose a new memory for the owner to review.
func (ph *ProposalHandler) Submit(c *gin.Context) {
	var req services.ProposalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	result, err := ph.proposalService.Propose(c.Request.Context(), req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (ph *ProposalHandler) Withdraw(c *gin.Context) {
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	p, err := ph.proposalService.Withdraw(c.Request.Context(), proposalID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, p)
}

func (ph *ProposalHandler) ListPending(c *gin.Context) {
	proposals, err := ph.proposalService.ListPending(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"proposals": proposals})
}

func (ph *ProposalHandler) ListAll(c *gin.Context) {
	proposals, err := ph.proposalService.ListAll(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"proposals": proposals})
}

func (ph *ProposalHandler) Approve(c *gin.Context) {
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	var req struct {
		EditedContent string `json:"edited_content,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	p, m, err := ph.proposalService.Approve(c.Request.Context(), proposalID, req.EditedContent)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"proposal": p, "memory": m})
}

func (ph *ProposalHandler) Reject(c *gin.Context) {
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	var req struct {
		Reason string `json:"reason,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	p, err := ph.proposalService.Reject(c.Request.Context(), proposalID, req.Reason)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, p)
}

func (ph *ProposalHandler) Cleanup(c *gin.Context) {
	var req struct {
		KeepDays int `json:"keep_days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	if req.KeepDays <= 0 {
		req.KeepDays = 30
	}
	removed, err := ph.proposalService.Cleanup(c.Request.Context(), req.KeepDays)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"removed": removed})
}
