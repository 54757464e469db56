package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/a2p-backend/internal/services"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (ph *ProfileHandler) GetMe(c *gin.Context) {
	p, err := ph.profileService.GetMe(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, p)
}

func (ph *ProfileHandler) UpdateDisplayName(c *gin.Context) {
	var req struct {
		DisplayName string `json:"display_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	p, err := ph.profileService.UpdateDisplayName(c.Request.Context(), req.DisplayName)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, p)
}

func (ph *ProfileHandler) DeleteMe(c *gin.Context) {
	if err := ph.profileService.DeleteMe(c.Request.Context()); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (ph *ProfileHandler) AddMemory(c *gin.Context) {
	var req services.MemoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	m, err := ph.profileService.AddMemory(c.Request.Context(), req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, m)
}

func (ph *ProfileHandler) ListMemories(c *gin.Context) {
	memories, err := ph.profileService.ListMemories(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"memories": memories})
}

func (ph *ProfileHandler) ConfirmMemory(c *gin.Context) {
	memoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	m, err := ph.profileService.ConfirmMemory(c.Request.Context(), memoryID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, m)
}

func (ph *ProfileHandler) ArchiveMemory(c *gin.Context) {
	memoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	if err := ph.profileService.ArchiveMemory(c.Request.Context(), memoryID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (ph *ProfileHandler) DeleteMemory(c *gin.Context) {
	memoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	if err := ph.profileService.DeleteMemory(c.Request.Context(), memoryID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
