package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/a2p-backend/internal/services"
)

type EntityHandler struct {
	entityService services.EntityService
}

func NewEntityHandler(entityService services.EntityService) *EntityHandler {
	return &EntityHandler{entityService: entityService}
}

func (eh *EntityHandler) Create(c *gin.Context) {
	var req services.EntityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	e, err := eh.entityService.CreateEntity(c.Request.Context(), req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, e)
}

func (eh *EntityHandler) Get(c *gin.Context) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	e, err := eh.entityService.GetEntity(c.Request.Context(), entityID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, e)
}

func (eh *EntityHandler) ListChildren(c *gin.Context) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	children, err := eh.entityService.ListChildren(c.Request.Context(), entityID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"children": children})
}

func (eh *EntityHandler) AttachRule(c *gin.Context) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	var req services.RuleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	rule, err := eh.entityService.AttachRule(c.Request.Context(), entityID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, rule)
}

func (eh *EntityHandler) ListRules(c *gin.Context) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	rules, err := eh.entityService.ListRules(c.Request.Context(), entityID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"rules": rules})
}

func (eh *EntityHandler) RemoveRule(c *gin.Context) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	ruleID, err := uuid.Parse(c.Param("ruleId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	if err := eh.entityService.RemoveRule(c.Request.Context(), entityID, ruleID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (eh *EntityHandler) EffectivePolicies(c *gin.Context) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	policies, err := eh.entityService.EffectivePolicies(c.Request.Context(), entityID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"effective_policies": policies})
}

func (eh *EntityHandler) ValidateChange(c *gin.Context) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	var req services.SettingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	result, err := eh.entityService.ValidateChange(c.Request.Context(), entityID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (eh *EntityHandler) ApplySetting(c *gin.Context) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	var req services.SettingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	setting, err := eh.entityService.ApplySetting(c.Request.Context(), entityID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, setting)
}

func (eh *EntityHandler) ListSettings(c *gin.Context) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	settings, err := eh.entityService.ListSettings(c.Request.Context(), entityID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"settings": settings})
}
