package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karuteens/moderation/internal/http/handlers/common"
	"github.com/karuteens/moderation/internal/service"
)

type EnforcementHandler struct {
	queue ModerationQueue
}

func NewEnforcementHandler(queue ModerationQueue) *EnforcementHandler {
	return &EnforcementHandler{queue: queue}
}

// CreateAction POST /api/moderation/actions
func (h *EnforcementHandler) CreateAction(c *gin.Context) {
	var req service.CreateEnforcementActionInput
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	action, err := h.queue.CreateEnforcementAction(c.Request.Context(), common.CurrentActor(c), req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, action)
}

// ListActions GET /api/moderation/actions?action_type=&target_type=&target_id=
func (h *EnforcementHandler) ListActions(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	actions, err := h.queue.ListEnforcementActions(c.Request.Context(), common.CurrentActor(c), service.EnforcementQuery{
		ActionType: c.Query("action_type"),
		TargetType: c.Query("target_type"),
		TargetID:   c.Query("target_id"),
	}, limit, offset)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondList(c, actions, limit, offset)
}
