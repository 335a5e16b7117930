package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karuteens/moderation/internal/http/handlers/common"
	"github.com/karuteens/moderation/internal/service"
)

type AppealHandler struct {
	queue ModerationQueue
}

func NewAppealHandler(queue ModerationQueue) *AppealHandler {
	return &AppealHandler{queue: queue}
}

// CreateAppeal POST /api/moderation/appeals
func (h *AppealHandler) CreateAppeal(c *gin.Context) {
	var req service.CreateAppealInput
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	appeal, err := h.queue.CreateAppeal(c.Request.Context(), common.CurrentActor(c), req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appeal)
}

// ListAppeals GET /api/moderation/appeals?status=
// Обычный пользователь видит только свои апелляции.
func (h *AppealHandler) ListAppeals(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	appeals, err := h.queue.ListAppeals(c.Request.Context(), common.CurrentActor(c), service.AppealQuery{
		Status: c.Query("status"),
	}, limit, offset)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondList(c, appeals, limit, offset)
}

// UpdateAppealStatus PUT /api/moderation/appeals/:id
func (h *AppealHandler) UpdateAppealStatus(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req service.StatusUpdateInput
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	appeal, err := h.queue.UpdateAppealStatus(c.Request.Context(), common.CurrentActor(c), id, req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appeal)
}
