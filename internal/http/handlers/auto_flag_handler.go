package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karuteens/moderation/internal/http/handlers/common"
	"github.com/karuteens/moderation/internal/models"
	"github.com/karuteens/moderation/internal/service"
)

// FlagSubmitter ручная отправка флага внешними сканерами.
type FlagSubmitter interface {
	SubmitFlagAs(ctx context.Context, actor service.Actor, input service.SubmitFlagInput) (*models.AutoFlag, error)
}

type AutoFlagHandler struct {
	queue ModerationQueue
	flags FlagSubmitter
}

func NewAutoFlagHandler(queue ModerationQueue, flags FlagSubmitter) *AutoFlagHandler {
	return &AutoFlagHandler{queue: queue, flags: flags}
}

// SubmitFlag POST /api/moderation/flags
func (h *AutoFlagHandler) SubmitFlag(c *gin.Context) {
	var req service.SubmitFlagInput
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	flag, err := h.flags.SubmitFlagAs(c.Request.Context(), common.CurrentActor(c), req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, flag)
}

// ListFlags GET /api/moderation/flags?status=&flag_type=
func (h *AutoFlagHandler) ListFlags(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	flags, err := h.queue.ListAutoFlags(c.Request.Context(), common.CurrentActor(c), service.AutoFlagQuery{
		Status:   c.Query("status"),
		FlagType: c.Query("flag_type"),
	}, limit, offset)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondList(c, flags, limit, offset)
}

// UpdateFlagStatus PUT /api/moderation/flags/:id
func (h *AutoFlagHandler) UpdateFlagStatus(c *gin.Context) {
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

	flag, err := h.queue.UpdateAutoFlagStatus(c.Request.Context(), common.CurrentActor(c), id, req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flag)
}

// PromoteFlag POST /api/moderation/flags/:id/promote
func (h *AutoFlagHandler) PromoteFlag(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req service.PromoteAutoFlagInput
	if c.Request.ContentLength != 0 {
		if err := common.BindJSON(c, &req); err != nil {
			common.RespondError(c, err)
			return
		}
	}

	report, err := h.queue.PromoteAutoFlag(c.Request.Context(), common.CurrentActor(c), id, req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}
