package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karuteens/moderation/internal/http/handlers/common"
	"github.com/karuteens/moderation/internal/service"
)

type ReportHandler struct {
	queue ModerationQueue
}

func NewReportHandler(queue ModerationQueue) *ReportHandler {
	return &ReportHandler{queue: queue}
}

// CreateReport POST /api/reports
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req service.CreateReportInput
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	report, err := h.queue.CreateReport(c.Request.Context(), common.CurrentActor(c), req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// ListReports GET /api/moderation/reports?status=&report_type=
func (h *ReportHandler) ListReports(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	reports, err := h.queue.ListReports(c.Request.Context(), common.CurrentActor(c), service.ReportQuery{
		Status:     c.Query("status"),
		ReportType: c.Query("report_type"),
	}, limit, offset)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondList(c, reports, limit, offset)
}

// GetReport GET /api/moderation/reports/:id
func (h *ReportHandler) GetReport(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	report, err := h.queue.GetReport(c.Request.Context(), common.CurrentActor(c), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// UpdateReportStatus PUT /api/moderation/reports/:id
func (h *ReportHandler) UpdateReportStatus(c *gin.Context) {
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

	report, err := h.queue.UpdateReportStatus(c.Request.Context(), common.CurrentActor(c), id, req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
