package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karuteens/moderation/internal/dto"
	"github.com/karuteens/moderation/internal/http/handlers/common"
	"github.com/karuteens/moderation/internal/moderation"
	"github.com/karuteens/moderation/internal/service"
)

// ContentScanner синхронная проверка контента.
type ContentScanner interface {
	Scan(ctx context.Context, req service.ScanRequest) (moderation.ScanResult, error)
}

// ScanHandler обслуживает ручную проверку контента.
type ScanHandler struct {
	scanner   ContentScanner
	threshold float64
	flagTypes []string
}

func NewScanHandler(scanner ContentScanner, threshold float64, flagTypes []string) *ScanHandler {
	return &ScanHandler{scanner: scanner, threshold: threshold, flagTypes: flagTypes}
}

// Scan POST /api/moderation/scan
// Если передан content_id и контент помечен, флаг сохраняется; ошибка сохранения на ответ не влияет.
func (h *ScanHandler) Scan(c *gin.Context) {
	var req dto.ScanRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	result, err := h.scanner.Scan(c.Request.Context(), service.ScanRequest{
		Kind:      moderation.Kind(req.ContentType),
		ContentID: req.ContentID,
		Payload:   req.Content,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, dto.ScanResponse(result))
}

// Status GET /api/moderation/scan
func (h *ScanHandler) Status(c *gin.Context) {
	common.RespondJSON(c, http.StatusOK, dto.ScannerStatusResponse{
		Status:    "ok",
		Threshold: h.threshold,
		FlagTypes: h.flagTypes,
	})
}
