package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/karuteens/moderation/internal/http/handlers/common"
	"github.com/karuteens/moderation/internal/http/middleware"
	"github.com/karuteens/moderation/internal/logger"
	"github.com/karuteens/moderation/internal/pkg/apperror"
	"github.com/karuteens/moderation/internal/service"
	"github.com/karuteens/moderation/internal/ws"
)

// FeedHandler отдаёт модераторам поток новых автофлагов по WebSocket.
type FeedHandler struct {
	hub      *ws.Hub
	tokens   middleware.TokenParser
	policy   service.AuthorizationPolicy
	upgrader websocket.Upgrader
}

// NewFeedHandler создаёт новый хэндлер.
func NewFeedHandler(hub *ws.Hub, tokens middleware.TokenParser, policy service.AuthorizationPolicy, origins []string) *FeedHandler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return &FeedHandler{
		hub:    hub,
		tokens: tokens,
		policy: policy,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(allowed) == 0 {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Handle обслуживает GET /api/moderation/feed?token=...
// Браузер не умеет передавать заголовок Authorization при апгрейде, поэтому токен в query.
func (h *FeedHandler) Handle(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		common.RespondError(c, apperror.ErrUnauthorized)
		return
	}

	id, err := h.tokens.ParseAccess(rawToken)
	if err != nil || !id.Authenticated() {
		common.RespondError(c, apperror.New(apperror.ErrCodeUnauthorized, "невалидный access токен"))
		return
	}
	if !h.policy.IsAdmin(id) {
		common.RespondError(c, apperror.ErrForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту.
		logger.Log.WithError(err).Warn("feed: не удалось установить websocket соединение")
		return
	}

	ws.NewClient(conn, h.hub, id.UserID).Run()
}
