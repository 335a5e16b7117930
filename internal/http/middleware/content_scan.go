package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/karuteens/moderation/internal/logger"
	"github.com/karuteens/moderation/internal/moderation"
	"github.com/karuteens/moderation/internal/service"
)

// maxScanBody тело больше этого размера не сканируется, но запрос обрабатывается как обычно.
const maxScanBody = 1 << 20

// ScanRoute маршрут, создающий или изменяющий проверяемый контент.
// Path задаётся в формате gin FullPath, например "/api/posts/:id/comments".
type ScanRoute struct {
	Method string
	Path   string
	Kind   moderation.Kind
}

// DefaultScanRoutes маршруты профиля, публикаций и комментариев.
func DefaultScanRoutes() []ScanRoute {
	return []ScanRoute{
		{Method: http.MethodPut, Path: "/api/profile", Kind: moderation.KindUserProfile},
		{Method: http.MethodPost, Path: "/api/posts", Kind: moderation.KindPost},
		{Method: http.MethodPost, Path: "/api/posts/:id/comments", Kind: moderation.KindComment},
	}
}

// ScanQueue принимает задачи сканирования без блокировки.
type ScanQueue interface {
	Enqueue(req service.ScanRequest) bool
}

// ContentScan копирует тело запроса к известным маршрутам контента и после
// успешного ответа обработчика ставит проверку в фоновую очередь.
// Ответ клиенту никогда не ждёт сканирования и не зависит от его результата.
func ContentScan(queue ScanQueue, routes []ScanRoute) gin.HandlerFunc {
	table := make(map[string]moderation.Kind, len(routes))
	for _, r := range routes {
		table[r.Method+" "+r.Path] = r.Kind
	}

	return func(c *gin.Context) {
		kind, ok := table[c.Request.Method+" "+c.FullPath()]
		if !ok || c.Request.Body == nil {
			c.Next()
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxScanBody+1))
		if err != nil {
			logger.Log.WithError(err).Warn("content scan: не удалось прочитать тело запроса")
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
			c.Next()
			return
		}
		// Обработчик получает исходное тело целиком.
		c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), c.Request.Body))

		c.Next()

		// Ошибка через c.Error ещё не записана в ответ, статус пока 200.
		status := c.Writer.Status()
		if len(c.Errors) > 0 || status < 200 || status >= 300 || len(body) > maxScanBody {
			return
		}

		contentID := resolveContentID(c, kind)
		if contentID == "" {
			logger.Log.WithField("path", c.FullPath()).Debug("content scan: id контента не определён")
			return
		}

		queue.Enqueue(service.ScanRequest{
			Kind:      kind,
			ContentID: contentID,
			Payload:   json.RawMessage(body),
		})
	}
}

// resolveContentID берёт id, сохранённый обработчиком, а для профиля id текущего пользователя.
func resolveContentID(c *gin.Context, kind moderation.Kind) string {
	if raw, ok := c.Get(ContextContentIDKey); ok {
		switch v := raw.(type) {
		case string:
			return v
		case uuid.UUID:
			return v.String()
		}
	}
	if kind == moderation.KindUserProfile {
		if id, ok := CurrentIdentity(c); ok {
			return id.UserID.String()
		}
	}
	return ""
}
