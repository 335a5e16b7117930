package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/karuteens/moderation/internal/pkg/apperror"
	"github.com/karuteens/moderation/internal/service"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey = "userID"
	ContextEmailKey  = "email"
	// ContextContentIDKey обработчик кладёт сюда id созданного контента для сканера.
	ContextContentIDKey = "contentID"
)

// TokenParser проверяет access-токен.
type TokenParser interface {
	ParseAccess(token string) (service.Identity, error)
}

// AuthMiddleware проверяет JWT access токен из заголовка Authorization.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		id, err := tokens.ParseAccess(strings.TrimPrefix(auth, "Bearer "))
		if err != nil || id.UserID == uuid.Nil {
			abortWith(c, apperror.New(apperror.ErrCodeUnauthorized, "токен невалиден"))
			return
		}

		SetIdentity(c, id)
		c.Next()
	}
}

// AdminOnly пропускает только модераторов. Ставится после AuthMiddleware.
// Причина отказа клиенту не сообщается.
func AdminOnly(policy service.AuthorizationPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}
		if !policy.IsAdmin(id) {
			abortWith(c, apperror.ErrForbidden)
			return
		}
		c.Next()
	}
}

// SetIdentity сохраняет пользователя в контексте запроса.
func SetIdentity(c *gin.Context, id service.Identity) {
	c.Set(ContextUserIDKey, id.UserID)
	c.Set(ContextEmailKey, id.Email)
}

// CurrentIdentity возвращает пользователя, установленного AuthMiddleware.
func CurrentIdentity(c *gin.Context) (service.Identity, bool) {
	raw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return service.Identity{}, false
	}
	userID, ok := raw.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return service.Identity{}, false
	}
	return service.Identity{UserID: userID, Email: c.GetString(ContextEmailKey)}, true
}

func abortWith(c *gin.Context, err *apperror.AppError) {
	status := err.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Message, "code": err.Code})
}
