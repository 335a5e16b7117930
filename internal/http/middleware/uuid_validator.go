package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/karuteens/moderation/internal/pkg/apperror"
)

// ContextParamIDKey разобранный UUID из параметра пути.
const ContextParamIDKey = "paramID"

// UUIDValidator проверяет, что параметр с указанным именем является валидным UUID,
// и кладёт разобранное значение в контекст под ContextParamIDKey.
// Использование: router.GET("/reports/:id", UUIDValidator("id"), handler.GetReport)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param(paramName))
		if err != nil {
			abortWith(c, apperror.Validation("параметр "+paramName+" должен быть валидным UUID"))
			return
		}
		c.Set(ContextParamIDKey, id)
		c.Next()
	}
}

// ParamID возвращает UUID, сохранённый UUIDValidator.
func ParamID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := c.Get(ContextParamIDKey)
	if !ok {
		return uuid.Nil, false
	}
	parsed, ok := id.(uuid.UUID)
	return parsed, ok
}
