package common

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/karuteens/moderation/internal/dto"
	"github.com/karuteens/moderation/internal/http/middleware"
	"github.com/karuteens/moderation/internal/pkg/apperror"
	"github.com/karuteens/moderation/internal/service"
)

// CurrentActor собирает инициатора операции из контекста: пользователь, IP и User-Agent.
// Для анонимного запроса Identity пустая, сервис вернёт Unauthorized.
func CurrentActor(c *gin.Context) service.Actor {
	id, _ := middleware.CurrentIdentity(c)
	return service.Actor{
		Identity:  id,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// ParseUUIDParam возвращает UUID из пути, разобранный UUIDValidator или напрямую.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	if id, ok := middleware.ParamID(c); ok {
		return id, nil
	}
	parsed, err := uuid.Parse(c.Param(paramName))
	if err != nil {
		return uuid.Nil, apperror.Validation("параметр " + paramName + " должен быть валидным UUID")
	}
	return parsed, nil
}

// BindJSON разбирает тело запроса, ошибка превращается в ValidationError.
func BindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "ошибка валидации запроса: "+err.Error())
	}
	return nil
}

// RespondError отвечает ошибкой. AppError отдаётся со своим статусом и сообщением,
// остальные ошибки передаются в ErrorHandler и маскируются.
func RespondError(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok && appErr.HTTPStatus < http.StatusInternalServerError {
		c.JSON(appErr.HTTPStatus, dto.ErrorResponse{Error: appErr.Message, Code: string(appErr.Code)})
		return
	}
	_ = c.Error(err)
}

// RespondJSON sends a JSON response with the given status code and data
func RespondJSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// RespondList отдаёт страницу списка.
func RespondList(c *gin.Context, data interface{}, limit, offset int) {
	c.JSON(http.StatusOK, dto.ListResponse{Data: data, Limit: limit, Offset: offset})
}

// ParseIntQuery safely reads an integer query parameter with a fallback value
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// GetPagination extracts limit and offset from query parameters with defaults
func GetPagination(c *gin.Context) (limit, offset int) {
	limit = ParseIntQuery(c, "limit", 20)
	offset = ParseIntQuery(c, "offset", 0)
	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return
}
