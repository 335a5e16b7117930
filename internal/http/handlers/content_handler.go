package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/karuteens/moderation/internal/dto"
	"github.com/karuteens/moderation/internal/http/handlers/common"
	"github.com/karuteens/moderation/internal/http/middleware"
	"github.com/karuteens/moderation/internal/models"
	"github.com/karuteens/moderation/internal/pkg/apperror"
	"github.com/karuteens/moderation/internal/repository"
	"github.com/karuteens/moderation/internal/validation"
)

// ContentStore хранилище пользовательского контента.
type ContentStore interface {
	UpsertProfile(ctx context.Context, profile *models.Profile) error
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
}

// ContentHandler маршруты профиля, публикаций и комментариев.
// Проверку контента выполняет middleware.ContentScan после успешного ответа.
type ContentHandler struct {
	store ContentStore
}

func NewContentHandler(store ContentStore) *ContentHandler {
	return &ContentHandler{store: store}
}

// UpdateProfile PUT /api/profile
func (h *ContentHandler) UpdateProfile(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		common.RespondError(c, apperror.ErrUnauthorized)
		return
	}

	var req dto.UpdateProfileRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := validation.ValidateProfile(req.Username, req.FullName, req.Bio, req.AvatarURL); err != nil {
		common.RespondError(c, apperror.Validation(err.Error()))
		return
	}

	profile := &models.Profile{
		UserID:    id.UserID,
		Username:  req.Username,
		FullName:  req.FullName,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	}
	if err := h.store.UpsertProfile(c.Request.Context(), profile); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			common.RespondError(c, apperror.Validation("имя пользователя уже занято"))
			return
		}
		common.RespondError(c, apperror.Persistence(err, "не удалось сохранить профиль"))
		return
	}

	c.JSON(http.StatusOK, profile)
}

// CreatePost POST /api/posts
func (h *ContentHandler) CreatePost(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		common.RespondError(c, apperror.ErrUnauthorized)
		return
	}

	var req dto.CreatePostRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	if err := validation.ValidatePost(req.Content, req.ImageURL, req.VideoURL); err != nil {
		common.RespondError(c, apperror.Validation(err.Error()))
		return
	}

	post := &models.Post{
		AuthorID: id.UserID,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		VideoURL: req.VideoURL,
	}
	if err := h.store.CreatePost(c.Request.Context(), post); err != nil {
		common.RespondError(c, apperror.Persistence(err, "не удалось создать публикацию"))
		return
	}

	c.Set(middleware.ContextContentIDKey, post.ID)
	c.JSON(http.StatusCreated, post)
}

// GetPost GET /api/posts/:id
func (h *ContentHandler) GetPost(c *gin.Context) {
	postID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	post, err := h.store.GetPost(c.Request.Context(), postID)
	if err != nil {
		common.RespondError(c, postError(err))
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreateComment POST /api/posts/:id/comments
func (h *ContentHandler) CreateComment(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		common.RespondError(c, apperror.ErrUnauthorized)
		return
	}

	postID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.CreateCommentRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	if err := validation.ValidateText("текст комментария", req.Content, validation.MaxCommentLength); err != nil {
		common.RespondError(c, apperror.Validation(err.Error()))
		return
	}

	if _, err := h.store.GetPost(c.Request.Context(), postID); err != nil {
		common.RespondError(c, postError(err))
		return
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: id.UserID,
		Content:  req.Content,
	}
	if err := h.store.CreateComment(c.Request.Context(), comment); err != nil {
		common.RespondError(c, apperror.Persistence(err, "не удалось создать комментарий"))
		return
	}

	c.Set(middleware.ContextContentIDKey, comment.ID)
	c.JSON(http.StatusCreated, comment)
}

func postError(err error) error {
	if errors.Is(err, repository.ErrPostNotFound) {
		return apperror.ErrContentNotFound
	}
	return apperror.Persistence(err, "не удалось получить публикацию")
}
