package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/karuteens/moderation/internal/models"
)

var (
	// ErrPostNotFound возвращается, когда публикация не найдена.
	ErrPostNotFound = errors.New("post not found")
	// ErrUsernameTaken возвращается при нарушении уникальности username.
	ErrUsernameTaken = errors.New("username already taken")
)

const uniqueViolation = "23505"

// ContentRepository хранит профили, публикации и комментарии, которые проверяет сканер.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository создаёт экземпляр репозитория.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// UpsertProfile создаёт или обновляет профиль пользователя.
func (r *ContentRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, username, full_name, bio, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
		    full_name = EXCLUDED.full_name,
		    bio = EXCLUDED.bio,
		    avatar_url = EXCLUDED.avatar_url,
		    updated_at = NOW()
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		profile.UserID, profile.Username, profile.FullName, profile.Bio, profile.AvatarURL,
	).Scan(&profile.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrUsernameTaken
		}
		return fmt.Errorf("content repository: upsert profile %w", err)
	}
	return nil
}

// CreatePost сохраняет публикацию.
func (r *ContentRepository) CreatePost(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (author_id, content, image_url, video_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		post.AuthorID, post.Content, post.ImageURL, post.VideoURL,
	).Scan(&post.ID, &post.CreatedAt); err != nil {
		return fmt.Errorf("content repository: create post %w", err)
	}
	return nil
}

// GetPost возвращает публикацию по идентификатору.
func (r *ContentRepository) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := r.db.GetContext(ctx, &post, `SELECT * FROM posts WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("content repository: get post %w", err)
	}
	return &post, nil
}

// CreateComment сохраняет комментарий к существующей публикации.
func (r *ContentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (post_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		comment.PostID, comment.AuthorID, comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt); err != nil {
		return fmt.Errorf("content repository: create comment %w", err)
	}
	return nil
}
