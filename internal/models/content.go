package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile публичный профиль студента.
type Profile struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Username  string    `db:"username" json:"username"`
	FullName  *string   `db:"full_name" json:"full_name,omitempty"`
	Bio       *string   `db:"bio" json:"bio,omitempty"`
	AvatarURL *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Post публикация в ленте.
type Post struct {
	ID        uuid.UUID `db:"id" json:"id"`
	AuthorID  uuid.UUID `db:"author_id" json:"author_id"`
	Content   string    `db:"content" json:"content"`
	ImageURL  *string   `db:"image_url" json:"image_url,omitempty"`
	VideoURL  *string   `db:"video_url" json:"video_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Comment комментарий к публикации.
type Comment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PostID    uuid.UUID `db:"post_id" json:"post_id"`
	AuthorID  uuid.UUID `db:"author_id" json:"author_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
