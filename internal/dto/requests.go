package dto

import "encoding/json"

// ScanRequest represents the request to scan arbitrary content.
// Content is a JSON string for content_type=text and an object otherwise.
type ScanRequest struct {
	ContentType string          `json:"content_type" binding:"required"`
	ContentID   string          `json:"content_id"`
	Content     json.RawMessage `json:"content" binding:"required"`
}

// UpdateProfileRequest represents the request to update the current user's profile
type UpdateProfileRequest struct {
	Username  string  `json:"username" binding:"required"`
	FullName  *string `json:"full_name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

// CreatePostRequest represents the request to publish a post
type CreatePostRequest struct {
	Content  string  `json:"content" binding:"required"`
	ImageURL *string `json:"image_url"`
	VideoURL *string `json:"video_url"`
}

// CreateCommentRequest represents the request to comment on a post
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}
