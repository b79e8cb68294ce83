package models

import "time"

// Comment represents a comment on a post
type Comment struct {
	ID           string      `json:"id"`
	PostID       string      `json:"post_id"`
	UserID       string      `json:"user_id"`
	User         UserCompact `json:"user"`
	Content      string      `json:"content"`
	CreatedAt    time.Time   `json:"created_at"`
	QualityScore int         `json:"quality_score"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
