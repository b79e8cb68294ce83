package models

import "time"

// FriendRequestStatus is pending until accepted or rejected; both are terminal.
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// FriendRequest represents a friend request between two users
type FriendRequest struct {
	ID         string              `json:"id"`
	FromUserID string              `json:"from_user_id"`
	FromUser   UserCompact         `json:"from_user"`
	ToUserID   string              `json:"to_user_id"`
	CreatedAt  time.Time           `json:"created_at"`
	Status     FriendRequestStatus `json:"status"`
}

// CreateFriendRequest defines the request body for sending a friend request
type CreateFriendRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// UpdateFriendRequest defines the request body for accepting/rejecting a friend request
type UpdateFriendRequest struct {
	Status FriendRequestStatus `json:"status" validate:"required,oneof=accepted rejected"`
}
