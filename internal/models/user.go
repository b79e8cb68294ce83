package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// VerificationMethod is the document or link a viewer used to verify identity.
type VerificationMethod string

const (
	VerifiedByPassport      VerificationMethod = "passport"
	VerifiedByDriverLicense VerificationMethod = "driver_license"
	VerifiedBySocialLink    VerificationMethod = "social_link"
)

// User is the viewer owning a session. It is seeded at session start and
// mutated by every economy-affecting action.
type User struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Handle            string             `json:"handle"`
	Avatar            string             `json:"avatar"`
	Bio               string             `json:"bio,omitempty"`
	Points            int                `json:"points"`
	PostsToday        int                `json:"posts_today"`
	ActionsToday      int                `json:"actions_today"`
	CommentsToday     int                `json:"comments_today"`
	MaxPostsPerDay    int                `json:"max_posts_per_day"`
	MaxActionsPerDay  int                `json:"max_actions_per_day"`
	MaxCommentsPerDay int                `json:"max_comments_per_day"`
	IsVerified        bool               `json:"is_verified"`
	VerifiedBy        VerificationMethod `json:"verified_by,omitempty"`
	DeviceName        string             `json:"device_name"`
	Location          string             `json:"location"`
	NewsRegion        string             `json:"news_region"`
	NetworkType       string             `json:"network_type,omitempty"`
	BlockedUserIDs    []string           `json:"blocked_user_ids"`
	Interests         map[string]int     `json:"interests"`
	LastLogin         *time.Time         `json:"last_login,omitempty"`
}

// UserCompact is the author snapshot embedded in posts and comments.
type UserCompact struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Handle     string `json:"handle"`
	Avatar     string `json:"avatar"`
	IsVerified bool   `json:"is_verified"`
}

// ToCompact returns the author snapshot of u.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:         u.ID,
		Name:       u.Name,
		Handle:     u.Handle,
		Avatar:     u.Avatar,
		IsVerified: u.IsVerified,
	}
}

// HasBlocked reports whether userID is in the viewer's blocked set.
func (u *User) HasBlocked(userID string) bool {
	for _, id := range u.BlockedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Block adds userID to the blocked set. It returns false when the id was
// already present.
func (u *User) Block(userID string) bool {
	if u.HasBlocked(userID) {
		return false
	}
	u.BlockedUserIDs = append(u.BlockedUserIDs, userID)
	return true
}

// Clone returns a deep copy safe to hand out of the session lock.
func (u User) Clone() User {
	out := u
	out.BlockedUserIDs = append([]string(nil), u.BlockedUserIDs...)
	if u.Interests != nil {
		out.Interests = make(map[string]int, len(u.Interests))
		for k, v := range u.Interests {
			out.Interests[k] = v
		}
	}
	if u.LastLogin != nil {
		t := *u.LastLogin
		out.LastLogin = &t
	}
	return out
}

// UpdateUserRequest is a partial profile update. Empty fields are left as-is.
type UpdateUserRequest struct {
	Name       string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Handle     string `json:"handle,omitempty" validate:"omitempty,startswith=@,min=2,max=30"`
	Bio        string `json:"bio,omitempty" validate:"omitempty,max=160"`
	Avatar     string `json:"avatar,omitempty" validate:"omitempty,url"`
	NewsRegion string `json:"news_region,omitempty" validate:"omitempty,oneof=Global US UK CN JP EU"`
}

// VerifyIdentityRequest starts a simulated identity verification.
type VerifyIdentityRequest struct {
	Method VerificationMethod `json:"method" validate:"required,oneof=passport driver_license social_link"`
}

// ReferralRequest credits the viewer for joining through a referral.
type ReferralRequest struct {
	ReferrerID string `json:"referrer_id" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	SessionID string `json:"sid"`
	UserID    string `json:"user_id"`
	jwt.RegisteredClaims
}

// LoginResponse is returned when a session starts.
type LoginResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}
