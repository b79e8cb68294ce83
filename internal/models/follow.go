package models

// Contact is the viewer's relation to another identity or group. Note
// overrides the display name without touching the underlying identity.
type Contact struct {
	UserID       string `json:"user_id"`
	OriginalName string `json:"original_name"`
	Handle       string `json:"handle"`
	Avatar       string `json:"avatar"`
	Note         string `json:"note,omitempty"`
	IsVerified   bool   `json:"is_verified"`
	IsGroup      bool   `json:"is_group,omitempty"`
}

// DisplayName returns the note when set, otherwise the original name.
func (c Contact) DisplayName() string {
	if c.Note != "" {
		return c.Note
	}
	return c.OriginalName
}

// FollowRequest defines the request body for following a user
type FollowRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	Name       string `json:"name" validate:"required,min=1,max=50"`
	Handle     string `json:"handle" validate:"omitempty,max=30"`
	Avatar     string `json:"avatar" validate:"omitempty,max=2048"`
	IsVerified bool   `json:"is_verified"`
}

// UpdateContactNoteRequest sets or clears a contact's display-name override
type UpdateContactNoteRequest struct {
	Note string `json:"note" validate:"max=50"`
}
