package models

import "time"

// Fixed preference keys.
const (
	PreferenceThemeMode     = "themeMode"
	PreferenceTermsAccepted = "termsAccepted"
)

// ThemeMode is the persisted appearance preference.
type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

// Preference is a persisted key/value pair owned by one identity (PostgreSQL)
type Preference struct {
	OwnerID   string    `json:"owner_id" gorm:"primaryKey;size:128"`
	Key       string    `json:"key" gorm:"primaryKey;size:64"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Preferences is the decoded view of an owner's preference rows.
type Preferences struct {
	ThemeMode     ThemeMode `json:"theme_mode"`
	TermsAccepted bool      `json:"terms_accepted"`
}

// UpdateThemeRequest defines the request body for changing the theme
type UpdateThemeRequest struct {
	Mode ThemeMode `json:"mode" validate:"required,oneof=light dark system"`
}

// WallFilter selects which posts the moments wall shows.
type WallFilter string

const (
	WallNews    WallFilter = "news"
	WallFriends WallFilter = "friends"
	WallMine    WallFilter = "mine"
)

// Valid reports whether f is a known filter.
func (f WallFilter) Valid() bool {
	return f == WallNews || f == WallFriends || f == WallMine
}

// WallFilterRequest defines the request body for switching the wall filter
type WallFilterRequest struct {
	Filter WallFilter `json:"filter" validate:"required,oneof=news friends mine"`
}
