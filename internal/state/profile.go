package state

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/anonto42/moments/backend/internal/models"
)

// UpdateProfile applies the non-empty fields of req.
func (s *Store) UpdateProfile(req models.UpdateUserRequest) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("update_profile"); err != nil {
		return models.User{}, err
	}
	if req.Name != "" {
		s.user.Name = req.Name
	}
	if req.Handle != "" {
		s.user.Handle = req.Handle
	}
	if req.Bio != "" {
		s.user.Bio = req.Bio
	}
	if req.Avatar != "" {
		s.user.Avatar = req.Avatar
	}
	if req.NewsRegion != "" {
		s.user.NewsRegion = req.NewsRegion
		s.notifyLocked(models.SeveritySuccess, fmt.Sprintf("News region switched to %s", req.NewsRegion))
	} else {
		s.notifyLocked(models.SeveritySuccess, "Profile updated.")
	}
	return s.user.Clone(), nil
}

// VerifyIdentity starts a simulated verification that completes after the
// verification delay.
func (s *Store) VerifyIdentity(method models.VerificationMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("verify"); err != nil {
		return err
	}
	s.sched.After(s.verifyDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		s.user.IsVerified = true
		s.user.VerifiedBy = method
		s.notifyLocked(models.SeveritySuccess, "Identity Verified")
	})
	return nil
}

// Preferences returns the viewer's persisted preferences.
func (s *Store) Preferences() models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preferences
}

// SetTheme stores the theme preference. A failing preference store is
// logged; the session keeps the new value.
func (s *Store) SetTheme(ctx context.Context, mode models.ThemeMode) models.Preferences {
	s.mu.Lock()
	s.preferences.ThemeMode = mode
	prefs := s.preferences
	s.mu.Unlock()
	s.persist(ctx, models.PreferenceThemeMode, string(mode))
	return prefs
}

// AcceptTerms records that the viewer accepted the terms.
func (s *Store) AcceptTerms(ctx context.Context) models.Preferences {
	s.mu.Lock()
	s.preferences.TermsAccepted = true
	prefs := s.preferences
	s.mu.Unlock()
	s.persist(ctx, models.PreferenceTermsAccepted, strconv.FormatBool(true))
	return prefs
}

func (s *Store) persist(ctx context.Context, key, value string) {
	if err := s.prefs.SetPreference(ctx, s.ownerID, key, value); err != nil {
		s.logger.Warn("failed to persist preference", zap.String("key", key), zap.Error(err))
	}
}

// Trending returns the session's topics in rank order, restricted to
// category unless it is empty or "all".
func (s *Store) Trending(category string) []models.TrendingTopic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.TrendingTopic{}
	for _, t := range s.topics {
		if category == "" || category == models.TrendingAll || t.Category == category {
			out = append(out, t)
		}
	}
	return out
}
