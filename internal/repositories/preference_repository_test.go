package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/moments/backend/internal/models"
)

func TestDecodePreferences(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		prefs := DecodePreferences(nil)
		assert.Equal(t, models.ThemeSystem, prefs.ThemeMode)
		assert.False(t, prefs.TermsAccepted)
	})

	t.Run("known keys", func(t *testing.T) {
		prefs := DecodePreferences([]models.Preference{
			{Key: models.PreferenceThemeMode, Value: "dark"},
			{Key: models.PreferenceTermsAccepted, Value: "true"},
			{Key: "other", Value: "x"},
		})
		assert.Equal(t, models.ThemeDark, prefs.ThemeMode)
		assert.True(t, prefs.TermsAccepted)
	})

	t.Run("garbage values", func(t *testing.T) {
		prefs := DecodePreferences([]models.Preference{
			{Key: models.PreferenceThemeMode, Value: "neon"},
			{Key: models.PreferenceTermsAccepted, Value: "maybe"},
		})
		assert.Equal(t, models.ThemeSystem, prefs.ThemeMode)
		assert.False(t, prefs.TermsAccepted)
	})
}

func TestMemoryPreferenceRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPreferenceRepository()

	require.NoError(t, repo.SetPreference(ctx, "owner-a", models.PreferenceThemeMode, "light"))
	require.NoError(t, repo.SetPreference(ctx, "owner-a", models.PreferenceThemeMode, "dark"))
	require.NoError(t, repo.SetPreference(ctx, "owner-a", models.PreferenceTermsAccepted, "true"))

	prefs, err := repo.GetPreferences(ctx, "owner-a")
	require.NoError(t, err)
	assert.Equal(t, models.Preferences{ThemeMode: models.ThemeDark, TermsAccepted: true}, prefs)

	other, err := repo.GetPreferences(ctx, "owner-b")
	require.NoError(t, err)
	assert.Equal(t, models.ThemeSystem, other.ThemeMode)
}
