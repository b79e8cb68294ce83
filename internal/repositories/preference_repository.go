package repositories

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/anonto42/moments/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository defines the interface for persisted viewer preferences
type PreferenceRepository interface {
	GetPreferences(ctx context.Context, ownerID string) (models.Preferences, error)
	SetPreference(ctx context.Context, ownerID, key, value string) error
}

// DecodePreferences folds key/value rows into Preferences. Unknown keys are
// ignored and a missing theme reads as system.
func DecodePreferences(rows []models.Preference) models.Preferences {
	prefs := models.Preferences{ThemeMode: models.ThemeSystem}
	for _, row := range rows {
		switch row.Key {
		case models.PreferenceThemeMode:
			switch m := models.ThemeMode(row.Value); m {
			case models.ThemeLight, models.ThemeDark, models.ThemeSystem:
				prefs.ThemeMode = m
			}
		case models.PreferenceTermsAccepted:
			prefs.TermsAccepted, _ = strconv.ParseBool(row.Value)
		}
	}
	return prefs
}

// PostgresPreferenceRepository implements PreferenceRepository for PostgreSQL
type PostgresPreferenceRepository struct {
	db *gorm.DB
}

// NewPostgresPreferenceRepository creates a new PostgresPreferenceRepository
func NewPostgresPreferenceRepository(db *gorm.DB) *PostgresPreferenceRepository {
	return &PostgresPreferenceRepository{db: db}
}

// GetPreferences loads every preference row owned by ownerID
func (r *PostgresPreferenceRepository) GetPreferences(ctx context.Context, ownerID string) (models.Preferences, error) {
	var rows []models.Preference
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&rows).Error; err != nil {
		return models.Preferences{}, err
	}
	return DecodePreferences(rows), nil
}

// SetPreference upserts one preference row
func (r *PostgresPreferenceRepository) SetPreference(ctx context.Context, ownerID, key, value string) error {
	row := models.Preference{OwnerID: ownerID, Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

// MemoryPreferenceRepository keeps preferences for the process lifetime. It
// is used when no database is configured.
type MemoryPreferenceRepository struct {
	mu   sync.RWMutex
	rows map[string]map[string]string
}

func NewMemoryPreferenceRepository() *MemoryPreferenceRepository {
	return &MemoryPreferenceRepository{rows: make(map[string]map[string]string)}
}

func (r *MemoryPreferenceRepository) GetPreferences(_ context.Context, ownerID string) (models.Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var rows []models.Preference
	for k, v := range r.rows[ownerID] {
		rows = append(rows, models.Preference{OwnerID: ownerID, Key: k, Value: v})
	}
	return DecodePreferences(rows), nil
}

func (r *MemoryPreferenceRepository) SetPreference(_ context.Context, ownerID, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rows[ownerID] == nil {
		r.rows[ownerID] = make(map[string]string)
	}
	r.rows[ownerID][key] = value
	return nil
}
