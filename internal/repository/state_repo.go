package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lirunlin/qianbao/internal/model"
)

// snapshotKey matches the storage key of the original form tool so a
// value persisted by one build is a value the next build restores.
const snapshotKey = "activity_form_v23"

// StateRepository persists the full ActivityData value as one JSON
// snapshot row. Each save replaces the prior snapshot whole, so a lost
// write only loses the latest edit, never structure.
type StateRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStateRepository creates a new StateRepository
func NewStateRepository(db *sql.DB, logger *zap.Logger) *StateRepository {
	return &StateRepository{db: db, logger: logger}
}

// Save writes the snapshot, replacing any previous one.
func (r *StateRepository) Save(data *model.ActivityData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO form_state (key, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, snapshotKey, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load returns the persisted snapshot, or nil when none exists.
// A malformed payload is an error the caller decides about.
func (r *StateRepository) Load() (*model.ActivityData, error) {
	var payload string
	err := r.db.QueryRow(
		"SELECT payload FROM form_state WHERE key = ?", snapshotKey,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var data model.ActivityData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &data, nil
}

// LoadOrDefault restores the persisted snapshot. Absence or a parse
// failure falls back to the default template silently: logged, never
// surfaced to the user.
func (r *StateRepository) LoadOrDefault(now time.Time) *model.ActivityData {
	data, err := r.Load()
	if err != nil {
		r.logger.Warn("Persisted state unreadable, using default template", zap.Error(err))
		return model.DefaultActivityData(now)
	}
	if data == nil {
		r.logger.Info("No persisted state found, using default template")
		return model.DefaultActivityData(now)
	}
	return data
}

// Clear removes the persisted snapshot (explicit user reset).
func (r *StateRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM form_state WHERE key = ?", snapshotKey); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}
