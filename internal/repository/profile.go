package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/passgen/passgen-go/internal/model"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository persists named derivation settings per user.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, user_id, name, settings, created_at, updated_at`

// Upsert inserts the profile or replaces the settings of an existing one with the same name.
func (r *ProfileRepository) Upsert(ctx context.Context, p *model.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, name, settings) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE settings = VALUES(settings)`,
		p.UserID, p.Name, p.Settings)
	return err
}

// Get retrieves a profile by owner and name.
func (r *ProfileRepository) Get(ctx context.Context, userID int64, name string) (*model.Profile, error) {
	p := &model.Profile{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = ? AND name = ?`, userID, name,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.Settings, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// List retrieves all profiles of a user ordered by name.
func (r *ProfileRepository) List(ctx context.Context, userID int64) ([]model.Profile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Settings, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Delete removes a profile.
func (r *ProfileRepository) Delete(ctx context.Context, userID int64, name string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM profiles WHERE user_id = ? AND name = ?`, userID, name)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProfileNotFound
	}
	return nil
}
