package db

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tgienger/ask/internal/models"
)

// Profile returns the signed-in user's profile
func (db *DB) Profile(ctx context.Context) (models.Profile, error) {
	var p models.Profile
	err := db.QueryRowContext(ctx, `
		SELECT first_name, last_name, job, profile_image
		FROM profile WHERE id = 1
	`).Scan(&p.FirstName, &p.LastName, &p.Job, &p.ProfileImage)
	if err != nil {
		return models.Profile{}, errors.Wrap(err, "get profile")
	}
	return p, nil
}

// SaveProfile replaces the stored profile
func (db *DB) SaveProfile(ctx context.Context, p models.Profile) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO profile (id, first_name, last_name, job, profile_image) VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			job = excluded.job,
			profile_image = excluded.profile_image
	`, p.FirstName, p.LastName, p.Job, p.ProfileImage)
	return errors.Wrap(err, "save profile")
}
