package db

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tgienger/ask/internal/models"
)

// FetchAll returns the theme catalog ordered by title
func (db *DB) FetchAll(ctx context.Context) ([]models.Theme, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, title, image_ref FROM themes ORDER BY title")
	if err != nil {
		return nil, errors.Wrap(err, "list themes")
	}
	defer rows.Close()

	themes := []models.Theme{}
	for rows.Next() {
		var t models.Theme
		if err := rows.Scan(&t.ID, &t.Title, &t.ImageRef); err != nil {
			return nil, errors.Wrap(err, "scan theme")
		}
		themes = append(themes, t)
	}
	return themes, errors.Wrap(rows.Err(), "list themes")
}

// SaveTheme creates or replaces a catalog entry
func (db *DB) SaveTheme(ctx context.Context, t models.Theme) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO themes (id, title, image_ref) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, image_ref = excluded.image_ref
	`, t.ID, t.Title, t.ImageRef)
	return errors.Wrapf(err, "save theme %d", t.ID)
}

// DeleteTheme removes a catalog entry. Questions keep the theme ID.
func (db *DB) DeleteTheme(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx, "DELETE FROM themes WHERE id = ?", id)
	return errors.Wrapf(err, "delete theme %d", id)
}
