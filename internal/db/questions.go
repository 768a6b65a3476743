package db

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/tgienger/ask/internal/models"
)

// Submit stores the payload as a new question
func (db *DB) Submit(ctx context.Context, payload models.Payload) error {
	_, err := db.CreateQuestion(ctx, payload)
	return err
}

// CreateQuestion stores a payload with its themes and tags in one transaction
func (db *DB) CreateQuestion(ctx context.Context, payload models.Payload) (*models.Question, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin question insert")
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO questions (question, teaser) VALUES (?, ?)
	`, payload.Question, payload.Teaser)
	if err != nil {
		return nil, errors.Wrap(err, "insert question")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "insert question")
	}

	for _, themeID := range payload.SelectedThemes {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO question_themes (question_id, theme_id) VALUES (?, ?)
		`, id, themeID); err != nil {
			return nil, errors.Wrapf(err, "attach theme %d", themeID)
		}
	}

	for i, tag := range payload.Tags {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO question_tags (question_id, position, value) VALUES (?, ?, ?)
		`, id, i, tag); err != nil {
			return nil, errors.Wrapf(err, "attach tag %q", tag)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit question")
	}
	return db.GetQuestion(ctx, id)
}

// GetQuestion retrieves a question by ID with its themes and tags
func (db *DB) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	q := &models.Question{}
	err := db.QueryRowContext(ctx, `
		SELECT id, question, teaser, created_at
		FROM questions WHERE id = ?
	`, id).Scan(&q.ID, &q.Question, &q.Teaser, &q.CreatedAt)
	if err != nil {
		return nil, errors.Wrapf(err, "get question %d", id)
	}

	if err := db.loadQuestionDetails(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// RecentQuestions returns up to limit questions, newest first
func (db *DB) RecentQuestions(ctx context.Context, limit int) ([]models.Question, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, question, teaser, created_at
		FROM questions
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list questions")
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Question, &q.Teaser, &q.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan question")
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list questions")
	}

	// Load themes and tags for each question
	for i := range questions {
		if err := db.loadQuestionDetails(ctx, &questions[i]); err != nil {
			return nil, err
		}
	}
	return questions, nil
}

// loadQuestionDetails fills in themes and tags. Theme IDs no longer in the
// catalog are kept with an empty title.
func (db *DB) loadQuestionDetails(ctx context.Context, q *models.Question) error {
	rows, err := db.QueryContext(ctx, `
		SELECT qt.theme_id, COALESCE(t.title, ''), COALESCE(t.image_ref, '')
		FROM question_themes qt
		LEFT JOIN themes t ON t.id = qt.theme_id
		WHERE qt.question_id = ?
		ORDER BY qt.theme_id
	`, q.ID)
	if err != nil {
		return errors.Wrapf(err, "load themes of question %d", q.ID)
	}
	q.Themes = []models.Theme{}
	for rows.Next() {
		var t models.Theme
		if err := rows.Scan(&t.ID, &t.Title, &t.ImageRef); err != nil {
			rows.Close()
			return errors.Wrap(err, "scan question theme")
		}
		q.Themes = append(q.Themes, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return errors.Wrapf(err, "load themes of question %d", q.ID)
	}

	q.Tags, err = db.questionTags(ctx, q.ID)
	return err
}

func (db *DB) questionTags(ctx context.Context, questionID int64) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT value FROM question_tags
		WHERE question_id = ?
		ORDER BY position
	`, questionID)
	if err != nil {
		return nil, errors.Wrapf(err, "load tags of question %d", questionID)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, errors.Wrap(err, "scan question tag")
		}
		tags = append(tags, tag)
	}
	return tags, errors.Wrap(rows.Err(), "load tags")
}

// DeleteQuestion deletes a question with its themes and tags
func (db *DB) DeleteQuestion(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, "DELETE FROM questions WHERE id = ?", id)
	if err != nil {
		return errors.Wrapf(err, "delete question %d", id)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.WithStack(sql.ErrNoRows)
	}
	return nil
}
