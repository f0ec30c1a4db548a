package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/mhasan/feedbackform/internal/apperror"
	"github.com/mhasan/feedbackform/internal/model"
	"github.com/mhasan/feedbackform/internal/repository"
)

// Compile-time check that *DB implements the repository interface.
var _ repository.FormRepository = (*DB)(nil)

// CreateForm inserts a form and all of its questions in one transaction.
// The caller's structs are updated in place with generated IDs, linkage,
// and timestamps. A failure on any insert rolls back the whole batch.
func (db *DB) CreateForm(ctx context.Context, form *model.Form, questions []model.Question) error {
	form.ID = xid.New().String()
	form.CreatedAt = time.Now().UTC()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO forms (id, title, description, created_at)
			 VALUES (?, ?, ?, ?)`,
			form.ID, form.Title, form.Description, form.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite: creating form: %w", err)
		}

		for i := range questions {
			q := &questions[i]
			q.ID = xid.New().String()
			q.FormID = form.ID

			// Options only carry meaning for multiple_choice; store
			// NULL for every other type.
			var options sql.NullString
			if q.Type == model.TypeMultipleChoice && q.Options != "" {
				options = sql.NullString{String: q.Options, Valid: true}
			}

			_, err := tx.ExecContext(ctx,
				`INSERT INTO questions (id, form_id, question_text, question_type, options, is_required, sort_order)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				q.ID, q.FormID, q.Text, q.Type, options, q.IsRequired, q.SortOrder,
			)
			if err != nil {
				return fmt.Errorf("sqlite: creating question %d: %w", q.SortOrder, err)
			}
		}
		return nil
	})
}

// GetForm retrieves a single form by ID.
func (db *DB) GetForm(ctx context.Context, id string) (*model.Form, error) {
	var form model.Form
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, description, created_at
		 FROM forms
		 WHERE id = ?`,
		id,
	).Scan(&form.ID, &form.Title, &form.Description, &form.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("form", id)
		}
		return nil, fmt.Errorf("sqlite: getting form %s: %w", id, err)
	}
	return &form, nil
}

// ListForms returns all forms, newest first. No pagination: the app is
// built for a handful of forms, not thousands.
func (db *DB) ListForms(ctx context.Context) ([]model.Form, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, description, created_at
		 FROM forms
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing forms: %w", err)
	}
	defer rows.Close()

	forms := []model.Form{}
	for rows.Next() {
		var form model.Form
		if err := rows.Scan(&form.ID, &form.Title, &form.Description, &form.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning form: %w", err)
		}
		forms = append(forms, form)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating forms: %w", err)
	}
	return forms, nil
}

// ListQuestions returns a form's questions ordered by sort_order.
func (db *DB) ListQuestions(ctx context.Context, formID string) ([]model.Question, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, form_id, question_text, question_type, options, is_required, sort_order
		 FROM questions
		 WHERE form_id = ?
		 ORDER BY sort_order`,
		formID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing questions for form %s: %w", formID, err)
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var q model.Question
		var options sql.NullString
		if err := rows.Scan(&q.ID, &q.FormID, &q.Text, &q.Type, &options, &q.IsRequired, &q.SortOrder); err != nil {
			return nil, fmt.Errorf("sqlite: scanning question: %w", err)
		}
		q.Options = options.String
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating questions: %w", err)
	}
	return questions, nil
}

// DeleteForm removes a form. Questions, responses, and answers are removed
// by the ON DELETE CASCADE foreign keys.
func (db *DB) DeleteForm(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM forms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting form %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete result: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("form", id)
	}
	return nil
}
