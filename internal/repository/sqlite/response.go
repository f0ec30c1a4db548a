package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/mhasan/feedbackform/internal/model"
	"github.com/mhasan/feedbackform/internal/repository"
)

var _ repository.ResponseRepository = (*DB)(nil)

// CreateResponse inserts the response row and one answer row per recorded
// value, all in one transaction. Any failure leaves no partial rows
// behind. Name and email columns are NULL for anonymous responses so the
// database never carries identity the respondent withheld.
func (db *DB) CreateResponse(ctx context.Context, response *model.Response, answers []model.Answer) error {
	response.ID = xid.New().String()
	response.SubmittedAt = time.Now().UTC()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		var name, email sql.NullString
		if !response.IsAnonymous {
			name = sql.NullString{String: response.Name, Valid: true}
			email = sql.NullString{String: response.Email, Valid: true}
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO responses (id, form_id, submitted_at, is_anonymous, respondent_name, respondent_email)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			response.ID, response.FormID, response.SubmittedAt, response.IsAnonymous, name, email,
		)
		if err != nil {
			return fmt.Errorf("sqlite: creating response: %w", err)
		}

		for i := range answers {
			a := &answers[i]
			a.ID = xid.New().String()
			a.ResponseID = response.ID

			// Split the tagged variant across the two nullable columns.
			var text sql.NullString
			var rating sql.NullInt64
			if v, ok := a.Value.Text(); ok {
				text = sql.NullString{String: v, Valid: true}
			}
			if v, ok := a.Value.Rating(); ok {
				rating = sql.NullInt64{Int64: int64(v), Valid: true}
			}

			_, err := tx.ExecContext(ctx,
				`INSERT INTO answers (id, response_id, question_id, answer_text, rating_value)
				 VALUES (?, ?, ?, ?, ?)`,
				a.ID, a.ResponseID, a.QuestionID, text, rating,
			)
			if err != nil {
				return fmt.Errorf("sqlite: creating answer for question %s: %w", a.QuestionID, err)
			}
		}
		return nil
	})
}

// CountResponses returns the number of responses submitted for a form.
func (db *DB) CountResponses(ctx context.Context, formID string) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM responses WHERE form_id = ?`,
		formID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting responses for form %s: %w", formID, err)
	}
	return count, nil
}
