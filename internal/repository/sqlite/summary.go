package sqlite

import (
	"context"
	"fmt"

	"github.com/mhasan/feedbackform/internal/repository"
)

var _ repository.SummaryRepository = (*DB)(nil)

// RatingsByQuestion returns every recorded rating for a question. Each
// summary query is its own independent scan over answers; the shared
// sql.DB pool reuses connections across them without any transaction
// boundary — summaries are plain reads.
func (db *DB) RatingsByQuestion(ctx context.Context, questionID string) ([]int, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT rating_value
		 FROM answers
		 WHERE question_id = ? AND rating_value IS NOT NULL`,
		questionID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading ratings for question %s: %w", questionID, err)
	}
	defer rows.Close()

	ratings := []int{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("sqlite: scanning rating: %w", err)
		}
		ratings = append(ratings, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating ratings: %w", err)
	}
	return ratings, nil
}

// TextsByQuestion returns every non-empty text answer for a question in
// insertion order. Used for both multiple_choice tallies and the raw
// text lists of short_text/long_text questions.
func (db *DB) TextsByQuestion(ctx context.Context, questionID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT answer_text
		 FROM answers
		 WHERE question_id = ? AND answer_text IS NOT NULL AND answer_text != ''`,
		questionID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading texts for question %s: %w", questionID, err)
	}
	defer rows.Close()

	texts := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("sqlite: scanning text answer: %w", err)
		}
		texts = append(texts, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating text answers: %w", err)
	}
	return texts, nil
}
