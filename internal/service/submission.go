package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mhasan/feedbackform/internal/model"
	"github.com/mhasan/feedbackform/internal/repository"
)

// maxErrorQuestionLen bounds how much of a question's text appears in a
// validation message.
const maxErrorQuestionLen = 50

// SubmissionInput carries one respondent's raw submission. Answers maps
// question ID to the raw submitted value; a missing key means the
// question was not answered at all.
type SubmissionInput struct {
	IsAnonymous bool
	Name        string
	Email       string
	Answers     map[string]string
}

// SubmissionService validates and persists respondent submissions.
type SubmissionService struct {
	forms     repository.FormRepository
	responses repository.ResponseRepository
	logger    *slog.Logger
}

func NewSubmissionService(forms repository.FormRepository, responses repository.ResponseRepository, logger *slog.Logger) *SubmissionService {
	return &SubmissionService{
		forms:     forms,
		responses: responses,
		logger:    logger,
	}
}

// Submit validates the input against the form's question set and, if every
// rule passes, persists one response plus one answer row per recorded
// value as a single transaction.
//
// Validation never short-circuits: every question is checked and every
// failure collected, so the respondent sees all problems at once. When
// the returned error slice is non-empty, nothing was written.
//
// A form that doesn't exist surfaces as an apperror.NotFound in the third
// return value.
func (s *SubmissionService) Submit(ctx context.Context, formID string, input SubmissionInput) (*model.Response, []string, error) {
	if _, err := s.forms.GetForm(ctx, formID); err != nil {
		return nil, nil, err
	}
	questions, err := s.forms.ListQuestions(ctx, formID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading questions: %w", err)
	}

	var errs []string
	answers := make([]model.Answer, 0, len(questions))

	for _, q := range questions {
		raw := input.Answers[q.ID]

		switch q.Type {
		case model.TypeRating:
			// An unparsable, out-of-range, or missing value all count
			// as "no rating".
			value, ok := parseRating(raw)
			if !ok {
				if q.IsRequired {
					errs = append(errs, fmt.Sprintf("Question %q must be answered (rating 1-5).", truncate(q.Text, maxErrorQuestionLen)))
				}
				// Optional rating left blank or out of range: no value recorded.
				continue
			}
			answers = append(answers, model.Answer{QuestionID: q.ID, Value: value})

		default:
			text := strings.TrimSpace(raw)
			if text == "" {
				if q.IsRequired {
					errs = append(errs, fmt.Sprintf("Question %q is required.", truncate(q.Text, maxErrorQuestionLen)))
				}
				// Optional question left blank: no answer row at all.
				continue
			}
			answers = append(answers, model.Answer{QuestionID: q.ID, Value: model.TextAnswer(text)})
		}
	}

	if len(errs) > 0 {
		return nil, errs, nil
	}

	response := &model.Response{
		FormID:      formID,
		IsAnonymous: input.IsAnonymous,
	}
	// Anonymity wins over whatever was typed into the name/email fields.
	if !input.IsAnonymous {
		response.Name = strings.TrimSpace(input.Name)
		response.Email = strings.TrimSpace(input.Email)
	}

	if err := s.responses.CreateResponse(ctx, response, answers); err != nil {
		return nil, nil, fmt.Errorf("saving response: %w", err)
	}

	s.logger.Info("response submitted",
		slog.String("form_id", formID),
		slog.String("response_id", response.ID),
		slog.Int("answers", len(answers)),
		slog.Bool("anonymous", response.IsAnonymous),
	)
	return response, nil, nil
}

// parseRating parses a submitted rating value. Anything that is not an
// integer within the rating scale counts as "no value".
func parseRating(raw string) (model.AnswerValue, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return model.AnswerValue{}, false
	}
	value, err := model.RatingAnswer(n)
	if err != nil {
		return model.AnswerValue{}, false
	}
	return value, true
}

// truncate shortens s to at most n runes for use in error messages.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
