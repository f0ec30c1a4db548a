package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/mhasan/feedbackform/internal/model"
	"github.com/mhasan/feedbackform/internal/repository"
)

// SummaryService aggregates per-question statistics for a form.
type SummaryService struct {
	forms     repository.FormRepository
	responses repository.ResponseRepository
	answers   repository.SummaryRepository
	logger    *slog.Logger
}

func NewSummaryService(forms repository.FormRepository, responses repository.ResponseRepository, answers repository.SummaryRepository, logger *slog.Logger) *SummaryService {
	return &SummaryService{
		forms:     forms,
		responses: responses,
		answers:   answers,
		logger:    logger,
	}
}

// Summarize builds the aggregate view of a form: the total response count
// plus one summary per question in sort order. Each question is computed
// from its own scan of the answers table; there are no cross-question
// joins, and reads are not wrapped in a transaction. Two calls without an
// intervening submission return identical output.
func (s *SummaryService) Summarize(ctx context.Context, formID string) (*model.FormSummary, error) {
	form, err := s.forms.GetForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	total, err := s.responses.CountResponses(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("counting responses: %w", err)
	}

	questions, err := s.forms.ListQuestions(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("loading questions: %w", err)
	}

	summary := &model.FormSummary{
		Form:           *form,
		TotalResponses: total,
		Questions:      make([]model.QuestionSummary, 0, len(questions)),
	}

	for _, q := range questions {
		qs, err := s.summarizeQuestion(ctx, q)
		if err != nil {
			return nil, err
		}
		summary.Questions = append(summary.Questions, qs)
	}
	return summary, nil
}

func (s *SummaryService) summarizeQuestion(ctx context.Context, q model.Question) (model.QuestionSummary, error) {
	qs := model.QuestionSummary{Question: q}

	switch q.Type {
	case model.TypeRating:
		ratings, err := s.answers.RatingsByQuestion(ctx, q.ID)
		if err != nil {
			return qs, fmt.Errorf("summarizing ratings for question %s: %w", q.ID, err)
		}
		qs.Count = len(ratings)
		// The average is absent, not zero, when nothing was rated.
		if len(ratings) > 0 {
			sum := 0
			for _, r := range ratings {
				sum += r
			}
			avg := round2(float64(sum) / float64(len(ratings)))
			qs.AvgRating = &avg
		}

	case model.TypeMultipleChoice:
		texts, err := s.answers.TextsByQuestion(ctx, q.ID)
		if err != nil {
			return qs, fmt.Errorf("summarizing choices for question %s: %w", q.ID, err)
		}
		qs.Count = len(texts)
		qs.ChoiceCounts = map[string]int{}
		for _, choice := range texts {
			qs.ChoiceCounts[choice]++
		}

	default: // short_text, long_text
		texts, err := s.answers.TextsByQuestion(ctx, q.ID)
		if err != nil {
			return qs, fmt.Errorf("summarizing texts for question %s: %w", q.ID, err)
		}
		qs.Count = len(texts)
		qs.TextResponses = texts
	}
	return qs, nil
}

// round2 rounds to two decimal places, matching how the summary page
// displays averages.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
