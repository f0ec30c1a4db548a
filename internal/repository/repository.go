// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage is the only real implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/mhasan/feedbackform/internal/model"
)

// FormRepository persists forms and their question sets.
type FormRepository interface {
	// CreateForm inserts the form and all of its questions in a single
	// transaction. Question IDs, form IDs, and sort linkage are assigned
	// by the implementation.
	CreateForm(ctx context.Context, form *model.Form, questions []model.Question) error
	GetForm(ctx context.Context, id string) (*model.Form, error)
	// ListForms returns all forms ordered by creation time, newest first.
	ListForms(ctx context.Context) ([]model.Form, error)
	// ListQuestions returns a form's questions ordered by sort_order.
	ListQuestions(ctx context.Context, formID string) ([]model.Question, error)
	// DeleteForm removes a form; questions, responses, and answers go
	// with it via foreign-key cascade.
	DeleteForm(ctx context.Context, id string) error
}

// ResponseRepository persists submission events and their answers.
type ResponseRepository interface {
	// CreateResponse inserts the response and one row per answer in a
	// single transaction. Answers carry only QuestionID and Value; IDs
	// and the response linkage are assigned by the implementation.
	CreateResponse(ctx context.Context, response *model.Response, answers []model.Answer) error
	CountResponses(ctx context.Context, formID string) (int, error)
}

// SummaryRepository reads recorded answer values per question. Each call
// is an independent scan of the answers table; callers aggregate.
type SummaryRepository interface {
	// RatingsByQuestion returns all non-null rating values for a question.
	RatingsByQuestion(ctx context.Context, questionID string) ([]int, error)
	// TextsByQuestion returns all non-empty text values for a question,
	// in insertion order.
	TextsByQuestion(ctx context.Context, questionID string) ([]string, error)
}
