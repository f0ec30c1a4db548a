// Package service contains the business logic layer: authoring rules,
// answer validation, and summary aggregation. Services receive repository
// interfaces, never concrete database types, so tests can substitute
// in-memory mocks.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mhasan/feedbackform/internal/apperror"
	"github.com/mhasan/feedbackform/internal/model"
	"github.com/mhasan/feedbackform/internal/repository"
)

// QuestionInput is one authored question, in submission order.
type QuestionInput struct {
	Text     string `validate:"required"`
	Type     string `validate:"required,oneof=short_text long_text multiple_choice rating"`
	Options  string
	Required bool
}

// CreateFormInput is the authoring payload: a title, an optional
// description, and an explicit ordered list of questions.
type CreateFormInput struct {
	Title       string `validate:"required"`
	Description string
	Questions   []QuestionInput `validate:"dive"`
}

// FormListItem pairs a form with its response count for the listing page.
type FormListItem struct {
	Form          model.Form
	ResponseCount int
}

// FormService handles form authoring and listing.
type FormService struct {
	forms     repository.FormRepository
	responses repository.ResponseRepository
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewFormService(forms repository.FormRepository, responses repository.ResponseRepository, logger *slog.Logger) *FormService {
	return &FormService{
		forms:     forms,
		responses: responses,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Create validates the authoring input and persists the form together
// with its questions in one transaction.
//
// Normalization happens before validation: title, description, question
// text, and options are trimmed, and questions whose text trims to empty
// are dropped from the list (a blank row on the authoring page is not an
// error, it just isn't a question). Sort order is the 1-based position in
// the surviving list. Options are kept only for multiple_choice questions.
func (s *FormService) Create(ctx context.Context, input CreateFormInput) (*model.Form, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	kept := make([]QuestionInput, 0, len(input.Questions))
	for _, q := range input.Questions {
		q.Text = strings.TrimSpace(q.Text)
		q.Options = strings.TrimSpace(q.Options)
		if q.Text == "" {
			continue
		}
		kept = append(kept, q)
	}
	input.Questions = kept

	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, s.validationError(verrs[0])
		}
		return nil, fmt.Errorf("validating form input: %w", err)
	}

	form := &model.Form{
		Title:       input.Title,
		Description: input.Description,
	}

	questions := make([]model.Question, 0, len(input.Questions))
	for i, q := range input.Questions {
		options := ""
		if q.Type == model.TypeMultipleChoice {
			options = q.Options
		}
		questions = append(questions, model.Question{
			Text:       q.Text,
			Type:       q.Type,
			Options:    options,
			IsRequired: q.Required,
			SortOrder:  i + 1,
		})
	}

	if err := s.forms.CreateForm(ctx, form, questions); err != nil {
		return nil, fmt.Errorf("creating form: %w", err)
	}

	s.logger.Info("form created",
		slog.String("form_id", form.ID),
		slog.String("title", form.Title),
		slog.Int("questions", len(questions)),
	)
	return form, nil
}

// validationError translates the first validator failure into a domain
// error with a message fit for direct display.
func (s *FormService) validationError(fe validator.FieldError) error {
	switch fe.StructField() {
	case "Title":
		return apperror.ValidationFailed("title", "Form title is required.")
	case "Type":
		return apperror.ValidationFailed("question_type", fmt.Sprintf("Unknown question type %q.", fe.Value()))
	default:
		return apperror.ValidationFailed(strings.ToLower(fe.StructField()), fmt.Sprintf("Invalid value for %s.", fe.StructField()))
	}
}

// Get returns a single form.
func (s *FormService) Get(ctx context.Context, id string) (*model.Form, error) {
	return s.forms.GetForm(ctx, id)
}

// Questions returns a form's questions in display order.
func (s *FormService) Questions(ctx context.Context, formID string) ([]model.Question, error) {
	return s.forms.ListQuestions(ctx, formID)
}

// List returns all forms, newest first, each with its response count.
func (s *FormService) List(ctx context.Context) ([]FormListItem, error) {
	forms, err := s.forms.ListForms(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing forms: %w", err)
	}

	items := make([]FormListItem, 0, len(forms))
	for _, form := range forms {
		count, err := s.responses.CountResponses(ctx, form.ID)
		if err != nil {
			return nil, fmt.Errorf("counting responses for form %s: %w", form.ID, err)
		}
		items = append(items, FormListItem{Form: form, ResponseCount: count})
	}
	return items, nil
}
