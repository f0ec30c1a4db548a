package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mhasan/feedbackform/internal/apperror"
	"github.com/mhasan/feedbackform/internal/flash"
	"github.com/mhasan/feedbackform/internal/service"
)

// answerFieldPrefix keys the per-question inputs on the submission page:
// a question with ID abc posts its value as q_abc.
const answerFieldPrefix = "q_"

// SubmissionHandler serves the public submission page.
type SubmissionHandler struct {
	forms       *service.FormService
	submissions *service.SubmissionService
	flash       *flash.Store
	logger      *slog.Logger
	tmpl        *template.Template
}

func NewSubmissionHandler(templateDir string, forms *service.FormService, submissions *service.SubmissionService, fl *flash.Store, logger *slog.Logger) (*SubmissionHandler, error) {
	tmpl, err := parsePage(templateDir, "form_submit.html")
	if err != nil {
		return nil, err
	}
	return &SubmissionHandler{
		forms:       forms,
		submissions: submissions,
		flash:       fl,
		logger:      logger,
		tmpl:        tmpl,
	}, nil
}

// HandleShow serves GET /form/{id}/submit. A missing form bounces back to
// the listing with an error flash rather than a bare 404 page.
func (h *SubmissionHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "id")

	form, err := h.forms.Get(r.Context(), formID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			redirectWithFlash(w, r, h.flash, "/",
				flash.Message{Level: flash.LevelError, Text: "Form not found."})
			return
		}
		serverError(w, h.logger, "loading form", err)
		return
	}

	questions, err := h.forms.Questions(r.Context(), formID)
	if err != nil {
		serverError(w, h.logger, "loading questions", err)
		return
	}

	render(w, h.logger, h.tmpl, map[string]any{
		"Title":     form.Title,
		"Form":      form,
		"Questions": questions,
		"Flashes":   h.flash.Pop(w, r),
	})
}

// HandleSubmit serves POST /form/{id}/submit. Validation failures
// re-render the page with every collected error and write nothing; a
// valid submission persists atomically and redirects back with a thanks
// flash.
func (h *SubmissionHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	input := service.SubmissionInput{
		IsAnonymous: isChecked(r.PostFormValue("is_anonymous")),
		Name:        r.PostFormValue("respondent_name"),
		Email:       r.PostFormValue("respondent_email"),
		Answers:     parseAnswerFields(r),
	}

	_, validationErrs, err := h.submissions.Submit(r.Context(), formID, input)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			redirectWithFlash(w, r, h.flash, "/",
				flash.Message{Level: flash.LevelError, Text: "Form not found."})
			return
		}
		serverError(w, h.logger, "submitting response", err)
		return
	}

	if len(validationErrs) > 0 {
		h.redisplay(w, r, formID, validationErrs)
		return
	}

	redirectWithFlash(w, r, h.flash, "/form/"+formID+"/submit",
		flash.Message{Level: flash.LevelSuccess, Text: "Thank you! Your feedback has been submitted."})
}

// redisplay re-renders the submission page with the collected validation
// errors inline. The form still exists — Submit just checked — so a load
// failure here is a real server error.
func (h *SubmissionHandler) redisplay(w http.ResponseWriter, r *http.Request, formID string, validationErrs []string) {
	form, err := h.forms.Get(r.Context(), formID)
	if err != nil {
		serverError(w, h.logger, "reloading form", err)
		return
	}
	questions, err := h.forms.Questions(r.Context(), formID)
	if err != nil {
		serverError(w, h.logger, "reloading questions", err)
		return
	}

	render(w, h.logger, h.tmpl, map[string]any{
		"Title":     form.Title,
		"Form":      form,
		"Questions": questions,
		"Errors":    validationErrs,
	})
}

// parseAnswerFields collects the q_{questionID} inputs into a map keyed
// by question ID. Unknown IDs are harmless: the service only looks up
// the form's own questions.
func parseAnswerFields(r *http.Request) map[string]string {
	answers := map[string]string{}
	for key, values := range r.PostForm {
		if !strings.HasPrefix(key, answerFieldPrefix) || len(values) == 0 {
			continue
		}
		answers[strings.TrimPrefix(key, answerFieldPrefix)] = values[0]
	}
	return answers
}
