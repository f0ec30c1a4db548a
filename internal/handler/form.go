package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/mhasan/feedbackform/internal/apperror"
	"github.com/mhasan/feedbackform/internal/flash"
	"github.com/mhasan/feedbackform/internal/model"
	"github.com/mhasan/feedbackform/internal/service"
)

// FormHandler serves the form listing and the authoring pages.
type FormHandler struct {
	forms      *service.FormService
	flash      *flash.Store
	logger     *slog.Logger
	indexTmpl  *template.Template
	createTmpl *template.Template
}

func NewFormHandler(templateDir string, forms *service.FormService, fl *flash.Store, logger *slog.Logger) (*FormHandler, error) {
	indexTmpl, err := parsePage(templateDir, "index.html")
	if err != nil {
		return nil, err
	}
	createTmpl, err := parsePage(templateDir, "create_form.html")
	if err != nil {
		return nil, err
	}
	return &FormHandler{
		forms:      forms,
		flash:      fl,
		logger:     logger,
		indexTmpl:  indexTmpl,
		createTmpl: createTmpl,
	}, nil
}

// HandleIndex serves GET /: all forms, newest first, with response counts.
func (h *FormHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	items, err := h.forms.List(r.Context())
	if err != nil {
		serverError(w, h.logger, "listing forms", err)
		return
	}

	render(w, h.logger, h.indexTmpl, map[string]any{
		"Title":   "Feedback Forms",
		"Forms":   items,
		"Flashes": h.flash.Pop(w, r),
	})
}

// HandleNew serves GET /create: the authoring page.
func (h *FormHandler) HandleNew(w http.ResponseWriter, r *http.Request) {
	render(w, h.logger, h.createTmpl, map[string]any{
		"Title":         "Create Form",
		"QuestionTypes": model.QuestionTypes,
		"Flashes":       h.flash.Pop(w, r),
	})
}

// HandleCreate serves POST /create.
//
// The questions arrive as parallel ordered arrays (question_text,
// question_type, question_options, question_required), one entry per
// authored row. The arrays replace the old "numbered field names until
// the first gap" convention: position in the array is the order, and a
// row whose text is blank is simply skipped.
//
// On success the author is redirected to the new form's public submission
// page; on a validation failure, back to /create with an error flash.
// Previously entered questions are not round-tripped on failure.
func (h *FormHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	input := service.CreateFormInput{
		Title:       r.PostFormValue("form_title"),
		Description: r.PostFormValue("form_description"),
		Questions:   parseQuestionRows(r),
	}

	form, err := h.forms.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			redirectWithFlash(w, r, h.flash, "/create",
				flash.Message{Level: flash.LevelError, Text: err.Error()})
			return
		}
		serverError(w, h.logger, "creating form", err)
		return
	}

	redirectWithFlash(w, r, h.flash, "/form/"+form.ID+"/submit",
		flash.Message{Level: flash.LevelSuccess, Text: "Form created successfully. Share the link below for responses."})
}

// parseQuestionRows reads the parallel question arrays into ordered
// inputs. The arrays are index-aligned by the authoring page script; a
// short options/required array just means "empty" / "not required" for
// the trailing rows.
func parseQuestionRows(r *http.Request) []service.QuestionInput {
	texts := r.PostForm["question_text"]
	types := r.PostForm["question_type"]
	options := r.PostForm["question_options"]
	required := r.PostForm["question_required"]

	rows := make([]service.QuestionInput, 0, len(texts))
	for i, text := range texts {
		rows = append(rows, service.QuestionInput{
			Text:     text,
			Type:     at(types, i),
			Options:  at(options, i),
			Required: isChecked(at(required, i)),
		})
	}
	return rows
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

func isChecked(v string) bool {
	switch v {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
