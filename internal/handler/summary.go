package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mhasan/feedbackform/internal/apperror"
	"github.com/mhasan/feedbackform/internal/flash"
	"github.com/mhasan/feedbackform/internal/service"
)

// SummaryHandler serves the aggregated statistics page.
type SummaryHandler struct {
	summaries *service.SummaryService
	flash     *flash.Store
	logger    *slog.Logger
	tmpl      *template.Template
}

func NewSummaryHandler(templateDir string, summaries *service.SummaryService, fl *flash.Store, logger *slog.Logger) (*SummaryHandler, error) {
	tmpl, err := parsePage(templateDir, "form_summary.html")
	if err != nil {
		return nil, err
	}
	return &SummaryHandler{
		summaries: summaries,
		flash:     fl,
		logger:    logger,
		tmpl:      tmpl,
	}, nil
}

// HandleSummary serves GET /form/{id}/summary.
func (h *SummaryHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "id")

	summary, err := h.summaries.Summarize(r.Context(), formID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			redirectWithFlash(w, r, h.flash, "/",
				flash.Message{Level: flash.LevelError, Text: "Form not found."})
			return
		}
		serverError(w, h.logger, "building summary", err)
		return
	}

	render(w, h.logger, h.tmpl, map[string]any{
		"Title":   summary.Form.Title + " — Summary",
		"Summary": summary,
		"Flashes": h.flash.Pop(w, r),
	})
}
