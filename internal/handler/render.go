// Package handler contains the HTTP request handlers. Handlers parse
// requests, call the service layer, and render templates or redirect —
// no business rules live here.
package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mhasan/feedbackform/internal/flash"
	"github.com/mhasan/feedbackform/internal/model"
)

// templateFuncs are available to every page template.
var templateFuncs = template.FuncMap{
	// "3 days ago" instead of a raw timestamp in listings.
	"timeago": func(t time.Time) string {
		return humanize.Time(t)
	},
	// Splits a multiple_choice options string on ";" or "," into the
	// individual choices, dropping blanks.
	"choices": SplitChoices,
	// The rating scale, for rendering one radio button per value.
	"ratingScale": func() []int {
		scale := make([]int, 0, model.MaxRating-model.MinRating+1)
		for v := model.MinRating; v <= model.MaxRating; v++ {
			scale = append(scale, v)
		}
		return scale
	},
}

// SplitChoices parses the delimited options of a multiple_choice question.
// Semicolons win over commas so option text may contain commas.
func SplitChoices(options string) []string {
	sep := ","
	if strings.Contains(options, ";") {
		sep = ";"
	}
	parts := strings.Split(options, sep)
	choices := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			choices = append(choices, p)
		}
	}
	return choices
}

// parsePage parses base.html together with one page template. Each page
// defines "content"; base.html provides the shell. Templates are parsed
// once at handler construction, not per request.
func parsePage(templateDir, page string) (*template.Template, error) {
	return template.New("base.html").Funcs(templateFuncs).ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, page),
	)
}

// render executes the page and reports a generic 500 on failure. By the
// time execution fails, part of the body may already be written; the
// error page is best effort.
func render(w http.ResponseWriter, logger *slog.Logger, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		logger.Error("failed to render template",
			slog.String("template", tmpl.Name()),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// serverError logs the failure and sends a generic 500. Storage failures
// are terminal for the request; there is no retry.
func serverError(w http.ResponseWriter, logger *slog.Logger, context string, err error) {
	logger.Error(context, slog.String("error", err.Error()))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// redirectWithFlash leaves a one-shot notification and redirects. 303
// forces the follow-up to be a GET regardless of the current method.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, store *flash.Store, url string, msg flash.Message) {
	store.Set(w, msg)
	http.Redirect(w, r, url, http.StatusSeeOther)
}
