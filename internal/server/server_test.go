package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhasan/feedbackform/internal/config"
)

// newTestServer wires the real router against a throwaway database file
// and the real templates.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.Config{
		Port:        0,
		DBPath:      filepath.Join(t.TempDir(), "test.db"),
		TemplateDir: "../../web/templates",
		StaticDir:   "../../web/static",
		SecretKey:   "test-secret",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { srv.db.Close() })
	return srv
}

func get(srv *Server, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)
	return rr
}

func postForm(srv *Server, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)
	return rr
}

// createForm posts the authoring form and returns the new form's ID,
// extracted from the redirect to its public submission page.
func createForm(t *testing.T, srv *Server, values url.Values) string {
	t.Helper()

	rr := postForm(srv, "/create", values)
	require.Equal(t, http.StatusSeeOther, rr.Code, "body: %s", rr.Body.String())

	location := rr.Header().Get("Location")
	m := regexp.MustCompile(`^/form/([^/]+)/submit$`).FindStringSubmatch(location)
	require.NotNil(t, m, "unexpected redirect target %q", location)
	return m[1]
}

// questionIDs scrapes the q_{id} field names from the submission page,
// in document order.
func questionIDs(t *testing.T, srv *Server, formID string) []string {
	t.Helper()

	rr := get(srv, "/form/"+formID+"/submit", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	seen := map[string]bool{}
	ids := []string{}
	for _, m := range regexp.MustCompile(`name="q_([^"]+)"`).FindAllStringSubmatch(rr.Body.String(), -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			ids = append(ids, m[1])
		}
	}
	return ids
}

func TestCreateFormFlow(t *testing.T) {
	srv := newTestServer(t)

	formID := createForm(t, srv, url.Values{
		"form_title":        {"Event X"},
		"form_description":  {"Annual event"},
		"question_text":     {"Overall rating", "Comments"},
		"question_type":     {"rating", "short_text"},
		"question_options":  {"", ""},
		"question_required": {"yes", "no"},
	})

	// The submission page shows the authored questions in order.
	rr := get(srv, "/form/"+formID+"/submit", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Overall rating")
	assert.Contains(t, body, "Comments")
	assert.Less(t, strings.Index(body, "Overall rating"), strings.Index(body, "Comments"))

	// The listing shows the new form.
	rr = get(srv, "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Event X")
}

func TestCreateForm_MissingTitle(t *testing.T) {
	srv := newTestServer(t)

	rr := postForm(srv, "/create", url.Values{
		"form_title":    {"   "},
		"question_text": {"Orphan"},
		"question_type": {"short_text"},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/create", rr.Header().Get("Location"))

	// The flash survives the redirect and shows on the authoring page.
	followUp := get(srv, "/create", rr.Result().Cookies())
	require.Equal(t, http.StatusOK, followUp.Code)
	assert.Contains(t, followUp.Body.String(), "Form title is required.")

	// Nothing was written.
	listing := get(srv, "/", nil)
	assert.NotContains(t, listing.Body.String(), "Orphan")
}

func TestSubmit_RequiredRatingOutOfRange(t *testing.T) {
	srv := newTestServer(t)

	formID := createForm(t, srv, url.Values{
		"form_title":        {"Ratings only"},
		"question_text":     {"Rate the event"},
		"question_type":     {"rating"},
		"question_required": {"yes"},
	})
	qids := questionIDs(t, srv, formID)
	require.Len(t, qids, 1)

	rr := postForm(srv, "/form/"+formID+"/submit", url.Values{
		"is_anonymous":  {"on"},
		"q_" + qids[0]: {"7"},
	})

	// Redisplay with the collected error, not a redirect.
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "rating 1-5")
	assert.Contains(t, rr.Body.String(), "Rate the event")

	// No rows were written.
	summary := get(srv, "/form/"+formID+"/summary", nil)
	require.Equal(t, http.StatusOK, summary.Code)
	assert.Contains(t, summary.Body.String(), "0 responses")
}

func TestEventXScenario(t *testing.T) {
	srv := newTestServer(t)

	formID := createForm(t, srv, url.Values{
		"form_title":        {"Event X"},
		"question_text":     {"Overall rating", "Comments"},
		"question_type":     {"rating", "short_text"},
		"question_required": {"yes", "no"},
	})
	qids := questionIDs(t, srv, formID)
	require.Len(t, qids, 2)

	// Response A: rating=5, text blank.
	rr := postForm(srv, "/form/"+formID+"/submit", url.Values{
		"is_anonymous":  {"on"},
		"q_" + qids[0]: {"5"},
		"q_" + qids[1]: {""},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	// Response B: rating=3, text "Great".
	rr = postForm(srv, "/form/"+formID+"/submit", url.Values{
		"is_anonymous":  {"on"},
		"q_" + qids[0]: {"3"},
		"q_" + qids[1]: {"Great"},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	summary := get(srv, "/form/"+formID+"/summary", nil)
	require.Equal(t, http.StatusOK, summary.Code)
	body := summary.Body.String()

	assert.Contains(t, body, "2 responses")
	assert.Contains(t, body, "2 answers") // rating count
	assert.Contains(t, body, "1 answer")  // text count
	assert.Contains(t, body, "<strong>4</strong>")
	assert.Contains(t, body, "Great")
}

func TestChoiceTallyScenario(t *testing.T) {
	srv := newTestServer(t)

	formID := createForm(t, srv, url.Values{
		"form_title":        {"Poll"},
		"question_text":     {"Return next year?"},
		"question_type":     {"multiple_choice"},
		"question_options":  {"Yes;No"},
		"question_required": {"yes"},
	})
	qids := questionIDs(t, srv, formID)
	require.Len(t, qids, 1)

	for _, choice := range []string{"Yes", "No", "Yes"} {
		rr := postForm(srv, "/form/"+formID+"/submit", url.Values{
			"is_anonymous":  {"on"},
			"q_" + qids[0]: {choice},
		})
		require.Equal(t, http.StatusSeeOther, rr.Code)
	}

	summary := get(srv, "/form/"+formID+"/summary", nil)
	require.Equal(t, http.StatusOK, summary.Code)
	body := summary.Body.String()

	assert.Contains(t, body, "Yes: <strong>2</strong>")
	assert.Contains(t, body, "No: <strong>1</strong>")
	assert.Contains(t, body, "3 answers")
}

func TestUnknownFormRedirectsWithFlash(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/form/nonexistent/submit", "/form/nonexistent/summary"} {
		rr := get(srv, path, nil)
		require.Equal(t, http.StatusSeeOther, rr.Code, "path %s", path)
		assert.Equal(t, "/", rr.Header().Get("Location"))

		followUp := get(srv, "/", rr.Result().Cookies())
		require.Equal(t, http.StatusOK, followUp.Code)
		assert.Contains(t, followUp.Body.String(), "Form not found.")
	}
}

func TestSubmitPost_UnknownFormRedirects(t *testing.T) {
	srv := newTestServer(t)

	rr := postForm(srv, "/form/nonexistent/submit", url.Values{"is_anonymous": {"on"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}
