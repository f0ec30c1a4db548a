package service

import (
	"context"
	"fmt"

	"github.com/mhasan/feedbackform/internal/apperror"
	"github.com/mhasan/feedbackform/internal/model"
)

// mockStore is an in-memory implementation of all three repository
// interfaces, mirroring how the real sqlite.DB satisfies them all.
// Services only see the interfaces, so tests stay free of any database.
type mockStore struct {
	forms     []model.Form
	questions map[string][]model.Question // keyed by form ID
	responses []model.Response
	answers   [][]model.Answer // parallel to responses
	ratings   map[string][]int // keyed by question ID
	texts     map[string][]string

	nextID        int
	createFormErr error
	createRespErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		questions: map[string][]model.Question{},
		ratings:   map[string][]int{},
		texts:     map[string][]string{},
	}
}

func (m *mockStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *mockStore) CreateForm(_ context.Context, form *model.Form, questions []model.Question) error {
	if m.createFormErr != nil {
		return m.createFormErr
	}
	form.ID = m.id("form")
	for i := range questions {
		questions[i].ID = m.id("q")
		questions[i].FormID = form.ID
	}
	m.forms = append(m.forms, *form)
	m.questions[form.ID] = questions
	return nil
}

func (m *mockStore) GetForm(_ context.Context, id string) (*model.Form, error) {
	for _, f := range m.forms {
		if f.ID == id {
			result := f
			return &result, nil
		}
	}
	return nil, apperror.NotFound("form", id)
}

func (m *mockStore) ListForms(_ context.Context) ([]model.Form, error) {
	// Newest first, like the real repository.
	result := make([]model.Form, 0, len(m.forms))
	for i := len(m.forms) - 1; i >= 0; i-- {
		result = append(result, m.forms[i])
	}
	return result, nil
}

func (m *mockStore) ListQuestions(_ context.Context, formID string) ([]model.Question, error) {
	return m.questions[formID], nil
}

func (m *mockStore) DeleteForm(_ context.Context, id string) error {
	for i, f := range m.forms {
		if f.ID == id {
			m.forms = append(m.forms[:i], m.forms[i+1:]...)
			delete(m.questions, id)
			return nil
		}
	}
	return apperror.NotFound("form", id)
}

func (m *mockStore) CreateResponse(_ context.Context, response *model.Response, answers []model.Answer) error {
	if m.createRespErr != nil {
		return m.createRespErr
	}
	response.ID = m.id("resp")
	for i := range answers {
		answers[i].ID = m.id("ans")
		answers[i].ResponseID = response.ID
	}
	m.responses = append(m.responses, *response)
	m.answers = append(m.answers, answers)
	return nil
}

func (m *mockStore) CountResponses(_ context.Context, formID string) (int, error) {
	count := 0
	for _, r := range m.responses {
		if r.FormID == formID {
			count++
		}
	}
	return count, nil
}

func (m *mockStore) RatingsByQuestion(_ context.Context, questionID string) ([]int, error) {
	return m.ratings[questionID], nil
}

func (m *mockStore) TextsByQuestion(_ context.Context, questionID string) ([]string, error) {
	return m.texts[questionID], nil
}
