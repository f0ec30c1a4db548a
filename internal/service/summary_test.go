package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mhasan/feedbackform/internal/apperror"
	"github.com/mhasan/feedbackform/internal/model"
)

func newTestSummaryService(store *mockStore) *SummaryService {
	return NewSummaryService(store, store, store, testLogger())
}

func seedSummaryForm(t *testing.T, store *mockStore, questions ...model.Question) (string, []string) {
	t.Helper()
	form := &model.Form{Title: "Summary form"}
	if err := store.CreateForm(context.Background(), form, questions); err != nil {
		t.Fatalf("seeding form: %v", err)
	}
	ids := make([]string, 0, len(questions))
	for _, q := range store.questions[form.ID] {
		ids = append(ids, q.ID)
	}
	return form.ID, ids
}

func TestSummarize_RatingAverageRounded(t *testing.T) {
	store := newMockStore()
	formID, qids := seedSummaryForm(t, store,
		model.Question{Text: "Rate", Type: model.TypeRating, SortOrder: 1},
	)
	store.ratings[qids[0]] = []int{4, 3, 3}

	summary, err := newTestSummaryService(store).Summarize(context.Background(), formID)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	qs := summary.Questions[0]
	if qs.Count != 3 {
		t.Errorf("Count = %d, want 3", qs.Count)
	}
	if qs.AvgRating == nil {
		t.Fatal("AvgRating = nil, want 3.33")
	}
	if *qs.AvgRating != 3.33 {
		t.Errorf("AvgRating = %v, want 3.33 (rounded to 2 decimals)", *qs.AvgRating)
	}
}

func TestSummarize_NoRatingsMeansAbsentAverage(t *testing.T) {
	store := newMockStore()
	formID, _ := seedSummaryForm(t, store,
		model.Question{Text: "Rate", Type: model.TypeRating, SortOrder: 1},
	)

	summary, err := newTestSummaryService(store).Summarize(context.Background(), formID)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	qs := summary.Questions[0]
	if qs.Count != 0 {
		t.Errorf("Count = %d, want 0", qs.Count)
	}
	// Absent, not zero.
	if qs.AvgRating != nil {
		t.Errorf("AvgRating = %v, want nil", *qs.AvgRating)
	}
}

func TestSummarize_ChoiceTally(t *testing.T) {
	store := newMockStore()
	formID, qids := seedSummaryForm(t, store,
		model.Question{Text: "Return next year?", Type: model.TypeMultipleChoice, Options: "Yes;No", SortOrder: 1},
	)
	store.texts[qids[0]] = []string{"Yes", "No", "Yes"}

	summary, err := newTestSummaryService(store).Summarize(context.Background(), formID)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	qs := summary.Questions[0]
	if qs.Count != 3 {
		t.Errorf("Count = %d, want 3", qs.Count)
	}
	want := map[string]int{"Yes": 2, "No": 1}
	if !reflect.DeepEqual(qs.ChoiceCounts, want) {
		t.Errorf("ChoiceCounts = %v, want %v", qs.ChoiceCounts, want)
	}
}

func TestSummarize_TextResponsesInOrder(t *testing.T) {
	store := newMockStore()
	formID, qids := seedSummaryForm(t, store,
		model.Question{Text: "Comments", Type: model.TypeLongText, SortOrder: 1},
	)
	store.texts[qids[0]] = []string{"first", "second"}

	summary, err := newTestSummaryService(store).Summarize(context.Background(), formID)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	qs := summary.Questions[0]
	if !reflect.DeepEqual(qs.TextResponses, []string{"first", "second"}) {
		t.Errorf("TextResponses = %v, want insertion order preserved", qs.TextResponses)
	}
}

func TestSummarize_EventXScenario(t *testing.T) {
	// Response A: rating=5, optional text blank (no row).
	// Response B: rating=3, text "Great".
	store := newMockStore()
	formID, qids := seedSummaryForm(t, store,
		model.Question{Text: "Overall rating", Type: model.TypeRating, IsRequired: true, SortOrder: 1},
		model.Question{Text: "Comments", Type: model.TypeShortText, SortOrder: 2},
	)
	store.ratings[qids[0]] = []int{5, 3}
	store.texts[qids[1]] = []string{"Great"}
	for i := 0; i < 2; i++ {
		err := store.CreateResponse(context.Background(), &model.Response{FormID: formID, IsAnonymous: true}, nil)
		if err != nil {
			t.Fatalf("CreateResponse() error = %v", err)
		}
	}

	summary, err := newTestSummaryService(store).Summarize(context.Background(), formID)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if summary.TotalResponses != 2 {
		t.Errorf("TotalResponses = %d, want 2", summary.TotalResponses)
	}

	ratingQ := summary.Questions[0]
	if ratingQ.Count != 2 {
		t.Errorf("rating Count = %d, want 2", ratingQ.Count)
	}
	if ratingQ.AvgRating == nil || *ratingQ.AvgRating != 4.0 {
		t.Errorf("AvgRating = %v, want 4.0", ratingQ.AvgRating)
	}

	textQ := summary.Questions[1]
	if textQ.Count != 1 {
		t.Errorf("text Count = %d, want 1", textQ.Count)
	}
	if !reflect.DeepEqual(textQ.TextResponses, []string{"Great"}) {
		t.Errorf("TextResponses = %v, want [Great]", textQ.TextResponses)
	}
}

func TestSummarize_Idempotent(t *testing.T) {
	store := newMockStore()
	formID, qids := seedSummaryForm(t, store,
		model.Question{Text: "Rate", Type: model.TypeRating, SortOrder: 1},
	)
	store.ratings[qids[0]] = []int{2, 4}

	svc := newTestSummaryService(store)
	first, err := svc.Summarize(context.Background(), formID)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	second, err := svc.Summarize(context.Background(), formID)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("two Summarize() calls without intervening submissions differ")
	}
}

func TestSummarize_FormNotFound(t *testing.T) {
	store := newMockStore()

	_, err := newTestSummaryService(store).Summarize(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Summarize() error = %v, want ErrNotFound", err)
	}
}
