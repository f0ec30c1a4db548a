// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import (
	"fmt"
	"time"
)

// Question types supported by the application. This is a fixed set —
// new types require a code change, not a config change.
const (
	TypeShortText      = "short_text"
	TypeLongText       = "long_text"
	TypeMultipleChoice = "multiple_choice"
	TypeRating         = "rating"
)

// MinRating and MaxRating bound the rating scale. Every rating answer
// stored in the database lies in this range.
const (
	MinRating = 1
	MaxRating = 5
)

// QuestionTypes lists every valid question type, in the order they are
// offered on the authoring page.
var QuestionTypes = []string{TypeShortText, TypeLongText, TypeMultipleChoice, TypeRating}

// ValidQuestionType reports whether t is one of the supported question types.
func ValidQuestionType(t string) bool {
	switch t {
	case TypeShortText, TypeLongText, TypeMultipleChoice, TypeRating:
		return true
	}
	return false
}

// Form is a named collection of questions a respondent can answer once
// per submission. Forms are created once and never updated; deleting a
// form cascades to its questions, responses, and answers.
type Form struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Question is a single prompt with a fixed type and requiredness within
// a form. Options holds the delimited choice list and is only meaningful
// for multiple_choice questions. SortOrder is the 1-based position the
// question was authored in and defines display order.
type Question struct {
	ID         string `json:"id"`
	FormID     string `json:"formId"`
	Text       string `json:"text"`
	Type       string `json:"type"`
	Options    string `json:"options,omitempty"`
	IsRequired bool   `json:"isRequired"`
	SortOrder  int    `json:"sortOrder"`
}

// Response is one respondent's complete submission event for a form.
// Name and Email are empty when the submission is anonymous.
type Response struct {
	ID          string    `json:"id"`
	FormID      string    `json:"formId"`
	SubmittedAt time.Time `json:"submittedAt"`
	IsAnonymous bool      `json:"isAnonymous"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email,omitempty"`
}

// Answer is one respondent's value for one question within a response.
// The value is a tagged variant: exactly one of text or rating is set,
// enforced by the AnswerValue constructors rather than by convention.
type Answer struct {
	ID         string      `json:"id"`
	ResponseID string      `json:"responseId"`
	QuestionID string      `json:"questionId"`
	Value      AnswerValue `json:"value"`
}

type answerKind int

const (
	answerText answerKind = iota + 1
	answerRating
)

// AnswerValue holds either a text value or a rating in [MinRating, MaxRating].
// The zero value is no value at all; use TextAnswer or RatingAnswer to build
// one. Making the variant structural keeps the "only one populated" invariant
// out of the database layer entirely.
type AnswerValue struct {
	kind   answerKind
	text   string
	rating int
}

// TextAnswer builds a text-valued answer (short_text, long_text, or the
// chosen option of a multiple_choice question).
func TextAnswer(text string) AnswerValue {
	return AnswerValue{kind: answerText, text: text}
}

// RatingAnswer builds a rating-valued answer. Values outside the rating
// scale are rejected at construction.
func RatingAnswer(value int) (AnswerValue, error) {
	if value < MinRating || value > MaxRating {
		return AnswerValue{}, fmt.Errorf("rating %d out of range %d-%d", value, MinRating, MaxRating)
	}
	return AnswerValue{kind: answerRating, rating: value}, nil
}

// Text returns the text value and whether this is a text answer.
func (v AnswerValue) Text() (string, bool) {
	return v.text, v.kind == answerText
}

// Rating returns the rating value and whether this is a rating answer.
func (v AnswerValue) Rating() (int, bool) {
	return v.rating, v.kind == answerRating
}

// IsZero reports whether no value has been set.
func (v AnswerValue) IsZero() bool {
	return v.kind == 0
}
