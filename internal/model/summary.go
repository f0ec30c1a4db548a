package model

// QuestionSummary aggregates the answers recorded for one question.
// Which fields are populated depends on the question type:
//   - rating:          Count and AvgRating (nil when there are no ratings)
//   - multiple_choice: Count and ChoiceCounts
//   - short/long text: Count and TextResponses (insertion order)
type QuestionSummary struct {
	Question      Question       `json:"question"`
	Count         int            `json:"count"`
	ChoiceCounts  map[string]int `json:"choiceCounts,omitempty"`
	AvgRating     *float64       `json:"avgRating,omitempty"`
	TextResponses []string       `json:"textResponses,omitempty"`
}

// FormSummary is the aggregated view of a whole form: the total number of
// responses plus one QuestionSummary per question, in sort order.
type FormSummary struct {
	Form           Form              `json:"form"`
	TotalResponses int               `json:"totalResponses"`
	Questions      []QuestionSummary `json:"questions"`
}
