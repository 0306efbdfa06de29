package models

import (
	"fmt"
	"sort"
)

// Response is a recorded answer to one item. A not-applicable answer carries
// no value and is excluded from every aggregate.
type Response struct {
	Value         float64 `json:"value"`
	NotApplicable bool    `json:"not_applicable,omitempty"`
}

// Answered builds a response holding a scored value.
func Answered(v float64) Response {
	return Response{Value: v}
}

// NotApplicable builds the "not applicable" response.
func NotApplicable() Response {
	return Response{NotApplicable: true}
}

// WireValue renders the response for external consumers, where
// not-applicable is spelled -1.
func (r Response) WireValue() float64 {
	if r.NotApplicable {
		return NotApplicableValue
	}
	return r.Value
}

// Scored reports whether the response contributes to aggregates.
func (r Response) Scored() bool {
	return !r.NotApplicable
}

func (r Response) String() string {
	if r.NotApplicable {
		return "n/a"
	}
	return fmt.Sprintf("%g", r.Value)
}

// AnswerMap holds answers keyed by scale ID, then question ID.
type AnswerMap map[string]map[int]Response

// Set records or overwrites an answer.
func (m AnswerMap) Set(scaleID string, questionID int, r Response) {
	items, ok := m[scaleID]
	if !ok {
		items = make(map[int]Response)
		m[scaleID] = items
	}
	items[questionID] = r
}

// Get returns the recorded answer for an item.
func (m AnswerMap) Get(scaleID string, questionID int) (Response, bool) {
	items, ok := m[scaleID]
	if !ok {
		return Response{}, false
	}
	r, ok := items[questionID]
	return r, ok
}

// Clone returns a deep copy so callers can hand out snapshots.
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for scaleID, items := range m {
		cp := make(map[int]Response, len(items))
		for id, r := range items {
			cp[id] = r
		}
		out[scaleID] = cp
	}
	return out
}

// WireValues renders the answers to the questions the profile sees on a
// scale, with not-applicable as -1, keyed by question ID. Answers left over
// from questions the profile no longer sees are dropped.
func (m AnswerMap) WireValues(s *Scale, p Profile) map[int]float64 {
	items := m[s.ID]
	out := make(map[int]float64, len(items))
	for _, q := range s.EffectiveQuestions(p) {
		if r, ok := items[q.ID]; ok {
			out[q.ID] = r.WireValue()
		}
	}
	return out
}

// QuestionIDs returns the answered question IDs of a scale in ascending order.
func (m AnswerMap) QuestionIDs(scaleID string) []int {
	items := m[scaleID]
	ids := make([]int, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
