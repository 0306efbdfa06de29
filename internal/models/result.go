package models

// Results is the scored projection of a session. It is recomputed from the
// profile, the answers and the catalog whenever it is needed.
type Results struct {
	Profile     Profile                       `json:"profile"`
	Scores      map[string]float64            `json:"scores"`
	DomainMeans map[string]map[string]float64 `json:"domain_means"`
	Answers     AnswerMap                     `json:"-"`
}

// Score returns a scale's score, 0 when the scale is unknown.
func (r Results) Score(scaleID string) float64 {
	return r.Scores[scaleID]
}

// Domains returns the domain means of a scale, or nil.
func (r Results) Domains(scaleID string) map[string]float64 {
	return r.DomainMeans[scaleID]
}
