// Package scoring turns recorded answers into scale scores.
//
// Everything here is a pure function of (profile, answers, catalog): no I/O,
// no hidden state, and questions are always walked in catalog order so that
// floating point sums are reproducible bit for bit.
package scoring

import (
	"github.com/harrison/adhdscreen/internal/catalog"
	"github.com/harrison/adhdscreen/internal/models"
)

// ComputeResults scores every scale in the catalog.
func ComputeResults(profile models.Profile, answers models.AnswerMap, cat *catalog.Catalog) models.Results {
	res := models.Results{
		Profile:     profile,
		Scores:      make(map[string]float64, cat.Len()),
		DomainMeans: make(map[string]map[string]float64),
		Answers:     answers.Clone(),
	}
	for _, s := range cat.Scales() {
		score, domains := ScoreScale(s, profile, answers)
		res.Scores[s.ID] = score
		if domains != nil {
			res.DomainMeans[s.ID] = domains
		}
	}
	return res
}

// ScoreScale computes one scale's score and, for mean scales, its domain
// means. Domain means are nil for sum scales.
func ScoreScale(s *models.Scale, profile models.Profile, answers models.AnswerMap) (float64, map[string]float64) {
	var sum float64
	var count int

	type acc struct {
		sum   float64
		count int
	}
	var domains map[string]*acc
	if s.ScoringType == models.ScoringMean {
		domains = make(map[string]*acc)
	}

	for _, q := range s.EffectiveQuestions(profile) {
		if domains != nil && q.Domain != "" {
			if _, ok := domains[q.Domain]; !ok {
				domains[q.Domain] = &acc{}
			}
		}

		r, ok := answers.Get(s.ID, q.ID)
		if !ok || !r.Scored() {
			continue
		}
		sum += r.Value
		count++
		if domains != nil && q.Domain != "" {
			d := domains[q.Domain]
			d.sum += r.Value
			d.count++
		}
	}

	if s.ScoringType != models.ScoringMean {
		return sum, nil
	}

	means := make(map[string]float64, len(domains))
	for name, d := range domains {
		means[name] = mean(d.sum, d.count)
	}
	return mean(sum, count), means
}

func mean(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// IsComplete reports whether every effective question of the scale has a
// recorded answer. Not-applicable counts as answered.
func IsComplete(s *models.Scale, profile models.Profile, answers models.AnswerMap) bool {
	for _, q := range s.EffectiveQuestions(profile) {
		if _, ok := answers.Get(s.ID, q.ID); !ok {
			return false
		}
	}
	return true
}

// Progress returns how many effective questions are answered and how many
// there are.
func Progress(s *models.Scale, profile models.Profile, answers models.AnswerMap) (answered, total int) {
	qs := s.EffectiveQuestions(profile)
	for _, q := range qs {
		if _, ok := answers.Get(s.ID, q.ID); ok {
			answered++
		}
	}
	return answered, len(qs)
}
