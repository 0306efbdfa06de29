package scoring

import (
	"github.com/harrison/adhdscreen/internal/models"
)

// Band is the side of a clinical cutoff a score falls on.
type Band int

const (
	// BandNone means the scale has no threshold.
	BandNone Band = iota
	BandBelow
	BandAtOrAbove
)

func (b Band) String() string {
	switch b {
	case BandAtOrAbove:
		return "at_or_above"
	case BandBelow:
		return "below"
	default:
		return "none"
	}
}

// Classify compares the raw score with the scale's threshold using >=.
// Mean scores are compared unrounded.
func Classify(s *models.Scale, score float64) Band {
	if s.Threshold == nil {
		return BandNone
	}
	if score >= *s.Threshold {
		return BandAtOrAbove
	}
	return BandBelow
}

// BandLabel returns the scale's label for a band, falling back to a generic
// wording when the catalog supplies none.
func BandLabel(s *models.Scale, b Band) string {
	switch b {
	case BandAtOrAbove:
		if s.ThresholdLabels.AtOrAbove != "" {
			return s.ThresholdLabels.AtOrAbove
		}
		return "above threshold"
	case BandBelow:
		if s.ThresholdLabels.Below != "" {
			return s.ThresholdLabels.Below
		}
		return "below threshold"
	default:
		return ""
	}
}

// DomainOrder lists the scale's domain labels in order of first appearance
// within the effective question set.
func DomainOrder(s *models.Scale, profile models.Profile) []string {
	var order []string
	seen := make(map[string]bool)
	for _, q := range s.EffectiveQuestions(profile) {
		if q.Domain == "" || seen[q.Domain] {
			continue
		}
		seen[q.Domain] = true
		order = append(order, q.Domain)
	}
	return order
}

// DomainMean pairs a domain with its mean.
type DomainMean struct {
	Domain string
	Mean   float64
}

// FlaggedDomains returns the domains whose mean meets or exceeds the scale's
// domain flag threshold, in catalog order. Scales without a flag threshold
// never flag.
func FlaggedDomains(s *models.Scale, profile models.Profile, means map[string]float64) []DomainMean {
	if s.DomainFlagThreshold == nil {
		return nil
	}
	var out []DomainMean
	for _, d := range DomainOrder(s, profile) {
		m, ok := means[d]
		if ok && m >= *s.DomainFlagThreshold {
			out = append(out, DomainMean{Domain: d, Mean: m})
		}
	}
	return out
}

// SevereItems returns the effective questions answered with the scale's
// highest scored option, in catalog order.
func SevereItems(s *models.Scale, profile models.Profile, answers models.AnswerMap) []models.Question {
	top := s.MaxOptionValue()
	var out []models.Question
	for _, q := range s.EffectiveQuestions(profile) {
		r, ok := answers.Get(s.ID, q.ID)
		if ok && r.Scored() && r.Value == top {
			out = append(out, q)
		}
	}
	return out
}

// MaxScore is the highest achievable score for the respondent: the top option
// value times the effective item count for sum scales, the top option value
// for mean scales.
func MaxScore(s *models.Scale, profile models.Profile) float64 {
	top := s.MaxOptionValue()
	if s.ScoringType == models.ScoringMean {
		return top
	}
	return top * float64(len(s.EffectiveQuestions(profile)))
}
