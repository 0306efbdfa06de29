// Package session holds the state of one respondent's assessment: who they
// are and what they have answered so far.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/harrison/adhdscreen/internal/catalog"
	"github.com/harrison/adhdscreen/internal/models"
	"github.com/harrison/adhdscreen/internal/scoring"
)

var (
	// ErrUnknownScale is returned when a scale ID is not in the catalog.
	ErrUnknownScale = errors.New("session: unknown scale")
	// ErrUnknownQuestion is returned for question IDs outside the scale's
	// effective question set.
	ErrUnknownQuestion = errors.New("session: unknown question")
	// ErrInvalidOption is returned for values that match no option.
	ErrInvalidOption = errors.New("session: invalid option value")
	// ErrInvalidProfile wraps profile validation failures.
	ErrInvalidProfile = errors.New("session: invalid profile")
)

var validate = validator.New()

// Session is the response store for a single assessment. It has one writer
// (the flow controller) and is not safe for concurrent mutation on its own.
type Session struct {
	id      string
	profile models.Profile
	answers models.AnswerMap
	catalog *catalog.Catalog
}

// New starts an empty session against a catalog.
func New(cat *catalog.Catalog) *Session {
	return &Session{
		id:      uuid.New().String(),
		answers: models.AnswerMap{},
		catalog: cat,
	}
}

// ID is the session's random identifier.
func (s *Session) ID() string {
	return s.id
}

// ShortID is the first eight characters of the ID, used in shared text.
func (s *Session) ShortID() string {
	return strings.ToUpper(s.id[:8])
}

// Catalog returns the catalog the session answers against.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Profile returns the current profile.
func (s *Session) Profile() models.Profile {
	return s.profile
}

// ValidateProfile checks a profile against the accepted ranges.
func ValidateProfile(p models.Profile) error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", ErrInvalidProfile, formatValidationErrors(verrs))
		}
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return nil
}

func formatValidationErrors(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must be between %d and %d", field, models.MinAge, models.MaxAge))
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", field, strings.Join(strings.Fields(fe.Param()), ", ")))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, ", ")
}

// SetProfile validates and stores the profile. Invalid input leaves the
// previous profile untouched.
func (s *Session) SetProfile(p models.Profile) error {
	if err := ValidateProfile(p); err != nil {
		return err
	}
	s.profile = p
	return nil
}

// Record stores the answer to one item, replacing any earlier answer. The
// value -1 selects the scale's not-applicable option.
func (s *Session) Record(scaleID string, questionID int, value float64) (models.Option, error) {
	scale, ok := s.catalog.Get(scaleID)
	if !ok {
		return models.Option{}, fmt.Errorf("%w: %q", ErrUnknownScale, scaleID)
	}
	if _, ok := scale.EffectiveQuestion(s.profile, questionID); !ok {
		return models.Option{}, fmt.Errorf("%w: %s #%d", ErrUnknownQuestion, scaleID, questionID)
	}
	opt, ok := scale.OptionByValue(value)
	if !ok {
		return models.Option{}, fmt.Errorf("%w: %g for %s", ErrInvalidOption, value, scaleID)
	}
	s.answers.Set(scaleID, questionID, opt.Response())
	return opt, nil
}

// Answer returns the recorded answer for an item.
func (s *Session) Answer(scaleID string, questionID int) (models.Response, bool) {
	return s.answers.Get(scaleID, questionID)
}

// Answers returns a copy of every recorded answer.
func (s *Session) Answers() models.AnswerMap {
	return s.answers.Clone()
}

// IsComplete reports whether every effective item of the scale is answered.
func (s *Session) IsComplete(scaleID string) bool {
	scale, ok := s.catalog.Get(scaleID)
	if !ok {
		return false
	}
	return scoring.IsComplete(scale, s.profile, s.answers)
}

// Results scores the session.
func (s *Session) Results() models.Results {
	return scoring.ComputeResults(s.profile, s.answers, s.catalog)
}
