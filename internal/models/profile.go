package models

import "fmt"

// Age bounds accepted at profile entry.
const (
	MinAge = 18
	MaxAge = 90
)

// Gender is the respondent's self-reported gender.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// Genders lists the selectable genders in presentation order.
func Genders() []Gender {
	return []Gender{GenderMale, GenderFemale, GenderOther}
}

// ParseGender accepts the canonical upper-case name or a common short form.
func ParseGender(s string) (Gender, error) {
	switch s {
	case "MALE", "male", "Male", "m", "M":
		return GenderMale, nil
	case "FEMALE", "female", "Female", "f", "F":
		return GenderFemale, nil
	case "OTHER", "other", "Other", "o", "O":
		return GenderOther, nil
	}
	return "", fmt.Errorf("invalid gender %q: must be one of MALE, FEMALE, OTHER", s)
}

// Label returns the display label for the gender.
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	case GenderOther:
		return "Other"
	default:
		return "Unspecified"
	}
}

// Profile describes the respondent. It is captured before the first scale and
// frozen once the assessment begins.
type Profile struct {
	Age       int    `yaml:"age" json:"age" validate:"min=18,max=90"`
	Gender    Gender `yaml:"gender" json:"gender" validate:"required,oneof=MALE FEMALE OTHER"`
	IsStudent bool   `yaml:"is_student" json:"is_student"`
}
