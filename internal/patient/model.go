package patient

import (
	"strconv"
	"strings"
	"time"

	"github.com/mesikahq/clinic-desk/internal/apperr"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Genders lists the accepted values in display order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

type Insurance string

const (
	InsurancePrivate  Insurance = "Private"
	InsuranceMedicare Insurance = "Medicare"
	InsuranceMedicaid Insurance = "Medicaid"
	InsuranceNone     Insurance = "None"
)

// InsuranceAll is the filter sentinel that matches every patient.
const InsuranceAll = "All"

var Insurances = []Insurance{InsurancePrivate, InsuranceMedicare, InsuranceMedicaid, InsuranceNone}

type Patient struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	Name             string    `json:"name" bson:"name"`
	Age              int       `json:"age" bson:"age"`
	Gender           Gender    `json:"gender" bson:"gender"`
	Insurance        Insurance `json:"insurance" bson:"insurance"`
	MedicalHistory   string    `json:"medical_history" bson:"medical_history"`
	RegistrationDate time.Time `json:"registration_date" bson:"registration_date"`
}

// Input carries the patient form as typed at the desk.
type Input struct {
	Name           string `json:"name"`
	Age            string `json:"age"`
	Gender         string `json:"gender"`
	Insurance      string `json:"insurance"`
	MedicalHistory string `json:"medical_history"`
}

// Fields are the mutable patient values after normalization.
type Fields struct {
	Name           string
	Age            int
	Gender         Gender
	Insurance      Insurance
	MedicalHistory string
}

// Normalize validates the input and applies the desk defaults.
func (in Input) Normalize() (Fields, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Fields{}, apperr.Validation("name cannot be empty")
	}

	gender, err := ParseGender(in.Gender)
	if err != nil {
		return Fields{}, err
	}

	insurance, err := ParseInsurance(in.Insurance)
	if err != nil {
		return Fields{}, err
	}

	return Fields{
		Name:           name,
		Age:            ParseAge(in.Age),
		Gender:         gender,
		Insurance:      insurance,
		MedicalHistory: strings.TrimSpace(in.MedicalHistory),
	}, nil
}

// ParseAge returns the age in text, or 0 when it is not a non-negative integer.
func ParseAge(text string) int {
	age, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || age < 0 {
		return 0
	}
	return age
}

func ParseGender(text string) (Gender, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return GenderOther, nil
	}
	for _, g := range Genders {
		if string(g) == text {
			return g, nil
		}
	}
	return "", apperr.Validation("invalid gender %q", text)
}

func ParseInsurance(text string) (Insurance, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return InsuranceNone, nil
	}
	for _, i := range Insurances {
		if string(i) == text {
			return i, nil
		}
	}
	return "", apperr.Validation("invalid insurance %q", text)
}
