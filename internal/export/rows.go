package export

import "strconv"

type tabular interface {
	records() [][]string
	values() any
}

var patientColumns = []string{
	"name", "age", "gender", "insurance", "medical_history", "registration_date",
}

type patientRow struct {
	Name             string `json:"name" yaml:"name"`
	Age              int    `json:"age" yaml:"age"`
	Gender           string `json:"gender" yaml:"gender"`
	Insurance        string `json:"insurance" yaml:"insurance"`
	MedicalHistory   string `json:"medical_history" yaml:"medical_history"`
	RegistrationDate string `json:"registration_date" yaml:"registration_date"`
}

type patientRows []patientRow

func (rows patientRows) records() [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Name, strconv.Itoa(r.Age), r.Gender, r.Insurance, r.MedicalHistory, r.RegistrationDate,
		})
	}
	return out
}

func (rows patientRows) values() any { return []patientRow(rows) }

var appointmentColumns = []string{
	"patient_id", "patient_name", "date", "time", "consultation_type", "reason",
	"bill_amount", "status", "created_at", "completed_at", "cancelled_at",
}

type appointmentRow struct {
	PatientID        string  `json:"patient_id" yaml:"patient_id"`
	PatientName      string  `json:"patient_name" yaml:"patient_name"`
	Date             string  `json:"date" yaml:"date"`
	Time             string  `json:"time" yaml:"time"`
	ConsultationType string  `json:"consultation_type" yaml:"consultation_type"`
	Reason           string  `json:"reason" yaml:"reason"`
	BillAmount       float64 `json:"bill_amount" yaml:"bill_amount"`
	Status           string  `json:"status" yaml:"status"`
	CreatedAt        string  `json:"created_at" yaml:"created_at"`
	CompletedAt      string  `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	CancelledAt      string  `json:"cancelled_at,omitempty" yaml:"cancelled_at,omitempty"`
}

type appointmentRows []appointmentRow

func (rows appointmentRows) records() [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.PatientID, r.PatientName, r.Date, r.Time, r.ConsultationType, r.Reason,
			formatFloat(r.BillAmount), r.Status, r.CreatedAt, r.CompletedAt, r.CancelledAt,
		})
	}
	return out
}

func (rows appointmentRows) values() any { return []appointmentRow(rows) }
