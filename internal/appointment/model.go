package appointment

import (
	"encoding/json"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type ConsultationType string

const (
	ConsultationGeneralCheckup ConsultationType = "General Checkup"
	ConsultationFollowUp       ConsultationType = "Follow-up"
	ConsultationSpecialist     ConsultationType = "Specialist"
	ConsultationEmergency      ConsultationType = "Emergency"
	ConsultationVaccination    ConsultationType = "Vaccination"
)

var ConsultationTypes = []ConsultationType{
	ConsultationGeneralCheckup,
	ConsultationFollowUp,
	ConsultationSpecialist,
	ConsultationEmergency,
	ConsultationVaccination,
}

type Appointment struct {
	ID               string           `json:"id" bson:"_id,omitempty"`
	PatientID        string           `json:"patient_id" bson:"patient_id"`
	PatientName      string           `json:"patient_name" bson:"patient_name"`
	Date             time.Time        `json:"date" bson:"date"`
	Time             string           `json:"time" bson:"time"`
	ConsultationType ConsultationType `json:"consultation_type" bson:"consultation_type"`
	Reason           string           `json:"reason" bson:"reason"`
	BillAmount       float64          `json:"bill_amount" bson:"bill_amount"`
	Status           Status           `json:"status" bson:"status"`
	CreatedAt        time.Time        `json:"created_at" bson:"created_at"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CancelledAt      *time.Time       `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
}

// MarshalJSON renders Date as a calendar day.
func (a Appointment) MarshalJSON() ([]byte, error) {
	type Alias Appointment
	return json.Marshal(&struct {
		Alias
		Date string `json:"date"`
	}{
		Alias: Alias(a),
		Date:  a.Date.Format(DateLayout),
	})
}

// ScheduleInput carries the booking form as typed at the desk.
type ScheduleInput struct {
	PatientName      string `json:"patient_name"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	ConsultationType string `json:"consultation_type"`
	Reason           string `json:"reason"`
	BillAmount       string `json:"bill_amount"`
}
