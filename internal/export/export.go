package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mesikahq/clinic-desk/internal/appointment"
	"github.com/mesikahq/clinic-desk/internal/apperr"
	"github.com/mesikahq/clinic-desk/internal/patient"
)

type Collection string

const (
	Patients     Collection = "patients"
	Appointments Collection = "appointments"
)

type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	YAML Format = "yaml"
)

func ParseCollection(text string) (Collection, error) {
	switch c := Collection(strings.ToLower(strings.TrimSpace(text))); c {
	case Patients, Appointments:
		return c, nil
	}
	return "", apperr.Validation("unknown collection %q", text)
}

func ParseFormat(text string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(text))); f {
	case CSV, JSON, YAML:
		return f, nil
	case "yml":
		return YAML, nil
	}
	return "", apperr.Validation("unknown export format %q", text)
}

// ContentType is the media type served for f.
func (f Format) ContentType() string {
	switch f {
	case CSV:
		return "text/csv"
	case YAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

type PatientLister interface {
	List(ctx context.Context) ([]patient.Patient, error)
}

type AppointmentLister interface {
	List(ctx context.Context, statusFilter string) ([]appointment.Appointment, error)
}

// Exporter writes whole collections without their store identifiers.
type Exporter struct {
	patients     PatientLister
	appointments AppointmentLister
}

func New(patients PatientLister, appointments AppointmentLister) *Exporter {
	return &Exporter{patients: patients, appointments: appointments}
}

func (e *Exporter) Export(ctx context.Context, c Collection, f Format, w io.Writer) error {
	var (
		header []string
		rows   tabular
		err    error
	)
	switch c {
	case Patients:
		header = patientColumns
		rows, err = e.patientRows(ctx)
	case Appointments:
		header = appointmentColumns
		rows, err = e.appointmentRows(ctx)
	default:
		return apperr.Validation("unknown collection %q", c)
	}
	if err != nil {
		return err
	}

	switch f {
	case CSV:
		return writeCSV(w, header, rows.records())
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows.values())
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows.values()); err != nil {
			return err
		}
		return enc.Close()
	default:
		return apperr.Validation("unknown export format %q", f)
	}
}

// ExportToFile creates or truncates path. A failed export removes the
// partial file.
func (e *Exporter) ExportToFile(ctx context.Context, c Collection, f Format, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := e.Export(ctx, c, f, file); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	return file.Close()
}

func (e *Exporter) patientRows(ctx context.Context) (tabular, error) {
	patients, err := e.patients.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make(patientRows, 0, len(patients))
	for _, p := range patients {
		rows = append(rows, patientRow{
			Name:             p.Name,
			Age:              p.Age,
			Gender:           string(p.Gender),
			Insurance:        string(p.Insurance),
			MedicalHistory:   p.MedicalHistory,
			RegistrationDate: p.RegistrationDate.UTC().Format(time.RFC3339),
		})
	}
	return rows, nil
}

func (e *Exporter) appointmentRows(ctx context.Context) (tabular, error) {
	appointments, err := e.appointments.List(ctx, "")
	if err != nil {
		return nil, err
	}
	rows := make(appointmentRows, 0, len(appointments))
	for _, a := range appointments {
		rows = append(rows, appointmentRow{
			PatientID:        a.PatientID,
			PatientName:      a.PatientName,
			Date:             a.Date.UTC().Format(appointment.DateLayout),
			Time:             a.Time,
			ConsultationType: string(a.ConsultationType),
			Reason:           a.Reason,
			BillAmount:       a.BillAmount,
			Status:           string(a.Status),
			CreatedAt:        a.CreatedAt.UTC().Format(time.RFC3339),
			CompletedAt:      formatOptional(a.CompletedAt),
			CancelledAt:      formatOptional(a.CancelledAt),
		})
	}
	return rows, nil
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeCSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
