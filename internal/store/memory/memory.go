// Package memory is an in-process record store. It implements the same
// repositories as the MongoDB store and backs tests and local demos.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mesikahq/clinic-desk/internal/apperr"
	"github.com/mesikahq/clinic-desk/internal/appointment"
	"github.com/mesikahq/clinic-desk/internal/audit"
	"github.com/mesikahq/clinic-desk/internal/patient"
	"github.com/mesikahq/clinic-desk/internal/reporting"
)

// Store holds the three collections in insertion order.
type Store struct {
	mu           sync.RWMutex
	patients     []patient.Patient
	appointments []appointment.Appointment
	auditLogs    []audit.Entry
}

func New() *Store {
	return &Store{}
}

func (s *Store) Patients() *PatientRepository { return &PatientRepository{s: s} }

func (s *Store) Appointments() *AppointmentRepository { return &AppointmentRepository{s: s} }

func (s *Store) AuditLogs() *AuditRepository { return &AuditRepository{s: s} }

func (s *Store) Reports() *ReportStore { return &ReportStore{s: s} }

func newID() string {
	return primitive.NewObjectID().Hex()
}

// PatientRepository implements patient.Repository.
type PatientRepository struct {
	s *Store
}

var _ patient.Repository = (*PatientRepository)(nil)

func (r *PatientRepository) Insert(_ context.Context, p *patient.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = newID()
	r.s.patients = append(r.s.patients, *p)
	return nil
}

func (r *PatientRepository) Update(_ context.Context, id string, f patient.Fields) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return apperr.NotFound("patient %s", id)
	}
	p := &r.s.patients[i]
	p.Name = f.Name
	p.Age = f.Age
	p.Gender = f.Gender
	p.Insurance = f.Insurance
	p.MedicalHistory = f.MedicalHistory
	return nil
}

func (r *PatientRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return apperr.NotFound("patient %s", id)
	}
	r.s.patients = append(r.s.patients[:i], r.s.patients[i+1:]...)
	return nil
}

func (r *PatientRepository) Get(_ context.Context, id string) (*patient.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i := r.index(id)
	if i < 0 {
		return nil, apperr.NotFound("patient %s", id)
	}
	p := r.s.patients[i]
	return &p, nil
}

func (r *PatientRepository) List(ctx context.Context) ([]patient.Patient, error) {
	return r.Find(ctx, patient.Query{})
}

func (r *PatientRepository) Find(_ context.Context, q patient.Query) ([]patient.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []patient.Patient{}
	for _, p := range r.s.patients {
		if matches(p, q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PatientRepository) FindByName(_ context.Context, name string) (*patient.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.patients {
		if p.Name == name {
			found := p
			return &found, nil
		}
	}
	return nil, apperr.NotFound("patient named %q", name)
}

func (r *PatientRepository) SuggestNames(_ context.Context, prefix string, limit int) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	prefix = strings.ToLower(prefix)
	names := []string{}
	for _, p := range r.s.patients {
		if limit > 0 && len(names) == limit {
			break
		}
		if strings.HasPrefix(strings.ToLower(p.Name), prefix) {
			names = append(names, p.Name)
		}
	}
	return names, nil
}

func (r *PatientRepository) index(id string) int {
	for i, p := range r.s.patients {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func matches(p patient.Patient, q patient.Query) bool {
	if q.NameContains != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.NameContains)) {
		return false
	}
	if q.Age != nil && (p.Age < q.Age.Min || p.Age > q.Age.Max) {
		return false
	}
	if q.Registered != nil {
		if p.RegistrationDate.Before(q.Registered.From) || !p.RegistrationDate.Before(q.Registered.Until) {
			return false
		}
	}
	if q.Insurance != "" && p.Insurance != q.Insurance {
		return false
	}
	return true
}

// AppointmentRepository implements appointment.Repository.
type AppointmentRepository struct {
	s *Store
}

var _ appointment.Repository = (*AppointmentRepository)(nil)

func (r *AppointmentRepository) Insert(_ context.Context, a *appointment.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a.ID = newID()
	r.s.appointments = append(r.s.appointments, copyAppointment(*a))
	return nil
}

func (r *AppointmentRepository) Get(_ context.Context, id string) (*appointment.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.appointments {
		if a.ID == id {
			found := copyAppointment(a)
			return &found, nil
		}
	}
	return nil, apperr.NotFound("appointment %s", id)
}

func (r *AppointmentRepository) SetStatus(_ context.Context, id string, status appointment.Status, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.appointments {
		a := &r.s.appointments[i]
		if a.ID != id {
			continue
		}
		a.Status = status
		stamp := at
		switch status {
		case appointment.StatusCompleted:
			a.CompletedAt = &stamp
		case appointment.StatusCancelled:
			a.CancelledAt = &stamp
		}
		return nil
	}
	return apperr.NotFound("appointment %s", id)
}

func (r *AppointmentRepository) List(_ context.Context, status appointment.Status) ([]appointment.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []appointment.Appointment{}
	for _, a := range r.s.appointments {
		if status == "" || a.Status == status {
			out = append(out, copyAppointment(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func copyAppointment(a appointment.Appointment) appointment.Appointment {
	if a.CompletedAt != nil {
		t := *a.CompletedAt
		a.CompletedAt = &t
	}
	if a.CancelledAt != nil {
		t := *a.CancelledAt
		a.CancelledAt = &t
	}
	return a
}

// AuditRepository implements audit.Repository.
type AuditRepository struct {
	s *Store
}

var _ audit.Repository = (*AuditRepository)(nil)

func (r *AuditRepository) Append(_ context.Context, entry *audit.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry.ID = newID()
	r.s.auditLogs = append(r.s.auditLogs, *entry)
	return nil
}

func (r *AuditRepository) Latest(_ context.Context, limit int) ([]audit.Entry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]audit.Entry, 0, len(r.s.auditLogs))
	for i := len(r.s.auditLogs) - 1; i >= 0; i-- {
		out = append(out, r.s.auditLogs[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ReportStore implements reporting.Store by scanning the collections.
type ReportStore struct {
	s *Store
}

var _ reporting.Store = (*ReportStore)(nil)

func (r *ReportStore) CountPatients(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.patients)), nil
}

func (r *ReportStore) CountAppointmentsBetween(_ context.Context, from, until time.Time) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, a := range r.s.appointments {
		if !a.Date.Before(from) && a.Date.Before(until) {
			n++
		}
	}
	return n, nil
}

func (r *ReportStore) AverageAge(_ context.Context) (float64, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if len(r.s.patients) == 0 {
		return 0, false, nil
	}
	var total int
	for _, p := range r.s.patients {
		total += p.Age
	}
	return float64(total) / float64(len(r.s.patients)), true, nil
}

func (r *ReportStore) CompletedRevenue(_ context.Context) (float64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var total float64
	for _, a := range r.s.appointments {
		if a.Status == appointment.StatusCompleted {
			total += a.BillAmount
		}
	}
	return total, nil
}

func (r *ReportStore) CountPatientsByGender(_ context.Context) ([]reporting.CategoryCount, error) {
	return r.countPatientsBy(func(p patient.Patient) string { return string(p.Gender) }), nil
}

func (r *ReportStore) CountPatientsByInsurance(_ context.Context) ([]reporting.CategoryCount, error) {
	return r.countPatientsBy(func(p patient.Patient) string { return string(p.Insurance) }), nil
}

func (r *ReportStore) countPatientsBy(key func(patient.Patient) string) []reporting.CategoryCount {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []reporting.CategoryCount
	index := map[string]int{}
	for _, p := range r.s.patients {
		k := key(p)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, reporting.CategoryCount{Key: k})
		}
		out[i].Count++
	}
	return out
}

func (r *ReportStore) PatientAges(_ context.Context) ([]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ages := make([]int, 0, len(r.s.patients))
	for _, p := range r.s.patients {
		ages = append(ages, p.Age)
	}
	return ages, nil
}

func (r *ReportStore) AppointmentsPerMonth(_ context.Context) ([]reporting.MonthCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	dates := make([]time.Time, 0, len(r.s.appointments))
	for _, a := range r.s.appointments {
		dates = append(dates, a.Date)
	}
	return perMonth(dates), nil
}

func (r *ReportStore) RegistrationsPerMonth(_ context.Context) ([]reporting.MonthCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	dates := make([]time.Time, 0, len(r.s.patients))
	for _, p := range r.s.patients {
		dates = append(dates, p.RegistrationDate)
	}
	return perMonth(dates), nil
}

func (r *ReportStore) CompletedRevenueByType(_ context.Context) ([]reporting.TypeRevenue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []reporting.TypeRevenue
	index := map[string]int{}
	for _, a := range r.s.appointments {
		if a.Status != appointment.StatusCompleted {
			continue
		}
		k := string(a.ConsultationType)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, reporting.TypeRevenue{Type: k})
		}
		out[i].Total += a.BillAmount
		out[i].Count++
	}
	return out, nil
}

// perMonth groups by UTC calendar month, like $year/$month in MongoDB.
func perMonth(dates []time.Time) []reporting.MonthCount {
	type key struct{ y, m int }
	counts := map[key]int64{}
	for _, d := range dates {
		d = d.UTC()
		counts[key{d.Year(), int(d.Month())}]++
	}

	out := make([]reporting.MonthCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, reporting.MonthCount{Year: k.y, Month: k.m, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}
