package appointment

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mesikahq/clinic-desk/internal/apperr"
	"github.com/mesikahq/clinic-desk/internal/audit"
)

const (
	// DefaultSuggestLimit caps SuggestPatientNames when the caller passes zero.
	DefaultSuggestLimit = 10
	// MinSuggestPrefix is the shortest prefix that produces suggestions.
	MinSuggestPrefix = 2
)

type Service interface {
	Schedule(ctx context.Context, in ScheduleInput) (*Appointment, error)
	Get(ctx context.Context, id string) (*Appointment, error)
	Complete(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	List(ctx context.Context, statusFilter string) ([]Appointment, error)
	SuggestPatientNames(ctx context.Context, prefix string, limit int) ([]string, error)
}

type Option func(*service)

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithPolicy selects the status transition policy. The default is Lenient.
func WithPolicy(p Policy) Option {
	return func(s *service) { s.policy = p }
}

type service struct {
	repo     Repository
	patients PatientDirectory
	audit    audit.Recorder
	policy   Policy
	now      func() time.Time
}

func NewService(repo Repository, patients PatientDirectory, audit audit.Recorder, opts ...Option) Service {
	s := &service{
		repo:     repo,
		patients: patients,
		audit:    audit,
		policy:   Lenient,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Schedule(ctx context.Context, in ScheduleInput) (*Appointment, error) {
	name := strings.TrimSpace(in.PatientName)
	if name == "" {
		return nil, apperr.Validation("patient name is required")
	}

	date, err := time.Parse(DateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return nil, apperr.Validation("invalid date format %q, use YYYY-MM-DD", in.Date)
	}

	clock, err := time.Parse(TimeLayout, strings.TrimSpace(in.Time))
	if err != nil {
		return nil, apperr.Validation("invalid time format %q, use HH:MM", in.Time)
	}

	kind, err := parseConsultationType(in.ConsultationType)
	if err != nil {
		return nil, err
	}

	bill, err := parseBillAmount(in.BillAmount)
	if err != nil {
		return nil, err
	}

	p, err := s.patients.FindByName(ctx, name)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Validation("patient not found")
		}
		return nil, err
	}

	appt := &Appointment{
		PatientID:        p.ID,
		PatientName:      p.Name,
		Date:             date,
		Time:             clock.Format(TimeLayout),
		ConsultationType: kind,
		Reason:           strings.TrimSpace(in.Reason),
		BillAmount:       bill,
		Status:           StatusScheduled,
		CreatedAt:        s.now().UTC().Truncate(time.Millisecond),
	}

	if err := s.repo.Insert(ctx, appt); err != nil {
		return nil, err
	}

	if err := s.audit.Record(ctx, fmt.Sprintf("Scheduled appointment for %s", appt.PatientName)); err != nil {
		return appt, err
	}

	return appt, nil
}

func (s *service) Get(ctx context.Context, id string) (*Appointment, error) {
	if id == "" {
		return nil, apperr.NotFound("no appointment selected")
	}
	return s.repo.Get(ctx, id)
}

func (s *service) Complete(ctx context.Context, id string) error {
	if err := s.transition(ctx, id, StatusCompleted); err != nil {
		return err
	}
	return s.audit.Record(ctx, fmt.Sprintf("Marked appointment as completed: %s", id))
}

func (s *service) Cancel(ctx context.Context, id string) error {
	if err := s.transition(ctx, id, StatusCancelled); err != nil {
		return err
	}
	return s.audit.Record(ctx, fmt.Sprintf("Cancelled appointment: %s", id))
}

func (s *service) transition(ctx context.Context, id string, to Status) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !s.policy.Allows(current.Status, to) {
		return apperr.Validation("cannot move appointment from %s to %s", current.Status, to)
	}

	return s.repo.SetStatus(ctx, id, to, s.now().UTC().Truncate(time.Millisecond))
}

func (s *service) List(ctx context.Context, statusFilter string) ([]Appointment, error) {
	status, err := ParseStatusFilter(strings.TrimSpace(statusFilter))
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, status)
}

func (s *service) SuggestPatientNames(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if len([]rune(prefix)) < MinSuggestPrefix {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	return s.patients.SuggestNames(ctx, prefix, limit)
}

func parseConsultationType(text string) (ConsultationType, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ConsultationGeneralCheckup, nil
	}
	for _, t := range ConsultationTypes {
		if string(t) == text {
			return t, nil
		}
	}
	return "", apperr.Validation("invalid consultation type %q", text)
}

func parseBillAmount(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	amount, err := strconv.ParseFloat(text, 64)
	if err != nil || amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, apperr.Validation("invalid bill amount %q", text)
	}
	return amount, nil
}
