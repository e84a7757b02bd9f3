package patient

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mesikahq/clinic-desk/internal/apperr"
	"github.com/mesikahq/clinic-desk/internal/audit"
)

const dateLayout = "2006-01-02"

// Default bounds used when an age filter bound is missing or not a number.
const (
	DefaultMinAge = 0
	DefaultMaxAge = 100
)

type Service interface {
	Create(ctx context.Context, in Input) (*Patient, error)
	Update(ctx context.Context, id string, in Input) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Patient, error)
	Get(ctx context.Context, id string) (*Patient, error)
	SearchByName(ctx context.Context, substring string) ([]Patient, error)
	FilterByAge(ctx context.Context, min, max string) ([]Patient, error)
	FilterByDateRange(ctx context.Context, from, to string) ([]Patient, error)
	FilterByInsurance(ctx context.Context, value string) ([]Patient, error)
}

type Option func(*service)

// WithClock overrides time.Now for registration dates.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithLocation sets the zone date range filters are read in.
func WithLocation(loc *time.Location) Option {
	return func(s *service) { s.loc = loc }
}

type service struct {
	repo  Repository
	audit audit.Recorder
	now   func() time.Time
	loc   *time.Location
}

func NewService(repo Repository, audit audit.Recorder, opts ...Option) Service {
	s := &service{
		repo:  repo,
		audit: audit,
		now:   time.Now,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, in Input) (*Patient, error) {
	fields, err := in.Normalize()
	if err != nil {
		return nil, err
	}

	patient := &Patient{
		Name:             fields.Name,
		Age:              fields.Age,
		Gender:           fields.Gender,
		Insurance:        fields.Insurance,
		MedicalHistory:   fields.MedicalHistory,
		RegistrationDate: s.now().UTC().Truncate(time.Millisecond),
	}

	if err := s.repo.Insert(ctx, patient); err != nil {
		return nil, err
	}

	if err := s.audit.Record(ctx, fmt.Sprintf("Added patient: %s (ID: %s)", patient.Name, patient.ID)); err != nil {
		return patient, err
	}

	return patient, nil
}

func (s *service) Update(ctx context.Context, id string, in Input) error {
	if id == "" {
		return apperr.NotFound("no patient selected")
	}

	fields, err := in.Normalize()
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return err
	}

	return s.audit.Record(ctx, fmt.Sprintf("Updated patient ID: %s", id))
}

func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperr.NotFound("no patient selected")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	return s.audit.Record(ctx, fmt.Sprintf("Deleted patient ID: %s", id))
}

func (s *service) List(ctx context.Context) ([]Patient, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id string) (*Patient, error) {
	if id == "" {
		return nil, apperr.NotFound("no patient selected")
	}
	return s.repo.Get(ctx, id)
}

func (s *service) SearchByName(ctx context.Context, substring string) ([]Patient, error) {
	return s.repo.Find(ctx, Query{NameContains: substring})
}

// FilterByAge matches min <= age <= max. Bounds that are not
// non-negative integers fall back to DefaultMinAge and DefaultMaxAge.
func (s *service) FilterByAge(ctx context.Context, min, max string) ([]Patient, error) {
	return s.repo.Find(ctx, Query{Age: &AgeRange{
		Min: parseBound(min, DefaultMinAge),
		Max: parseBound(max, DefaultMaxAge),
	}})
}

// FilterByDateRange matches registration dates on or after the from day and
// on or before the to day. Missing bounds leave that side open.
func (s *service) FilterByDateRange(ctx context.Context, from, to string) ([]Patient, error) {
	dr := DateRange{From: MinTime, Until: MaxTime}

	if from = strings.TrimSpace(from); from != "" {
		t, err := time.ParseInLocation(dateLayout, from, s.loc)
		if err != nil {
			return nil, apperr.Validation("invalid date format %q, use YYYY-MM-DD", from)
		}
		dr.From = t
	}

	if to = strings.TrimSpace(to); to != "" {
		t, err := time.ParseInLocation(dateLayout, to, s.loc)
		if err != nil {
			return nil, apperr.Validation("invalid date format %q, use YYYY-MM-DD", to)
		}
		dr.Until = t.AddDate(0, 0, 1)
	}

	return s.repo.Find(ctx, Query{Registered: &dr})
}

func (s *service) FilterByInsurance(ctx context.Context, value string) ([]Patient, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == InsuranceAll {
		return s.repo.List(ctx)
	}
	return s.repo.Find(ctx, Query{Insurance: Insurance(value)})
}

func parseBound(text string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
