package reporting

import (
	"context"
	"sort"
	"time"

	"github.com/mesikahq/clinic-desk/internal/patient"
)

const (
	binWidth = 10
	binCount = 10
)

type Service interface {
	Summary(ctx context.Context) (*Summary, error)
	TotalPatients(ctx context.Context) (int64, error)
	TodaysAppointmentCount(ctx context.Context) (int64, error)
	AverageAge(ctx context.Context) (float64, error)
	TotalRevenue(ctx context.Context) (float64, error)
	GenderBreakdown(ctx context.Context) (*Breakdown, error)
	AgeHistogram(ctx context.Context) (*Histogram, error)
	InsuranceBreakdown(ctx context.Context) (*Breakdown, error)
	AppointmentsByMonth(ctx context.Context) (*MonthlySeries, error)
	RegistrationsByMonth(ctx context.Context) (*MonthlySeries, error)
	RevenueByConsultationType(ctx context.Context) (*RevenueBreakdown, error)
}

type Option func(*service)

// WithClock overrides time.Now when resolving "today".
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store, opts ...Option) Service {
	s := &service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	var (
		sum Summary
		err error
	)
	if sum.TotalPatients, err = s.TotalPatients(ctx); err != nil {
		return nil, err
	}
	if sum.TodaysAppointments, err = s.TodaysAppointmentCount(ctx); err != nil {
		return nil, err
	}
	if sum.AverageAge, err = s.AverageAge(ctx); err != nil {
		return nil, err
	}
	if sum.TotalRevenue, err = s.TotalRevenue(ctx); err != nil {
		return nil, err
	}
	return &sum, nil
}

func (s *service) TotalPatients(ctx context.Context) (int64, error) {
	return s.store.CountPatients(ctx)
}

// TodaysAppointmentCount counts appointments dated on the current local
// calendar day. Appointment dates are stored as UTC midnight.
func (s *service) TodaysAppointmentCount(ctx context.Context) (int64, error) {
	y, m, d := s.now().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return s.store.CountAppointmentsBetween(ctx, start, start.AddDate(0, 0, 1))
}

func (s *service) AverageAge(ctx context.Context) (float64, error) {
	avg, ok, err := s.store.AverageAge(ctx)
	if err != nil || !ok {
		return 0, err
	}
	return avg, nil
}

func (s *service) TotalRevenue(ctx context.Context) (float64, error) {
	return s.store.CompletedRevenue(ctx)
}

func (s *service) GenderBreakdown(ctx context.Context) (*Breakdown, error) {
	groups, err := s.store.CountPatientsByGender(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(groups))
	for _, g := range groups {
		counts[g.Key] = g.Count
	}

	var total int64
	out := &Breakdown{Buckets: make([]CategoryCount, 0, len(patient.Genders))}
	for _, g := range patient.Genders {
		n := counts[string(g)]
		total += n
		out.Buckets = append(out.Buckets, CategoryCount{Key: string(g), Count: n})
	}
	out.NoData = total == 0
	return out, nil
}

// AgeHistogram buckets ages into [0,10), [10,20), ... [90,100].
// Ages outside [0,100] are not counted.
func (s *service) AgeHistogram(ctx context.Context) (*Histogram, error) {
	ages, err := s.store.PatientAges(ctx)
	if err != nil {
		return nil, err
	}

	out := &Histogram{NoData: len(ages) == 0, Bins: make([]Bin, binCount)}
	for i := range out.Bins {
		out.Bins[i] = Bin{Lower: i * binWidth, Upper: (i + 1) * binWidth}
	}
	for _, age := range ages {
		if age < 0 || age > binWidth*binCount {
			continue
		}
		i := age / binWidth
		if i == binCount {
			i--
		}
		out.Bins[i].Count++
	}
	return out, nil
}

func (s *service) InsuranceBreakdown(ctx context.Context) (*Breakdown, error) {
	groups, err := s.store.CountPatientsByInsurance(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return &Breakdown{NoData: len(groups) == 0, Buckets: nonNil(groups)}, nil
}

func (s *service) AppointmentsByMonth(ctx context.Context) (*MonthlySeries, error) {
	points, err := s.store.AppointmentsPerMonth(ctx)
	if err != nil {
		return nil, err
	}
	return monthly(points), nil
}

func (s *service) RegistrationsByMonth(ctx context.Context) (*MonthlySeries, error) {
	points, err := s.store.RegistrationsPerMonth(ctx)
	if err != nil {
		return nil, err
	}
	return monthly(points), nil
}

func (s *service) RevenueByConsultationType(ctx context.Context) (*RevenueBreakdown, error) {
	buckets, err := s.store.CompletedRevenueByType(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Total != buckets[j].Total {
			return buckets[i].Total > buckets[j].Total
		}
		return buckets[i].Type < buckets[j].Type
	})
	if buckets == nil {
		buckets = []TypeRevenue{}
	}
	return &RevenueBreakdown{NoData: len(buckets) == 0, Buckets: buckets}, nil
}

func monthly(points []MonthCount) *MonthlySeries {
	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].Month < points[j].Month
	})
	if points == nil {
		points = []MonthCount{}
	}
	return &MonthlySeries{NoData: len(points) == 0, Points: points}
}

func nonNil(groups []CategoryCount) []CategoryCount {
	if groups == nil {
		return []CategoryCount{}
	}
	return groups
}
