package reporting_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesikahq/clinic-desk/internal/appointment"
	"github.com/mesikahq/clinic-desk/internal/apperr"
	"github.com/mesikahq/clinic-desk/internal/audit"
	"github.com/mesikahq/clinic-desk/internal/patient"
	"github.com/mesikahq/clinic-desk/internal/reporting"
	"github.com/mesikahq/clinic-desk/internal/store/memory"
)

type fixture struct {
	reports      reporting.Service
	patients     patient.Service
	appointments appointment.Service
	now          time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{now: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return f.now }
	store := memory.New()
	auditSvc := audit.NewService(store.AuditLogs(), audit.WithLogger(audit.DiscardLogger()))
	f.patients = patient.NewService(store.Patients(), auditSvc, patient.WithClock(clock))
	f.appointments = appointment.NewService(store.Appointments(), store.Patients(), auditSvc, appointment.WithClock(clock))
	f.reports = reporting.NewService(store.Reports(), reporting.WithClock(clock))
	return f
}

func (f *fixture) patient(t *testing.T, name, age, gender, insurance string) {
	t.Helper()
	_, err := f.patients.Create(context.Background(), patient.Input{Name: name, Age: age, Gender: gender, Insurance: insurance})
	require.NoError(t, err)
}

func (f *fixture) visit(t *testing.T, name, date, kind, bill string, complete bool) {
	t.Helper()
	ctx := context.Background()
	a, err := f.appointments.Schedule(ctx, appointment.ScheduleInput{
		PatientName: name, Date: date, Time: "10:00", ConsultationType: kind, BillAmount: bill,
	})
	require.NoError(t, err)
	if complete {
		require.NoError(t, f.appointments.Complete(ctx, a.ID))
	}
}

func TestEmptyStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.reports.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, reporting.Summary{}, *summary)

	gender, err := f.reports.GenderBreakdown(ctx)
	require.NoError(t, err)
	assert.True(t, gender.NoData)
	assert.Len(t, gender.Buckets, 3)

	hist, err := f.reports.AgeHistogram(ctx)
	require.NoError(t, err)
	assert.True(t, hist.NoData)
	assert.Len(t, hist.Bins, 10)

	insurance, err := f.reports.InsuranceBreakdown(ctx)
	require.NoError(t, err)
	assert.True(t, insurance.NoData)
	assert.NotNil(t, insurance.Buckets)

	months, err := f.reports.AppointmentsByMonth(ctx)
	require.NoError(t, err)
	assert.True(t, months.NoData)
	assert.NotNil(t, months.Points)

	revenue, err := f.reports.RevenueByConsultationType(ctx)
	require.NoError(t, err)
	assert.True(t, revenue.NoData)
	assert.NotNil(t, revenue.Buckets)
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	f.patient(t, "A", "20", "Male", "")
	f.patient(t, "B", "41", "Female", "")

	f.visit(t, "A", "2024-03-15", "", "100", true)
	f.visit(t, "A", "2024-03-15", "", "40", false)
	f.visit(t, "B", "2024-03-16", "", "60.5", true)

	summary, err := f.reports.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalPatients)
	assert.Equal(t, int64(2), summary.TodaysAppointments)
	assert.InDelta(t, 30.5, summary.AverageAge, 1e-9)
	assert.InDelta(t, 160.5, summary.TotalRevenue, 1e-9)
}

func TestGenderBreakdown(t *testing.T) {
	f := newFixture(t)
	f.patient(t, "A", "", "Female", "")
	f.patient(t, "B", "", "Female", "")
	f.patient(t, "C", "", "", "")

	got, err := f.reports.GenderBreakdown(context.Background())
	require.NoError(t, err)
	assert.False(t, got.NoData)
	assert.Equal(t, []reporting.CategoryCount{
		{Key: "Male", Count: 0},
		{Key: "Female", Count: 2},
		{Key: "Other", Count: 1},
	}, got.Buckets)
}

func TestAgeHistogram(t *testing.T) {
	f := newFixture(t)
	for i, age := range []string{"5", "25", "95", "100", "150"} {
		f.patient(t, string(rune('A'+i)), age, "", "")
	}

	got, err := f.reports.AgeHistogram(context.Background())
	require.NoError(t, err)
	assert.False(t, got.NoData)

	counts := make([]int64, len(got.Bins))
	for i, b := range got.Bins {
		counts[i] = b.Count
	}
	assert.Equal(t, []int64{1, 0, 1, 0, 0, 0, 0, 0, 0, 2}, counts)
	assert.Equal(t, reporting.Bin{Lower: 90, Upper: 100, Count: 2}, got.Bins[9])
}

func TestInsuranceBreakdown(t *testing.T) {
	f := newFixture(t)
	f.patient(t, "A", "", "", "Private")
	f.patient(t, "B", "", "", "Medicare")
	f.patient(t, "C", "", "", "Private")

	got, err := f.reports.InsuranceBreakdown(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []reporting.CategoryCount{
		{Key: "Medicare", Count: 1},
		{Key: "Private", Count: 2},
	}, got.Buckets)
}

func TestMonthlySeries(t *testing.T) {
	f := newFixture(t)
	f.now = time.Date(2024, 2, 28, 9, 0, 0, 0, time.UTC)
	f.patient(t, "A", "", "", "")
	f.now = time.Date(2023, 12, 1, 9, 0, 0, 0, time.UTC)
	f.patient(t, "B", "", "", "")
	f.now = time.Date(2024, 2, 2, 9, 0, 0, 0, time.UTC)
	f.patient(t, "C", "", "", "")

	f.visit(t, "A", "2024-05-01", "", "", false)
	f.visit(t, "A", "2024-01-31", "", "", false)
	f.visit(t, "A", "2024-05-20", "", "", false)

	regs, err := f.reports.RegistrationsByMonth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []reporting.MonthCount{
		{Year: 2023, Month: 12, Count: 1},
		{Year: 2024, Month: 2, Count: 2},
	}, regs.Points)

	appts, err := f.reports.AppointmentsByMonth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []reporting.MonthCount{
		{Year: 2024, Month: 1, Count: 1},
		{Year: 2024, Month: 5, Count: 2},
	}, appts.Points)
}

func TestRevenueByConsultationType(t *testing.T) {
	f := newFixture(t)
	f.patient(t, "A", "", "", "")

	f.visit(t, "A", "2024-03-01", "Specialist", "200", true)
	f.visit(t, "A", "2024-03-02", "Vaccination", "20", true)
	f.visit(t, "A", "2024-03-03", "Specialist", "150", true)
	f.visit(t, "A", "2024-03-04", "Emergency", "999", false)

	got, err := f.reports.RevenueByConsultationType(context.Background())
	require.NoError(t, err)
	assert.False(t, got.NoData)
	assert.Equal(t, []reporting.TypeRevenue{
		{Type: "Specialist", Total: 350, Count: 2},
		{Type: "Vaccination", Total: 20, Count: 1},
	}, got.Buckets)
}

type brokenStore struct{ reporting.Store }

func (brokenStore) CountPatients(context.Context) (int64, error) {
	return 0, apperr.Store("count patients", assert.AnError)
}

func TestStoreErrorsPropagate(t *testing.T) {
	svc := reporting.NewService(brokenStore{})
	_, err := svc.Summary(context.Background())
	assert.True(t, apperr.IsStore(err))
}
