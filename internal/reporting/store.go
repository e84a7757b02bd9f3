package reporting

import (
	"context"
	"time"
)

// Store runs the aggregate queries over the record store.
type Store interface {
	CountPatients(ctx context.Context) (int64, error)
	// CountAppointmentsBetween counts appointments dated in [from, until).
	CountAppointmentsBetween(ctx context.Context, from, until time.Time) (int64, error)
	// AverageAge returns false when there are no patients.
	AverageAge(ctx context.Context) (float64, bool, error)
	CompletedRevenue(ctx context.Context) (float64, error)
	CountPatientsByGender(ctx context.Context) ([]CategoryCount, error)
	CountPatientsByInsurance(ctx context.Context) ([]CategoryCount, error)
	PatientAges(ctx context.Context) ([]int, error)
	AppointmentsPerMonth(ctx context.Context) ([]MonthCount, error)
	RegistrationsPerMonth(ctx context.Context) ([]MonthCount, error)
	CompletedRevenueByType(ctx context.Context) ([]TypeRevenue, error)
}
