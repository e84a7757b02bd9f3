package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mesikahq/clinic-desk/internal/apperr"
	"github.com/mesikahq/clinic-desk/internal/reporting"
)

// ReportStore implements reporting.Store with aggregation pipelines.
type ReportStore struct {
	patients     *mongo.Collection
	appointments *mongo.Collection
}

var _ reporting.Store = (*ReportStore)(nil)

func (r *ReportStore) CountPatients(ctx context.Context) (int64, error) {
	n, err := r.patients.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, apperr.Store("count patients", err)
	}
	return n, nil
}

func (r *ReportStore) CountAppointmentsBetween(ctx context.Context, from, until time.Time) (int64, error) {
	n, err := r.appointments.CountDocuments(ctx, bson.M{"date": bson.M{"$gte": from, "$lt": until}})
	if err != nil {
		return 0, apperr.Store("count appointments", err)
	}
	return n, nil
}

func (r *ReportStore) AverageAge(ctx context.Context) (float64, bool, error) {
	var rows []struct {
		AvgAge float64 `bson:"avg_age"`
	}
	if err := aggregate(ctx, r.patients, averageAgePipeline(), &rows); err != nil {
		return 0, false, err
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	return rows[0].AvgAge, true, nil
}

func (r *ReportStore) CompletedRevenue(ctx context.Context) (float64, error) {
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := aggregate(ctx, r.appointments, completedRevenuePipeline(), &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (r *ReportStore) CountPatientsByGender(ctx context.Context) ([]reporting.CategoryCount, error) {
	var rows []reporting.CategoryCount
	if err := aggregate(ctx, r.patients, countByPipeline("gender"), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportStore) CountPatientsByInsurance(ctx context.Context) ([]reporting.CategoryCount, error) {
	var rows []reporting.CategoryCount
	if err := aggregate(ctx, r.patients, countByPipeline("insurance"), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportStore) PatientAges(ctx context.Context) ([]int, error) {
	cursor, err := r.patients.Find(ctx, bson.D{}, options.Find().SetProjection(bson.M{"age": 1}))
	if err != nil {
		return nil, apperr.Store("find patient ages", err)
	}

	var rows []struct {
		Age int `bson:"age"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperr.Store("decode patient ages", err)
	}

	ages := make([]int, 0, len(rows))
	for _, row := range rows {
		ages = append(ages, row.Age)
	}
	return ages, nil
}

func (r *ReportStore) AppointmentsPerMonth(ctx context.Context) ([]reporting.MonthCount, error) {
	return r.perMonth(ctx, r.appointments, "date")
}

func (r *ReportStore) RegistrationsPerMonth(ctx context.Context) ([]reporting.MonthCount, error) {
	return r.perMonth(ctx, r.patients, "registration_date")
}

func (r *ReportStore) CompletedRevenueByType(ctx context.Context) ([]reporting.TypeRevenue, error) {
	var rows []reporting.TypeRevenue
	if err := aggregate(ctx, r.appointments, revenueByTypePipeline(), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportStore) perMonth(ctx context.Context, coll *mongo.Collection, field string) ([]reporting.MonthCount, error) {
	var rows []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := aggregate(ctx, coll, perMonthPipeline(field), &rows); err != nil {
		return nil, err
	}

	points := make([]reporting.MonthCount, 0, len(rows))
	for _, row := range rows {
		points = append(points, reporting.MonthCount{Year: row.ID.Year, Month: row.ID.Month, Count: row.Count})
	}
	return points, nil
}

func aggregate(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return apperr.Store("aggregate "+coll.Name(), err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return apperr.Store("decode "+coll.Name()+" aggregate", err)
	}
	return nil
}
