package mongostore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/mesikahq/clinic-desk/internal/apperr"
	"github.com/mesikahq/clinic-desk/internal/appointment"
	"github.com/mesikahq/clinic-desk/internal/audit"
	"github.com/mesikahq/clinic-desk/internal/patient"
)

func TestPatientRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert assigns id", func(mt *mtest.T) {
		repo := New(mt.DB).Patients()
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p := &patient.Patient{Name: "Ada"}
		require.NoError(mt, repo.Insert(ctx, p))
		assert.Len(mt, p.ID, 24)
	})

	mt.Run("insert failure is a store error", func(mt *mtest.T) {
		repo := New(mt.DB).Patients()
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad"}))

		p := &patient.Patient{Name: "Ada"}
		err := repo.Insert(ctx, p)
		assert.True(mt, apperr.IsStore(err))
		assert.Empty(mt, p.ID)
	})

	mt.Run("get decodes document", func(mt *mtest.T) {
		repo := New(mt.DB).Patients()
		reg := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.patients", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "65f000000000000000000001"},
			{Key: "name", Value: "Ada"},
			{Key: "age", Value: 36},
			{Key: "gender", Value: "Female"},
			{Key: "insurance", Value: "Private"},
			{Key: "registration_date", Value: reg},
		}))

		p, err := repo.Get(ctx, "65f000000000000000000001")
		require.NoError(mt, err)
		assert.Equal(mt, "Ada", p.Name)
		assert.Equal(mt, 36, p.Age)
		assert.Equal(mt, patient.GenderFemale, p.Gender)
		assert.True(mt, reg.Equal(p.RegistrationDate))
	})

	mt.Run("get missing is not found", func(mt *mtest.T) {
		repo := New(mt.DB).Patients()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.patients", mtest.FirstBatch))

		_, err := repo.Get(ctx, "nope")
		assert.True(mt, apperr.IsNotFound(err))
	})

	mt.Run("update and delete of missing id", func(mt *mtest.T) {
		repo := New(mt.DB).Patients()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		assert.True(mt, apperr.IsNotFound(repo.Update(ctx, "nope", patient.Fields{Name: "x"})))
		assert.True(mt, apperr.IsNotFound(repo.Delete(ctx, "nope")))
	})

	mt.Run("update existing", func(mt *mtest.T) {
		repo := New(mt.DB).Patients()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		assert.NoError(mt, repo.Update(ctx, "65f000000000000000000001", patient.Fields{Name: "x"}))
	})

	mt.Run("suggest names", func(mt *mtest.T) {
		repo := New(mt.DB).Patients()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.patients", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "1"}, {Key: "name", Value: "Johnson"}},
			bson.D{{Key: "_id", Value: "2"}, {Key: "name", Value: "Johanna"}},
		))

		names, err := repo.SuggestNames(ctx, "joh", 10)
		require.NoError(mt, err)
		assert.Equal(mt, []string{"Johnson", "Johanna"}, names)
	})
}

func TestAppointmentRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("list decodes in server order", func(mt *mtest.T) {
		repo := New(mt.DB).Appointments()
		day := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.appointments", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "a"}, {Key: "date", Value: day}, {Key: "time", Value: "08:00"}, {Key: "status", Value: "Scheduled"}},
			bson.D{{Key: "_id", Value: "b"}, {Key: "date", Value: day}, {Key: "time", Value: "09:00"}, {Key: "status", Value: "Scheduled"}},
		))

		got, err := repo.List(ctx, appointment.StatusScheduled)
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "a", got[0].ID)
		assert.Nil(mt, got[0].CompletedAt)
	})

	mt.Run("set status on missing appointment", func(mt *mtest.T) {
		repo := New(mt.DB).Appointments()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.SetStatus(ctx, "nope", appointment.StatusCompleted, time.Now())
		assert.True(mt, apperr.IsNotFound(err))
	})
}

func TestAuditRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("append then latest", func(mt *mtest.T) {
		repo := New(mt.DB).AuditLogs()
		ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, "test.audit_logs", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "x"}, {Key: "timestamp", Value: ts}, {Key: "action", Value: "Deleted patient ID: 1"}},
			),
		)

		entry := &audit.Entry{Timestamp: ts, Action: "Deleted patient ID: 1"}
		require.NoError(mt, repo.Append(ctx, entry))
		assert.NotEmpty(mt, entry.ID)

		entries, err := repo.Latest(ctx, 5)
		require.NoError(mt, err)
		require.Len(mt, entries, 1)
		assert.Equal(mt, "Deleted patient ID: 1", entries[0].Action)
	})
}

func TestReportStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("average age", func(mt *mtest.T) {
		reports := New(mt.DB).Reports()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.patients", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: nil}, {Key: "avg_age", Value: 30.5}},
		))

		avg, ok, err := reports.AverageAge(ctx)
		require.NoError(mt, err)
		assert.True(mt, ok)
		assert.Equal(mt, 30.5, avg)
	})

	mt.Run("average age of empty collection", func(mt *mtest.T) {
		reports := New(mt.DB).Reports()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.patients", mtest.FirstBatch))

		_, ok, err := reports.AverageAge(ctx)
		require.NoError(mt, err)
		assert.False(mt, ok)
	})

	mt.Run("per month", func(mt *mtest.T) {
		reports := New(mt.DB).Reports()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.appointments", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: bson.D{{Key: "year", Value: 2024}, {Key: "month", Value: 2}}}, {Key: "count", Value: int64(3)}},
		))

		points, err := reports.AppointmentsPerMonth(ctx)
		require.NoError(mt, err)
		require.Len(mt, points, 1)
		assert.Equal(mt, 2024, points[0].Year)
		assert.Equal(mt, 2, points[0].Month)
		assert.Equal(mt, int64(3), points[0].Count)
	})

	mt.Run("revenue by type", func(mt *mtest.T) {
		reports := New(mt.DB).Reports()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.appointments", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "Specialist"}, {Key: "total", Value: 350.0}, {Key: "count", Value: int64(2)}},
		))

		rows, err := reports.CompletedRevenueByType(ctx)
		require.NoError(mt, err)
		require.Len(mt, rows, 1)
		assert.Equal(mt, "Specialist", rows[0].Type)
		assert.Equal(mt, 350.0, rows[0].Total)
	})

	mt.Run("aggregate failure", func(mt *mtest.T) {
		reports := New(mt.DB).Reports()
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad pipeline"}))

		_, err := reports.CountPatientsByGender(ctx)
		assert.True(mt, apperr.IsStore(err))
	})
}
