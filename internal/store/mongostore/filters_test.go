package mongostore

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mesikahq/clinic-desk/internal/appointment"
	"github.com/mesikahq/clinic-desk/internal/patient"
)

func TestPatientFilter(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 1, 0)

	tests := []struct {
		name string
		q    patient.Query
		want bson.M
	}{
		{name: "empty", q: patient.Query{}, want: bson.M{}},
		{
			name: "name is escaped",
			q:    patient.Query{NameContains: "a.b(c"},
			want: bson.M{"name": bson.M{"$regex": `a\.b\(c`, "$options": "i"}},
		},
		{
			name: "age range",
			q:    patient.Query{Age: &patient.AgeRange{Min: 18, Max: 65}},
			want: bson.M{"age": bson.M{"$gte": 18, "$lte": 65}},
		},
		{
			name: "registration range",
			q:    patient.Query{Registered: &patient.DateRange{From: from, Until: until}},
			want: bson.M{"registration_date": bson.M{"$gte": from, "$lt": until}},
		},
		{
			name: "insurance",
			q:    patient.Query{Insurance: patient.InsurancePrivate},
			want: bson.M{"insurance": patient.InsurancePrivate},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, patientFilter(tt.q))
		})
	}
}

func TestEscapedNameStillMatchesLiterally(t *testing.T) {
	filter := patientFilter(patient.Query{NameContains: "o'brien (jr"})
	pattern := filter["name"].(bson.M)["$regex"].(string)
	re := regexp.MustCompile("(?i)" + pattern)
	assert.True(t, re.MatchString("Pat O'Brien (Jr)"))
	assert.False(t, re.MatchString("O'Brien Jr"))
}

func TestNamePrefixFilter(t *testing.T) {
	assert.Equal(t, bson.M{"name": bson.M{"$regex": `^Jo\*`, "$options": "i"}}, namePrefixFilter("Jo*"))
}

func TestAppointmentFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, appointmentFilter(""))
	assert.Equal(t, bson.M{"status": appointment.StatusCancelled}, appointmentFilter(appointment.StatusCancelled))
}

func TestPipelines(t *testing.T) {
	revenue := revenueByTypePipeline()
	assert.Len(t, revenue, 3)
	assert.Equal(t, "$match", revenue[0][0].Key)
	assert.Equal(t, "$sort", revenue[2][0].Key)

	monthly := perMonthPipeline("registration_date")
	group := monthly[0][0].Value.(bson.D)
	id := group[0].Value.(bson.D)
	assert.Equal(t, bson.D{{Key: "$year", Value: "$registration_date"}}, id[0].Value)
	assert.Equal(t, bson.D{{Key: "$month", Value: "$registration_date"}}, id[1].Value)

	count := countByPipeline("gender")
	assert.Equal(t, "$gender", count[0][0].Value.(bson.D)[0].Value)
}

func TestMigrations(t *testing.T) {
	migrations := Migrations()
	assert.Len(t, migrations, 3)
	for i, m := range migrations {
		assert.Equal(t, i+1, m.Version)
		assert.NotNil(t, m.Up)
		assert.NotNil(t, m.Down)
	}
}
