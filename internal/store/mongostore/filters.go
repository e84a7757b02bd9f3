package mongostore

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mesikahq/clinic-desk/internal/appointment"
	"github.com/mesikahq/clinic-desk/internal/patient"
)

func patientFilter(q patient.Query) bson.M {
	filter := bson.M{}
	if q.NameContains != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(q.NameContains), "$options": "i"}
	}
	if q.Age != nil {
		filter["age"] = bson.M{"$gte": q.Age.Min, "$lte": q.Age.Max}
	}
	if q.Registered != nil {
		filter["registration_date"] = bson.M{"$gte": q.Registered.From, "$lt": q.Registered.Until}
	}
	if q.Insurance != "" {
		filter["insurance"] = q.Insurance
	}
	return filter
}

func namePrefixFilter(prefix string) bson.M {
	return bson.M{"name": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix), "$options": "i"}}
}

func appointmentFilter(status appointment.Status) bson.M {
	if status == "" {
		return bson.M{}
	}
	return bson.M{"status": status}
}

func averageAgePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg_age", Value: bson.D{{Key: "$avg", Value: "$age"}}},
		}}},
	}
}

func completedRevenuePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: appointment.StatusCompleted}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$bill_amount"}}},
		}}},
	}
}

func countByPipeline(field string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
}

func perMonthPipeline(field string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "year", Value: bson.D{{Key: "$year", Value: "$" + field}}},
				{Key: "month", Value: bson.D{{Key: "$month", Value: "$" + field}}},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}}},
	}
}

func revenueByTypePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: appointment.StatusCompleted}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$consultation_type"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$bill_amount"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}}}},
	}
}
