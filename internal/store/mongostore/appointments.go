package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mesikahq/clinic-desk/internal/apperr"
	"github.com/mesikahq/clinic-desk/internal/appointment"
)

// AppointmentRepository implements appointment.Repository.
type AppointmentRepository struct {
	coll *mongo.Collection
}

var _ appointment.Repository = (*AppointmentRepository)(nil)

func (r *AppointmentRepository) Insert(ctx context.Context, a *appointment.Appointment) error {
	a.ID = newID()
	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		a.ID = ""
		return apperr.Store("insert appointment", err)
	}
	return nil
}

func (r *AppointmentRepository) Get(ctx context.Context, id string) (*appointment.Appointment, error) {
	var a appointment.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("appointment %s", id)
		}
		return nil, apperr.Store("find appointment", err)
	}
	return &a, nil
}

func (r *AppointmentRepository) SetStatus(ctx context.Context, id string, status appointment.Status, at time.Time) error {
	set := bson.M{"status": status}
	switch status {
	case appointment.StatusCompleted:
		set["completed_at"] = at
	case appointment.StatusCancelled:
		set["cancelled_at"] = at
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return apperr.Store("update appointment status", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("appointment %s", id)
	}
	return nil
}

func (r *AppointmentRepository) List(ctx context.Context, status appointment.Status) ([]appointment.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})

	cursor, err := r.coll.Find(ctx, appointmentFilter(status), opts)
	if err != nil {
		return nil, apperr.Store("find appointments", err)
	}

	appointments := []appointment.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, apperr.Store("decode appointments", err)
	}
	return appointments, nil
}
