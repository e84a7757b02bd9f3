package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mesikahq/clinic-desk/internal/apperr"
	"github.com/mesikahq/clinic-desk/internal/patient"
)

// PatientRepository implements patient.Repository.
type PatientRepository struct {
	coll *mongo.Collection
}

var _ patient.Repository = (*PatientRepository)(nil)

func (r *PatientRepository) Insert(ctx context.Context, p *patient.Patient) error {
	p.ID = newID()
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		p.ID = ""
		return apperr.Store("insert patient", err)
	}
	return nil
}

func (r *PatientRepository) Update(ctx context.Context, id string, f patient.Fields) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":            f.Name,
		"age":             f.Age,
		"gender":          f.Gender,
		"insurance":       f.Insurance,
		"medical_history": f.MedicalHistory,
	}})
	if err != nil {
		return apperr.Store("update patient", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("patient %s", id)
	}
	return nil
}

func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Store("delete patient", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("patient %s", id)
	}
	return nil
}

func (r *PatientRepository) Get(ctx context.Context, id string) (*patient.Patient, error) {
	return r.findOne(ctx, bson.M{"_id": id}, "patient "+id)
}

func (r *PatientRepository) List(ctx context.Context) ([]patient.Patient, error) {
	return r.Find(ctx, patient.Query{})
}

func (r *PatientRepository) Find(ctx context.Context, q patient.Query) ([]patient.Patient, error) {
	cursor, err := r.coll.Find(ctx, patientFilter(q))
	if err != nil {
		return nil, apperr.Store("find patients", err)
	}

	patients := []patient.Patient{}
	if err := cursor.All(ctx, &patients); err != nil {
		return nil, apperr.Store("decode patients", err)
	}
	return patients, nil
}

func (r *PatientRepository) FindByName(ctx context.Context, name string) (*patient.Patient, error) {
	return r.findOne(ctx, bson.M{"name": name}, "patient named "+name)
}

func (r *PatientRepository) SuggestNames(ctx context.Context, prefix string, limit int) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"name": 1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, namePrefixFilter(prefix), opts)
	if err != nil {
		return nil, apperr.Store("suggest patient names", err)
	}

	var rows []struct {
		Name string `bson:"name"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperr.Store("decode patient names", err)
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	return names, nil
}

func (r *PatientRepository) findOne(ctx context.Context, filter bson.M, what string) (*patient.Patient, error) {
	var p patient.Patient
	if err := r.coll.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("%s", what)
		}
		return nil, apperr.Store("find patient", err)
	}
	return &p, nil
}
