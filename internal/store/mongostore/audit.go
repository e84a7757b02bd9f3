package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mesikahq/clinic-desk/internal/apperr"
	"github.com/mesikahq/clinic-desk/internal/audit"
)

// AuditRepository implements audit.Repository.
type AuditRepository struct {
	coll *mongo.Collection
}

var _ audit.Repository = (*AuditRepository)(nil)

func (r *AuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	entry.ID = newID()
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		entry.ID = ""
		return apperr.Store("insert audit entry", err)
	}
	return nil
}

func (r *AuditRepository) Latest(ctx context.Context, limit int) ([]audit.Entry, error) {
	// _id breaks timestamp ties: ObjectID hex sorts by creation time.
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, apperr.Store("find audit entries", err)
	}

	entries := []audit.Entry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, apperr.Store("decode audit entries", err)
	}
	return entries, nil
}
