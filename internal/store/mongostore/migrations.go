package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mesikahq/clinic-desk/internal/db/migrate"
)

// Migrations lists the schema changes of the clinic database.
func Migrations() []migrate.Migration {
	return []migrate.Migration{
		indexMigration(1, "patients_indexes", PatientsCollection,
			namedIndex("patients_name", bson.D{{Key: "name", Value: 1}}),
			namedIndex("patients_registration_date", bson.D{{Key: "registration_date", Value: 1}}),
		),
		indexMigration(2, "appointments_indexes", AppointmentsCollection,
			namedIndex("appointments_date_time", bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}),
			namedIndex("appointments_status", bson.D{{Key: "status", Value: 1}}),
		),
		indexMigration(3, "audit_logs_timestamp", AuditLogsCollection,
			namedIndex("audit_logs_timestamp", bson.D{{Key: "timestamp", Value: -1}}),
		),
	}
}

func namedIndex(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

func indexMigration(version int, name, collection string, models ...mongo.IndexModel) migrate.Migration {
	return migrate.Migration{
		Version: version,
		Name:    name,
		Up: func(ctx context.Context, db *mongo.Database) error {
			_, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
			return err
		},
		Down: func(ctx context.Context, db *mongo.Database) error {
			for _, m := range models {
				if _, err := db.Collection(collection).Indexes().DropOne(ctx, *m.Options.Name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
