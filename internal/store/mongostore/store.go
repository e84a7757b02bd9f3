// Package mongostore implements the record store on MongoDB.
package mongostore

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	PatientsCollection     = "patients"
	AppointmentsCollection = "appointments"
	AuditLogsCollection    = "audit_logs"
)

// Store hands out repositories bound to one database.
type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) Patients() *PatientRepository {
	return &PatientRepository{coll: s.db.Collection(PatientsCollection)}
}

func (s *Store) Appointments() *AppointmentRepository {
	return &AppointmentRepository{coll: s.db.Collection(AppointmentsCollection)}
}

func (s *Store) AuditLogs() *AuditRepository {
	return &AuditRepository{coll: s.db.Collection(AuditLogsCollection)}
}

func (s *Store) Reports() *ReportStore {
	return &ReportStore{
		patients:     s.db.Collection(PatientsCollection),
		appointments: s.db.Collection(AppointmentsCollection),
	}
}

// newID generates document identifiers. They are stored as hex strings so
// that callers can treat them as opaque text.
func newID() string {
	return primitive.NewObjectID().Hex()
}
