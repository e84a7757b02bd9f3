package appointment

import (
	"context"
	"time"

	"github.com/mesikahq/clinic-desk/internal/patient"
)

// Repository is the appointments collection of the record store.
type Repository interface {
	// Insert stores a and assigns its ID.
	Insert(ctx context.Context, a *Appointment) error
	Get(ctx context.Context, id string) (*Appointment, error)
	// SetStatus writes status and the matching completed/cancelled timestamp.
	SetStatus(ctx context.Context, id string, status Status, at time.Time) error
	// List returns appointments with the given status ("" for all),
	// ordered by date then time.
	List(ctx context.Context, status Status) ([]Appointment, error)
}

// PatientDirectory resolves the denormalized patient reference.
type PatientDirectory interface {
	FindByName(ctx context.Context, name string) (*patient.Patient, error)
	SuggestNames(ctx context.Context, prefix string, limit int) ([]string, error)
}
