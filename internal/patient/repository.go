package patient

import (
	"context"
	"time"
)

var (
	// MinTime and MaxTime bound an open registration date range.
	MinTime = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxTime = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// AgeRange is inclusive on both ends.
type AgeRange struct {
	Min int
	Max int
}

// DateRange includes From and excludes Until.
type DateRange struct {
	From  time.Time
	Until time.Time
}

// Query selects patients. Zero-valued criteria match everything.
type Query struct {
	NameContains string
	Age          *AgeRange
	Registered   *DateRange
	Insurance    Insurance
}

// Repository is the patients collection of the record store.
type Repository interface {
	// Insert stores p and assigns its ID.
	Insert(ctx context.Context, p *Patient) error
	Update(ctx context.Context, id string, f Fields) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Patient, error)
	// List returns every patient in the store's natural order.
	List(ctx context.Context) ([]Patient, error)
	Find(ctx context.Context, q Query) ([]Patient, error)
	// FindByName returns the first patient whose name equals name exactly.
	FindByName(ctx context.Context, name string) (*Patient, error)
	// SuggestNames returns up to limit names starting with prefix, ignoring case.
	SuggestNames(ctx context.Context, prefix string, limit int) ([]string, error)
}
