package appointment

import (
	"github.com/mesikahq/clinic-desk/internal/apperr"
)

type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// StatusAll is the list filter sentinel that matches every appointment.
const StatusAll = "All"

var Statuses = []Status{StatusScheduled, StatusCompleted, StatusCancelled}

// Terminal reports whether no further transition is defined out of s
// under the strict policy.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ParseStatusFilter maps a list filter to a status; "" means every status.
func ParseStatusFilter(text string) (Status, error) {
	if text == "" || text == StatusAll {
		return "", nil
	}
	for _, s := range Statuses {
		if string(s) == text {
			return s, nil
		}
	}
	return "", apperr.Validation("invalid status filter %q", text)
}

// Policy decides which status transitions are allowed.
type Policy int

const (
	// Lenient lets any appointment be completed or cancelled, whatever its
	// current status.
	Lenient Policy = iota
	// Strict only allows leaving Scheduled.
	Strict
)

var strictTransitions = map[Status][]Status{
	StatusScheduled: {StatusCompleted, StatusCancelled},
}

// Allows reports whether an appointment in from may move to to.
// Nothing ever moves back to Scheduled.
func (p Policy) Allows(from, to Status) bool {
	if !to.Terminal() {
		return false
	}
	if p == Lenient {
		return true
	}
	for _, next := range strictTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "lenient"
}
