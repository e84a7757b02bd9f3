package audit

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultLimit caps Recent when the caller passes zero.
	DefaultLimit = 100
	// Unlimited makes Recent return every entry.
	Unlimited = -1
)

// Entry is a single line in the audit trail. Operator is the signed-in
// front-desk user and stays empty when auth is off.
type Entry struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Action    string    `json:"action" bson:"action"`
	Operator  string    `json:"operator,omitempty" bson:"operator,omitempty"`
}

// Repository persists audit entries. Entries are never updated or deleted.
type Repository interface {
	// Append stores entry and assigns its ID.
	Append(ctx context.Context, entry *Entry) error
	// Latest returns entries newest first. A limit of zero or less means no cap.
	Latest(ctx context.Context, limit int) ([]Entry, error)
}

// Mirror receives a copy of every stored entry.
type Mirror interface {
	Index(ctx context.Context, entry Entry) error
}

// Recorder is the write side used by the domain services.
type Recorder interface {
	Record(ctx context.Context, action string) error
}

type Service interface {
	Recorder
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

type Option func(*service)

// WithLogger replaces the default text logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *service) { s.logger = logger }
}

// WithMirror forwards stored entries to m.
func WithMirror(m Mirror) Option {
	return func(s *service) { s.mirror = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	repo   Repository
	mirror Mirror
	logger *logrus.Logger
	now    func() time.Time
}

func NewService(repo Repository, opts ...Option) Service {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	s := &service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DiscardLogger returns a logrus logger that writes nowhere.
func DiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func (s *service) Record(ctx context.Context, action string) error {
	entry := Entry{
		Timestamp: s.now().UTC().Truncate(time.Millisecond),
		Action:    action,
		Operator:  OperatorFrom(ctx),
	}

	if err := s.repo.Append(ctx, &entry); err != nil {
		s.logger.WithError(err).WithField("action", action).Error("Failed to store audit entry")
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"audit_id":  entry.ID,
		"timestamp": entry.Timestamp,
		"operator":  entry.Operator,
	}).Info(action)

	if s.mirror != nil {
		if err := s.mirror.Index(ctx, entry); err != nil {
			s.logger.WithError(err).WithField("audit_id", entry.ID).Warn("Failed to mirror audit entry")
		}
	}

	return nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	switch {
	case limit == 0:
		limit = DefaultLimit
	case limit < 0:
		limit = 0
	}
	return s.repo.Latest(ctx, limit)
}
