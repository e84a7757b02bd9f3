// Package app wires configuration into the clinic services.
package app

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesikahq/clinic-desk/internal/appointment"
	"github.com/mesikahq/clinic-desk/internal/audit"
	"github.com/mesikahq/clinic-desk/internal/auth"
	"github.com/mesikahq/clinic-desk/internal/config"
	"github.com/mesikahq/clinic-desk/internal/database"
	"github.com/mesikahq/clinic-desk/internal/export"
	"github.com/mesikahq/clinic-desk/internal/patient"
	"github.com/mesikahq/clinic-desk/internal/reporting"
	"github.com/mesikahq/clinic-desk/internal/store/memory"
	"github.com/mesikahq/clinic-desk/internal/store/mongostore"
)

// App holds the services built from one configuration.
type App struct {
	Patients     patient.Service
	Appointments appointment.Service
	Reports      reporting.Service
	Audit        audit.Service
	Auth         auth.Service
	Exporter     *export.Exporter

	client *mongo.Client
}

// NewLogger builds the production zap logger at the configured level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{}

	var (
		patients     patient.Repository
		appointments appointment.Repository
		directory    appointment.PatientDirectory
		auditLogs    audit.Repository
		reports      reporting.Store
	)

	switch cfg.Store.Driver {
	case config.StoreMemory:
		logger.Warn("Using in-memory store; records are lost on exit")
		store := memory.New()
		patients, directory = store.Patients(), store.Patients()
		appointments, auditLogs, reports = store.Appointments(), store.AuditLogs(), store.Reports()
	default:
		client, err := database.NewMongoClient(ctx, cfg.MongoConfig())
		if err != nil {
			return nil, err
		}
		a.client = client
		logger.Info("Connected to MongoDB", zap.String("database", cfg.Mongo.Database))

		store := mongostore.New(client.Database(cfg.Mongo.Database))
		patients, directory = store.Patients(), store.Patients()
		appointments, auditLogs, reports = store.Appointments(), store.AuditLogs(), store.Reports()
	}

	auditOpts := []audit.Option{}
	if es := cfg.Audit.Elasticsearch; len(es.Addresses) > 0 {
		esClient, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: es.Addresses,
			Username:  es.Username,
			Password:  es.Password,
		})
		if err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
		}
		auditOpts = append(auditOpts, audit.WithMirror(audit.NewElasticMirror(esClient, es.IndexPrefix)))
		logger.Info("Mirroring audit log to Elasticsearch", zap.Strings("addresses", es.Addresses))
	}

	policy := appointment.Lenient
	if cfg.Appointments.StrictTransitions {
		policy = appointment.Strict
	}

	a.Audit = audit.NewService(auditLogs, auditOpts...)
	a.Patients = patient.NewService(patients, a.Audit)
	a.Appointments = appointment.NewService(appointments, directory, a.Audit, appointment.WithPolicy(policy))
	a.Reports = reporting.NewService(reports)
	a.Exporter = export.New(a.Patients, a.Appointments)
	a.Auth = auth.NewService(auth.Config{
		Enabled:      cfg.Auth.Enabled,
		Username:     cfg.Auth.Username,
		PasswordHash: cfg.Auth.PasswordHash,
		JWTSecret:    cfg.Auth.JWTSecret,
		TokenExpiry:  cfg.Auth.TokenExpiry,
	})

	return a, nil
}

// Close disconnects from MongoDB when the app owns a client.
func (a *App) Close(ctx context.Context) error {
	return database.Disconnect(ctx, a.client)
}
