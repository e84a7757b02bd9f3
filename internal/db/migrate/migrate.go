package migrate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const migrationsCollection = "schema_migrations"

// ErrNothingToRollBack is returned by Down when no migration is applied.
var ErrNothingToRollBack = errors.New("no migrations to roll back")

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	Up      func(ctx context.Context, db *mongo.Database) error
	Down    func(ctx context.Context, db *mongo.Database) error
}

type appliedMigration struct {
	Version   int       `bson:"_id"`
	Name      string    `bson:"name"`
	AppliedAt time.Time `bson:"applied_at"`
}

// Manager handles database migrations
type Manager struct {
	db         *mongo.Database
	migrations []Migration
	logger     *zap.Logger
}

// NewManager creates a new migration manager
func NewManager(db *mongo.Database, migrations []Migration, logger *zap.Logger) *Manager {
	sorted := append([]Migration(nil), migrations...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})
	return &Manager{
		db:         db,
		migrations: sorted,
		logger:     logger,
	}
}

// Applied returns the applied migrations keyed by version
func (m *Manager) Applied(ctx context.Context) (map[int]time.Time, error) {
	cursor, err := m.db.Collection(migrationsCollection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}

	var rows []appliedMigration
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode applied migrations: %w", err)
	}

	applied := make(map[int]time.Time, len(rows))
	for _, row := range rows {
		applied[row.Version] = row.AppliedAt
	}
	return applied, nil
}

// Up applies all pending migrations
func (m *Manager) Up(ctx context.Context) error {
	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}

	for _, migration := range Pending(m.migrations, applied) {
		if err := migration.Up(ctx, m.db); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}

		record := appliedMigration{Version: migration.Version, Name: migration.Name, AppliedAt: time.Now().UTC()}
		if _, err := m.db.Collection(migrationsCollection).InsertOne(ctx, record); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		m.logger.Info("Applied migration", zap.Int("version", migration.Version), zap.String("name", migration.Name))
	}

	return nil
}

// Down rolls back the last migration
func (m *Manager) Down(ctx context.Context) error {
	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}

	migration, ok := Last(m.migrations, applied)
	if !ok {
		return ErrNothingToRollBack
	}

	if migration.Down != nil {
		if err := migration.Down(ctx, m.db); err != nil {
			return fmt.Errorf("failed to roll back migration %d: %w", migration.Version, err)
		}
	}

	if _, err := m.db.Collection(migrationsCollection).DeleteOne(ctx, bson.M{"_id": migration.Version}); err != nil {
		return fmt.Errorf("failed to remove migration record %d: %w", migration.Version, err)
	}

	m.logger.Info("Rolled back migration", zap.Int("version", migration.Version), zap.String("name", migration.Name))
	return nil
}

// Pending returns the migrations not yet applied, in version order.
func Pending(migrations []Migration, applied map[int]time.Time) []Migration {
	var pending []Migration
	for _, migration := range migrations {
		if _, ok := applied[migration.Version]; !ok {
			pending = append(pending, migration)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].Version < pending[j].Version
	})
	return pending
}

// Last returns the applied migration with the highest version.
func Last(migrations []Migration, applied map[int]time.Time) (Migration, bool) {
	var (
		last  Migration
		found bool
	)
	for _, migration := range migrations {
		if _, ok := applied[migration.Version]; !ok {
			continue
		}
		if !found || migration.Version > last.Version {
			last, found = migration, true
		}
	}
	return last, found
}
