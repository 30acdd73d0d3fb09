package migration

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

// VersionLayout is the time layout migration versions are derived from.
const VersionLayout = "20060102150405"

var versionPattern = regexp.MustCompile(`^\d{14}$`)

// ErrNoAppliedMigrations is returned by Down when there is nothing to revert.
var ErrNoAppliedMigrations = errors.New("no migrations to revert")

// Migration represents a single versioned schema change
type Migration struct {
	Version string // Unique version identifier (timestamp, VersionLayout)
	Name    string // Human-readable name of the migration
	Up      func(*gorm.DB) error
	Down    func(*gorm.DB) error
}

// MigrationRecord represents a record of an applied migration
type MigrationRecord struct {
	Version   string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

// Status pairs a known migration with its applied state.
type Status struct {
	Migration *Migration
	Applied   bool
	AppliedAt time.Time
}

var (
	globalMigrations = make([]*Migration, 0)
	registryMutex    sync.RWMutex
)

// RegisterMigration registers a migration globally
func RegisterMigration(migration *Migration) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	globalMigrations = append(globalMigrations, migration)
}

// GetRegisteredMigrations returns all registered migrations ordered by version
func GetRegisteredMigrations() []*Migration {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	migrations := make([]*Migration, len(globalMigrations))
	copy(migrations, globalMigrations)
	sortByVersion(migrations)
	return migrations
}

func sortByVersion(migrations []*Migration) {
	sort.SliceStable(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
}

// Migrator handles the execution of migrations
type Migrator struct {
	db         *gorm.DB
	migrations []*Migration
	now        func() time.Time
}

// NewMigrator creates a Migrator over every registered migration
func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: GetRegisteredMigrations(),
		now:        time.Now,
	}
}

// Register adds a migration to the migrator
func (m *Migrator) Register(migration *Migration) {
	m.migrations = append(m.migrations, migration)
	sortByVersion(m.migrations)
}

// Migrations returns the migrations known to the migrator in version order.
func (m *Migrator) Migrations() []*Migration {
	out := make([]*Migration, len(m.migrations))
	copy(out, m.migrations)
	return out
}

// EnsureVersionTable creates the version tracking table if it doesn't exist
func (m *Migrator) EnsureVersionTable(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migration_records table: %w", err)
	}
	return nil
}

// GetAppliedVersions returns a map of applied migration versions
func (m *Migrator) GetAppliedVersions(ctx context.Context) (map[string]MigrationRecord, error) {
	if err := m.EnsureVersionTable(ctx); err != nil {
		return nil, err
	}

	var records []MigrationRecord
	if err := m.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	versions := make(map[string]MigrationRecord, len(records))
	for _, record := range records {
		versions[record.Version] = record
	}
	return versions, nil
}

// Pending returns the migrations that have not been applied yet
func (m *Migrator) Pending(ctx context.Context) ([]*Migration, error) {
	applied, err := m.GetAppliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	var pending []*Migration
	for _, migration := range m.migrations {
		if _, ok := applied[migration.Version]; !ok {
			pending = append(pending, migration)
		}
	}
	return pending, nil
}

// Up applies all pending migrations, each inside its own database transaction,
// and returns the ones it applied
func (m *Migrator) Up(ctx context.Context) ([]*Migration, error) {
	pending, err := m.Pending(ctx)
	if err != nil {
		return nil, err
	}

	applied := make([]*Migration, 0, len(pending))
	for _, mr := range pending {
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := mr.Up(tx); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", mr.Name, err)
			}

			record := MigrationRecord{
				Version:   mr.Version,
				Name:      mr.Name,
				AppliedAt: m.now(),
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", mr.Name, err)
			}
			return nil
		})
		if err != nil {
			return applied, err
		}
		applied = append(applied, mr)
	}
	return applied, nil
}

// Down rolls back the last applied migration and returns it
func (m *Migrator) Down(ctx context.Context) (*Migration, error) {
	if err := m.EnsureVersionTable(ctx); err != nil {
		return nil, err
	}

	var lastRecord MigrationRecord
	err := m.db.WithContext(ctx).Order("applied_at DESC").Order("version DESC").First(&lastRecord).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoAppliedMigrations
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find last applied migration: %w", err)
	}

	var targetMigration *Migration
	for _, migration := range m.migrations {
		if migration.Version == lastRecord.Version {
			targetMigration = migration
			break
		}
	}
	if targetMigration == nil {
		return nil, fmt.Errorf("migration for version %s not found", lastRecord.Version)
	}

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := targetMigration.Down(tx); err != nil {
			return fmt.Errorf("failed to revert migration %s: %w", targetMigration.Name, err)
		}
		if err := tx.Delete(&lastRecord).Error; err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return targetMigration, nil
}

// Status reports every known migration with its applied state
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	applied, err := m.GetAppliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(m.migrations))
	for _, migration := range m.migrations {
		record, ok := applied[migration.Version]
		statuses = append(statuses, Status{
			Migration: migration,
			Applied:   ok,
			AppliedAt: record.AppliedAt,
		})
	}
	return statuses, nil
}

// History returns applied migration records, most recent first
func (m *Migrator) History(ctx context.Context) ([]MigrationRecord, error) {
	if err := m.EnsureVersionTable(ctx); err != nil {
		return nil, err
	}

	var records []MigrationRecord
	if err := m.db.WithContext(ctx).Order("applied_at DESC").Order("version DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get migration history: %w", err)
	}
	return records, nil
}

// Validate checks that every migration is well formed and versions are unique
func (m *Migrator) Validate() error {
	seen := make(map[string]string, len(m.migrations))
	for _, migration := range m.migrations {
		if !versionPattern.MatchString(migration.Version) {
			return fmt.Errorf("migration %q has invalid version %q", migration.Name, migration.Version)
		}
		if migration.Name == "" {
			return fmt.Errorf("migration %s has no name", migration.Version)
		}
		if migration.Up == nil || migration.Down == nil {
			return fmt.Errorf("migration %s_%s must define both Up and Down", migration.Version, migration.Name)
		}
		if other, ok := seen[migration.Version]; ok {
			return fmt.Errorf("duplicate migration version %s (%s, %s)", migration.Version, other, migration.Name)
		}
		seen[migration.Version] = migration.Name
	}
	return nil
}
