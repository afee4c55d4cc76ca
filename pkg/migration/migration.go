// Package migration runs versioned schema migrations and records them in the
// schema_migrations table, grouped into batches so the latest run can be
// rolled back as a unit.
//
// Migrations register themselves from init():
//
//	func init() {
//	    migration.Register("20250101000000_create_catalog_tables", &CreateCatalogTables{})
//	}
//
// CLI:
//
//	electrostore migrate             // run all pending
//	electrostore migrate:rollback    // roll back the last batch
//	electrostore migrate:status
package migration

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shashiranjanraj/electrostore/pkg/logger"
	"gorm.io/gorm"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// migrationRecord is the row stored in the tracking table.
type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "schema_migrations" }

// ------------------- Registry -------------------

type registeredMigration struct {
	name string
	m    Migration
}

var registry []registeredMigration

// Register adds a migration to the global registry. name must be
// timestamp-prefixed; pending migrations run in name order.
func Register(name string, m Migration) {
	registry = append(registry, registeredMigration{name: name, m: m})
}

// ErrNoMigrations is returned when Run is called but no migrations are registered.
var ErrNoMigrations = errors.New("no migrations registered")

// ------------------- Runner -------------------

// Runner executes and tracks migrations.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// New creates a Runner backed by db. Progress lines go to out (nil for silent).
func New(db *gorm.DB, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, out: out}
}

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&migrationRecord{})
}

func (r *Runner) ran() (map[string]migrationRecord, error) {
	var rows []migrationRecord
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]migrationRecord, len(rows))
	for _, rec := range rows {
		out[rec.Name] = rec
	}
	return out, nil
}

// Pending returns the migrations that have not yet been run, in name order.
func (r *Runner) Pending() ([]string, error) {
	ran, err := r.ran()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, reg := range sorted() {
		if _, ok := ran[reg.name]; !ok {
			names = append(names, reg.name)
		}
	}
	return names, nil
}

// Run executes all pending migrations in a single batch. Each migration and
// its tracking row commit together.
func (r *Runner) Run() ([]string, error) {
	if len(registry) == 0 {
		return nil, ErrNoMigrations
	}
	if err := r.EnsureTable(); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}

	ran, err := r.ran()
	if err != nil {
		return nil, fmt.Errorf("migration: fetch ran: %w", err)
	}

	batch := r.nextBatch()
	var done []string

	for _, reg := range sorted() {
		if _, ok := ran[reg.name]; ok {
			continue
		}

		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", reg.name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := reg.m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&migrationRecord{Name: reg.name, Batch: batch}).Error
		})
		if err != nil {
			return done, fmt.Errorf("migration: %s up: %w", reg.name, err)
		}

		logger.Info("migration: ran", "name", reg.name, "batch", batch)
		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", reg.name)
		done = append(done, reg.name)
	}

	if len(done) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
	}
	return done, nil
}

// Rollback reverses all migrations from the most recent batch.
func (r *Runner) Rollback() ([]string, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}

	last := r.nextBatch() - 1
	if last == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil, nil
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", last).Order("id desc").Find(&records).Error; err != nil {
		return nil, err
	}

	regMap := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		regMap[reg.name] = reg.m
	}

	var done []string
	for _, rec := range records {
		m, ok := regMap[rec.Name]
		if !ok {
			return done, fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}

		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		rec := rec
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&rec).Error
		})
		if err != nil {
			return done, fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}

		logger.Info("migration: rolled back", "name", rec.Name)
		done = append(done, rec.Name)
	}
	return done, nil
}

// StatusRow describes one registered migration.
type StatusRow struct {
	Name  string
	Ran   bool
	Batch int
}

// Status lists every registered migration and whether it has run.
func (r *Runner) Status() ([]StatusRow, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, err
	}
	ran, err := r.ran()
	if err != nil {
		return nil, err
	}

	rows := make([]StatusRow, 0, len(registry))
	for _, reg := range sorted() {
		rec, ok := ran[reg.name]
		rows = append(rows, StatusRow{Name: reg.name, Ran: ok, Batch: rec.Batch})
	}
	return rows, nil
}

func (r *Runner) nextBatch() int {
	var maxBatch struct{ Max int }
	r.db.Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0) as max").Scan(&maxBatch)
	return maxBatch.Max + 1
}

func sorted() []registeredMigration {
	out := append([]registeredMigration(nil), registry...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
