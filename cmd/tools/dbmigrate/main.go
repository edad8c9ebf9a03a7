// cmd/tools/dbmigrate/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/clubhouse/internal/db"
)

func main() {
	var (
		dbPath         = flag.String("db", "", "Path to SQLite database")
		migrationsPath = flag.String("migrations", "", "Path to migrations directory (defaults to the embedded set)")
		command        = flag.String("command", "", "Command to run (up, down, steps, force, version)")
		steps          = flag.Int("n", 0, "Number of steps for the steps command, negative to roll back")
		version        = flag.Int("version", -1, "Version for the force command")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *dbPath == "" || *command == "" {
		fmt.Fprintln(os.Stderr, "-db and -command are required:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	absDB, err := filepath.Abs(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid database path")
	}
	if err := os.MkdirAll(filepath.Dir(absDB), 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create database directory")
	}

	m, err := newMigrate(absDB, *migrationsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrate instance")
	}
	defer m.Close()

	switch *command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		log.Info().Msg("Successfully ran migrations up")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("Failed to rollback migrations")
		}
		log.Info().Msg("Successfully ran migrations down")

	case "steps":
		if *steps == 0 {
			log.Fatal().Msg("-n must be non-zero for steps")
		}
		if err := m.Steps(*steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Int("steps", *steps).Msg("Failed to migrate steps")
		}
		log.Info().Int("steps", *steps).Msg("Successfully migrated steps")

	case "force":
		if *version < 0 {
			log.Fatal().Msg("-version is required for force")
		}
		if err := m.Force(*version); err != nil {
			log.Fatal().Err(err).Int("version", *version).Msg("Failed to force version")
		}
		log.Info().Int("version", *version).Msg("Forced migration version")

	case "version":
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Info().Msg("No migrations applied")
			return
		}
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get version")
		}
		log.Info().Uint("version", v).Bool("dirty", dirty).Msg("Current version")

	default:
		log.Fatal().Str("command", *command).Msg("Unknown command")
	}
}

func newMigrate(absDB, migrationsPath string) (*migrate.Migrate, error) {
	databaseURL := fmt.Sprintf("sqlite3://%s?_fk=1", absDB)

	if migrationsPath == "" {
		source, err := iofs.New(db.MigrationsFS(), "migrations")
		if err != nil {
			return nil, fmt.Errorf("open embedded migrations: %w", err)
		}
		return migrate.NewWithSourceInstance("iofs", source, databaseURL)
	}

	absMigrations, err := filepath.Abs(migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("invalid migrations path: %w", err)
	}
	if _, err := os.Stat(absMigrations); os.IsNotExist(err) {
		return nil, fmt.Errorf("migrations directory does not exist: %s", absMigrations)
	}
	return migrate.New(fmt.Sprintf("file://%s", absMigrations), databaseURL)
}
