package main

import (
	"flag"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mahfza/admin-service/internal/store"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var (
		dbPath  = flag.String("db", "data/mahfza.db", "Central database path")
		command = flag.String("command", "up", "Migration command (up, down, force)")
		version = flag.Int("version", 1, "Version for the force command")
	)
	flag.Parse()

	db, err := store.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	m, err := store.NewMigrator(db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrator")
	}

	switch *command {
	case "up":
		log.Info().Msg("Applying migrations...")
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
		log.Info().Msg("Migrations applied successfully")
	case "down":
		log.Info().Msg("Reverting migrations...")
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			log.Fatal().Err(err).Msg("Failed to revert migrations")
		}
		log.Info().Msg("Migrations reverted successfully")
	case "force":
		log.Info().Msg("Forcing migration version...")
		if err := m.Force(*version); err != nil {
			log.Fatal().Err(err).Msg("Failed to force migration version")
		}
		log.Info().Msg("Migration version forced successfully")
	default:
		log.Fatal().Msgf("Unknown command: %s", *command)
	}
}
