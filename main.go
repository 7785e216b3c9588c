package main

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/budgetpouch/backend/internal/config"
	"github.com/budgetpouch/backend/internal/ledger"
	"github.com/budgetpouch/backend/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()

	// Log format can be explicitly set.
	// If it is not set, it defaults to JSON.
	output := io.Writer(os.Stdout)
	if cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	// Create the data directory for the default database location
	dataDir := filepath.Dir(cfg.DSN)
	err := os.MkdirAll(dataDir, os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database and migrate all models
	err = models.Connect(cfg.DSN)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	command := "migrate"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "migrate":
		log.Info().Msg("database migrated")

	case "recalculate":
		err = ledger.RecalculateAll(models.DB)
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
		log.Info().Msg("balances recalculated")

	case "reconcile":
		if len(os.Args) < 4 {
			log.Fatal().Msg("usage: reconcile <account-id> <actual-balance>")
		}

		accountID, err := uuid.Parse(os.Args[2])
		if err != nil {
			log.Fatal().Msgf("invalid account id: %s", err)
		}

		// The actual balance is entered in major units, e.g. "1234.56",
		// and converted to minor units at this boundary. The core only
		// ever works with integers.
		actual, err := decimal.NewFromString(os.Args[3])
		if err != nil {
			log.Fatal().Msgf("invalid balance: %s", err)
		}
		minorUnits := actual.Mul(decimal.NewFromInt(100)).IntPart()

		count, adjustment, err := ledger.ReconcileAccount(models.DB, accountID, minorUnits, time.Now().In(time.UTC))
		if err != nil {
			log.Fatal().Msg(err.Error())
		}

		event := log.Info().Int("reconciled", count)
		if adjustment != nil {
			event = event.Int64("adjustment", adjustment.Amount)
		}
		event.Msg("account reconciled")

	default:
		log.Fatal().Msgf("unknown command: %s", command)
	}
}
