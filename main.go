package main

import (
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tallybook/backend/internal/backup"
	"github.com/tallybook/backend/internal/config"
	"github.com/tallybook/backend/internal/ledger"
	"github.com/tallybook/backend/internal/router"
	"github.com/tallybook/backend/internal/storage"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	cfg := config.Load()

	store, err := storage.New(cfg.DataDir, log.Logger)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	service := ledger.New(store, log.Logger)

	engine, err := backup.New(cfg.DataDir, cfg.BackupDir, log.Logger)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	r, err := router.Router(store, service, engine)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
