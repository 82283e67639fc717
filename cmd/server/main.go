package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	emailPkg "ateliers/internal/adapters/email"
	web "ateliers/internal/adapters/http"
	"ateliers/internal/adapters/storage"
	"ateliers/internal/adapters/storage/reskey"
	"ateliers/internal/config"
	"ateliers/internal/upstream"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// A .env file is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Local SQLite holds only advisory client-side state (reservation
	// keys); all business data lives behind the upstream API.
	db, err := sql.Open("sqlite", storage.DSN(cfg.DBPath))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("database unreachable")
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	api := upstream.New(cfg.UpstreamBaseURL, log.Logger)

	var mailer emailPkg.Sender
	if cfg.ResendKey != "" {
		mailer = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		log.Info().Msg("email sender configured (Resend)")
	} else {
		mailer = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			log.Warn().Msg("ATELIERS_RESEND_KEY is not set; email delivery is DISABLED in production")
		} else {
			log.Info().Msg("email sender configured (noop; set ATELIERS_RESEND_KEY for real delivery)")
		}
	}

	mux := web.NewMux(cfg, web.Deps{
		Upstream: api,
		Keys:     reskey.NewSQLiteStore(db),
		Mailer:   mailer,
	})

	log.Info().
		Str("version", version).
		Str("addr", cfg.Addr).
		Str("env", cfg.Env).
		Str("upstream", cfg.UpstreamBaseURL).
		Msg("ateliers starting")

	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
