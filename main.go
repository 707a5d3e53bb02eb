// main.go
//
// Entry point of the Blackwood Manor mystery server.
// Startup:
//   1. Load configuration (.env + environment) and set the log level.
//   2. Load and validate the case (WORLD_FILE or the embedded manor).
//   3. Open the case ledger: SQLite when DB_PATH is set, memory otherwise.
//   4. Serve HTTP + MCP until SIGINT/SIGTERM, then shut down gracefully.
//
// Flags:
//   -mint-token <subject>  print a signed JWT for subject and exit
//   -stdio                 serve the MCP tools on stdin/stdout instead of HTTP

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/blackwood-mystery/assets"
	"github.com/robalobadob/blackwood-mystery/internal/config"
	"github.com/robalobadob/blackwood-mystery/internal/game"
	"github.com/robalobadob/blackwood-mystery/internal/httpserver"
	"github.com/robalobadob/blackwood-mystery/internal/mcptools"
	"github.com/robalobadob/blackwood-mystery/internal/store"
	"github.com/robalobadob/blackwood-mystery/internal/world"
)

func main() {
	mintSubject := flag.String("mint-token", "", "print a signed JWT for this subject and exit")
	stdio := flag.Bool("stdio", false, "serve MCP tools over stdin/stdout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	auth := httpserver.NewAuthenticator(httpserver.AuthConfig{
		Token:       cfg.AuthToken,
		TokenBcrypt: cfg.AuthTokenBcrypt,
		JWTSecret:   cfg.JWTSecret,
		JWTTTL:      time.Duration(cfg.JWTExpiresDays) * 24 * time.Hour,
	})

	if *mintSubject != "" {
		tok, exp, err := auth.Sign(*mintSubject)
		if err != nil {
			log.Fatal().Err(err).Msg("mint token")
		}
		log.Info().Str("subject", *mintSubject).Time("expires", exp).Msg("token minted")
		fmt.Println(tok)
		return
	}

	w, err := world.Load(cfg.WorldFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.WorldFile).Msg("failed to load case")
	}
	log.Info().Str("case", w.Name()).Int("rooms", len(w.RoomIDs())).Msg("case loaded")

	ledger, db, err := openLedger(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("failed to open case ledger")
	}
	if db != nil {
		defer db.Close()
	}

	session := game.NewSession(w)
	session.OnVerdict(recordVerdict(ledger))

	mcpServer := mcptools.NewServer(cfg, session)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *stdio {
		log.Info().Msg("serving MCP over stdio")
		if err := mcptools.ServeStdio(ctx, mcpServer); err != nil {
			log.Fatal().Err(err).Msg("stdio server exited")
		}
		return
	}

	srv := httpserver.New(httpserver.Options{
		Config:  cfg,
		Session: session,
		Store:   ledger,
		Auth:    auth,
		MCP:     mcptools.HTTPHandler(mcpServer),
		Logger:  log.Logger,
	})

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting blackwood-mystery")
		errc <- srv.Start(cfg.Addr())
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}

// openLedger returns the SQLite ledger when path is set, otherwise a memory one.
func openLedger(path string) (store.Store, *sql.DB, error) {
	if path == "" {
		log.Info().Msg("DB_PATH not set; case ledger kept in memory")
		return store.NewMemoryStore(), nil, nil
	}
	db, err := store.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(db, assets.Migrations()); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return store.NewSQLiteStore(db), db, nil
}

// recordVerdict writes each closed case to the ledger. Failures are logged only;
// the game result has already been decided.
func recordVerdict(ledger store.Store) game.Observer {
	return func(v game.Verdict) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ledger.Record(ctx, v); err != nil {
			log.Warn().Err(err).Str("case", v.ID).Msg("record verdict")
			return
		}
		log.Info().Str("case", v.ID).Bool("solved", v.Solved).Int("facts", v.FactsFound).Msg("case closed")
	}
}
