package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"superchat/internal/config"
	"superchat/internal/httpserver"
	"superchat/internal/logging"
	"superchat/internal/realtime"
	"superchat/internal/security"
	"superchat/internal/store/postgres"
	"superchat/internal/store/sqlite"
	"superchat/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init("production")
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(cfg.Env)

	db, repos, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("storage init failed")
	}
	defer db.Close()

	tokens := security.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	hasher := security.NewPasswordHasher(0)

	broker := realtime.NewBroker()
	bridge := realtime.NewBridge(broker, repos.Messages, repos.Reactions)
	hub := ws.NewHub()

	router := httpserver.NewRouter(cfg, repos, broker, bridge, hub, tokens, hasher)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("driver", cfg.DBDriver).
			Str("env", cfg.Env).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	hub.CloseAll()
	broker.Close()
	log.Info().Msg("server stopped")
}

func openStore(cfg *config.Config) (*sql.DB, httpserver.Repositories, error) {
	if cfg.DBDriver == "sqlite" {
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, httpserver.Repositories{}, err
		}
		if err := sqlite.Migrate(db); err != nil {
			db.Close()
			return nil, httpserver.Repositories{}, err
		}
		return db, httpserver.Repositories{
			Users:     sqlite.NewUserRepo(db),
			Rooms:     sqlite.NewRoomRepo(db),
			Messages:  sqlite.NewMessageRepo(db),
			Reactions: sqlite.NewReactionRepo(db),
		}, nil
	}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, httpserver.Repositories{}, err
	}
	if err := postgres.Migrate(db); err != nil {
		db.Close()
		return nil, httpserver.Repositories{}, err
	}
	return db, httpserver.Repositories{
		Users:     postgres.NewUserRepo(db),
		Rooms:     postgres.NewRoomRepo(db),
		Messages:  postgres.NewMessageRepo(db),
		Reactions: postgres.NewReactionRepo(db),
	}, nil
}
