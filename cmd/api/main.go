package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"techflow.app/internal/auth"
	"techflow.app/internal/config"
	"techflow.app/internal/httpapi"
	"techflow.app/internal/leads"
	"techflow.app/internal/obs"
	"techflow.app/internal/store/pg"
)

var version = "dev"

func main() {
	log := obs.Logger()
	obs.Init()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("configuration load failed")
	}
	if cfg.PostgresDSN == "" {
		log.Fatal("TECHFLOW_PG_DSN is required")
	}

	db, err := pg.Open(cfg.PostgresDSN)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	tokenOpts := []auth.TokenOption{}
	if cfg.TokenIssuer != "" {
		tokenOpts = append(tokenOpts, auth.WithIssuer(cfg.TokenIssuer))
	}
	if cfg.TokenAudience != "" {
		tokenOpts = append(tokenOpts, auth.WithAudience(cfg.TokenAudience))
	}
	tokens, err := auth.NewTokenIssuer(cfg.TokenSecret, tokenOpts...)
	if err != nil {
		log.WithError(err).Fatal("token issuer setup failed")
	}

	hasher := auth.NewHasher(cfg.MaxHashLanes)

	authSvc, err := auth.NewService(db, hasher, tokens, log)
	if err != nil {
		log.WithError(err).Fatal("auth service setup failed")
	}
	onboarding, err := auth.NewOnboarding(db, hasher, log)
	if err != nil {
		log.WithError(err).Fatal("onboarding setup failed")
	}
	leadSvc, err := leads.NewService(db)
	if err != nil {
		log.WithError(err).Fatal("lead service setup failed")
	}

	api := httpapi.New(cfg, log, httpapi.Deps{
		Auth:       authSvc,
		Onboarding: onboarding,
		Tokens:     tokens,
		Store:      db,
		Leads:      leadSvc,
		Ready:      httpapi.ReadyProbe{DB: db.DB()},
		Version:    version,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}
}
