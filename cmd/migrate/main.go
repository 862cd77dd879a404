package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"techflow.app/internal/auth"
	"techflow.app/internal/migrate"
	"techflow.app/internal/obs"
	"techflow.app/internal/store/pg"
)

func main() {
	var (
		dsn            = flag.String("dsn", os.Getenv("TECHFLOW_PG_DSN"), "postgres connection string")
		dir            = flag.String("dir", "migrations", "directory with *.up.sql files")
		masterEmail    = flag.String("master-email", os.Getenv("TECHFLOW_MASTER_EMAIL"), "seed a MASTER account with this email after migrating")
		masterName     = flag.String("master-name", os.Getenv("TECHFLOW_MASTER_NAME"), "name for the seeded MASTER account")
		masterPassword = flag.String("master-password", os.Getenv("TECHFLOW_MASTER_PASSWORD"), "password for the seeded MASTER account")
	)
	flag.Parse()

	log := obs.Logger()
	if *dsn == "" {
		log.Fatal("a postgres DSN is required (-dsn or TECHFLOW_PG_DSN)")
	}

	db, err := pg.Open(*dsn)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := migrate.NewManager(db.DB(), *dir).Up(ctx); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	log.Info("migrations applied")

	if *masterEmail == "" {
		return
	}
	account, err := auth.SeedMaster(ctx, db, auth.NewHasher(0), *masterName, *masterEmail, *masterPassword)
	if err != nil {
		if errors.Is(err, auth.ErrConflict) {
			log.WithField("email", *masterEmail).Info("master account already present")
			return
		}
		log.WithError(err).Fatal("master seed failed")
	}
	log.WithField("account_id", account.ID).Info("master account seeded")
}
