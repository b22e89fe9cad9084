// cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mapstore/store-backend/internal/config"
	"github.com/mapstore/store-backend/internal/database"
)

func main() {
	reset := flag.Bool("reset", false, "drop every table before seeding")
	skipCatalog := flag.Bool("skip-catalog", false, "do not replace categories and products")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sqlDB, err := database.OpenSQL(cfg.Database.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open database")
	}
	defer sqlDB.Close()

	if *reset {
		if err := database.ResetSchema(ctx, sqlDB, cfg.Database.User); err != nil {
			logrus.WithError(err).Fatal("Failed to reset schema")
		}
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	if !*skipCatalog {
		if err := database.SeedCatalog(ctx, sqlDB, database.DefaultCategories, database.DefaultProducts); err != nil {
			logrus.WithError(err).Fatal("Failed to seed catalog")
		}
		logrus.WithFields(logrus.Fields{
			"categories": len(database.DefaultCategories),
			"products":   len(database.DefaultProducts),
		}).Info("Catalog seeded")
	}

	if cfg.AdminSeed.Email == "" {
		logrus.Warn("ADMIN_SEED_EMAIL not set, skipping admin account")
		return
	}
	if err := database.SeedAdmin(db.WithContext(ctx), cfg.AdminSeed); err != nil {
		logrus.WithError(err).Fatal("Failed to seed admin user")
	}
}
