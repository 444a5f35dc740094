package main

import (
	"database/sql"
	"flag"
	"os"

	"github.com/navid-fn/stockpipe/configs"
	"github.com/navid-fn/stockpipe/internal/logger"
	"github.com/navid-fn/stockpipe/internal/migrations"

	_ "github.com/ClickHouse/clickhouse-go/v2" // ClickHouse driver
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	down := flag.Bool("down", false, "Roll back the latest migration instead of applying pending ones")
	flag.Parse()

	cfg := configs.AppLoad()
	log := logger.NewLogger(cfg.LogLevel)

	// The dataset may not exist yet; the first migration creates it.
	db, err := sql.Open("clickhouse", cfg.ClickHouse.DSN("default"))
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	// Verify connection
	if err := db.Ping(); err != nil {
		log.WithError(err).Error("Failed to ping database")
		os.Exit(1)
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(log)
	if err := goose.SetDialect("clickhouse"); err != nil {
		log.WithError(err).Error("Goose: failed to set dialect")
		os.Exit(1)
	}

	if *down {
		log.Info("Rolling back latest migration...")
		err = goose.Down(db, ".")
	} else {
		log.WithFields(logrus.Fields{"dataset": cfg.Dataset, "table": cfg.Table}).Info("Running database migrations...")
		err = goose.Up(db, ".")
	}
	if err != nil {
		log.WithError(err).Error("Goose migration failed")
		os.Exit(1)
	}

	log.Info("Migrations completed successfully")
}
