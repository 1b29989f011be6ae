// Package db opens the GORM database connection.
package db

import (
	"fmt"
	"log"
	"time"

	gpostgres "gorm.io/driver/postgres"
	gsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authentity "imagevault_backend/internal/feature/auth/domain/entity"
	entryadapters "imagevault_backend/internal/feature/entries/adapters"
)

// Open connects to the configured database. driver is "postgres" or
// "sqlite"; sqlite is the local default and what the tests use. Postgres
// connections are retried for up to a minute because the database
// container may come up after the app.
func Open(driver, dsn string, runMigrations bool) *gorm.DB {
	var (
		conn gorm.Dialector
		db   *gorm.DB
		err  error
	)

	switch driver {
	case "postgres":
		conn = gpostgres.Open(dsn)
	case "sqlite", "":
		if dsn == "" {
			dsn = "data.db"
		}
		conn = gsqlite.Open(dsn)
	default:
		log.Fatalf("unknown DB driver %q", driver)
	}

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(conn, &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if runMigrations {
		if err := Migrate(db); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}

// Migrate creates or updates the users and entries tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&authentity.User{},
		&entryadapters.EntryModel{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
