package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the database for the given driver and brings the schema up
// to date. For sqlite the dsn is a file path, ":memory:" or a "file:" uri.
func Open(driver, dsn string) (*gorm.DB, error) {
	log.Printf("Connecting to %s database...", driver)

	var dialector gorm.Dialector
	switch driver {
	case DriverSqlite:
		if !isMemory(dsn) && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), os.ModePerm); err != nil {
				return nil, fmt.Errorf("unable to create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver '%s'", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unable to access database handle: %w", err)
	}

	switch {
	case driver == DriverSqlite && isMemory(dsn):
		// Every connection to an in-memory database gets its own empty database.
		sqlDB.SetMaxOpenConns(1)
	case driver == DriverPostgres:
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetConnMaxIdleTime(time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if err := GetMigrator(db).Migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("unable to migrate database: %w", err)
	}

	log.Println("Database connection established.")
	return db, nil
}

func isMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
