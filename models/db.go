package models

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

var db *sql.DB

// InitDB opens the persistent database under dataDir and runs migrations.
func InitDB(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return serr.Wrap(err, "failed to create data directory")
	}

	var err error
	db, err = sql.Open("duckdb", filepath.Join(dataDir, "still.ddb"))
	if err != nil {
		return serr.Wrap(err, "failed to open database")
	}

	if err := migrateDB(db); err != nil {
		return serr.Wrap(err, "failed to migrate database")
	}

	logger.Info("Database initialized", "dir", dataDir)
	return nil
}

// InitTestDB opens a database at an explicit path for tests.
func InitTestDB(path string) error {
	var err error
	db, err = sql.Open("duckdb", path)
	if err != nil {
		return serr.Wrap(err, "failed to open test database")
	}
	return migrateDB(db)
}

// CloseDB closes the database connection.
func CloseDB() {
	if db != nil {
		db.Close()
		db = nil
	}
}

// migrateDB creates the schema if it does not already exist.
func migrateDB(d *sql.DB) error {
	ddl := []string{
		CreateUsersTableSQL,
		CreateNotesTableSQL,
	}
	for _, stmt := range ddl {
		if _, err := d.Exec(stmt); err != nil {
			return serr.Wrap(err, "migration statement failed")
		}
	}
	return nil
}
