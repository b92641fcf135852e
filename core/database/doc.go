// Package database handles database connections and schema inspection.
//
// It wraps GORM so the sql baseline store can run on MySQL or SQLite from the
// same configuration section.
//
// # Connect
//
// Connect opens the configured driver, applies pool settings and pings the
// database. SQLite connections are limited to a single open connection so an
// in-memory database is shared by every query.
//
// # Schema Inspection
//
// GetTableColumns reads a table layout (SHOW COLUMNS on MySQL, PRAGMA table_info on
// SQLite). The CLI uses it to describe the baseline table.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	columns, err := database.GetTableColumns(db, "schema_baseline")
package database
