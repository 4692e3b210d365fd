// Package database opens the catalog database and inspects its schema.
//
// It wraps GORM and supports two drivers: MySQL for shared deployments and
// SQLite for a local catalog file (or ":memory:" in tests).
//
// # Connect
//
// Connect picks the dialector from Config.Driver, applies the configured
// timeout to the DSN and pings the server before returning.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live table definition so the
// catalog API can refuse to start against a table that lacks expected columns.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	missing, err := database.MissingColumns(db, "images", []string{"image_id", "file_hash"})
package database
