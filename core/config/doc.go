// Package config provides configuration management for schema-sentinel.
//
// It loads an optional .env file with godotenv, then reads environment variables
// through Viper. Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key and shutdown bound
//   - Log: level and format
//   - Database: driver (mysql, sqlite) and connection details
//   - Storage: S3/MinIO credentials and bucket
//   - Redis: address and database index
//   - Snapshot: baseline backend (memory, sql, object, redis) and its naming
//   - Track: tracked resources, import files, classes and extra search roots
//
// Environment variables map onto nested keys with underscores, so
// SNAPSHOT_BACKEND sets snapshot.backend and TRACK_IMPORT_FILES sets
// track.import_files.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
