// Package database provides SQLite connectivity for the roll-call core.
//
// This package manages:
//   - Database connection with WAL mode for concurrent reads
//   - Embedded schema migrations (up/down pairs)
//   - Connection pooling and lifecycle management
//   - The ErrUnavailable sentinel that repositories wrap driver failures with
//
// All queries use parameterised statements. The database file is created
// with 0600 permissions.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql with an
// optional matching .down.sql, and are applied oldest first.
package database
