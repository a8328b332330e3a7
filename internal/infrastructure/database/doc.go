// Package database provides SQLite database connectivity for LiveOSC Core.
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Schema migrations embedded in the binary
//   - Connection lifecycle and health checks
//
// The event journal is the only writer, so the pool is pinned to a single
// connection. WAL mode still allows HTTP readers to query history while
// the journal appends.
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration files live under migrations/ as <version>_<name>.up.sql and
// .down.sql pairs, where version is a YYYYMMDD_HHMMSS timestamp. Migrations
// are additive-only: new columns must be nullable or carry a default.
package database
