// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - PipelineStore: pipeline item and stage ordering persistence
//   - ProposalStore: proposal queue and rejection record persistence
//   - AuditStore: append-only audit log persistence
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.hira/data/board.db
//
// # Thread Safety
//
// All operations are thread-safe. Multi-step mutations such as stage moves run
// inside a transaction, on top of the database-level locking SQLite provides
// in WAL mode.
package sqlite
