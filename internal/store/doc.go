// Package store provides SQLite-backed storage for routines and tasks.
//
// Every query is scoped to an owner; nothing here reads or writes rows of
// another owner.
//
// # Firing Idempotency
//
// Tasks materialized from a routine carry origin_routine_id and firing_key.
// A partial UNIQUE index on (owner_id, origin_routine_id, due_date, firing_key)
// guarantees at most one automatic firing per routine and day: the engine
// always uses firing_key "auto" on the automatic path, so a second insert is
// dropped by ON CONFLICT DO NOTHING and reported as model.ErrDuplicateFiring.
// Manual firings get a fresh key each time and are never deduplicated.
//
// # Deterministic Ordering
//
// List queries end with id COLLATE BINARY so equal sort keys still produce a
// stable order.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Dates are stored as YYYY-MM-DD text so that string comparison in SQL is
// date comparison.
package store
