// Package store provides SQLite-backed storage for phone location records.
//
// The store owns a single table, location, keyed by an auto-assigned _id and
// unique on number. It implements:
//   - Schema management: versioned, idempotent migrations tracked in
//     PRAGMA user_version (current version 2)
//   - Reads filtered by the address predicate AND the caller's filter
//   - Insert-if-absent: a duplicate number is silently ignored
//   - Upsert by number: update, else insert, inside one transaction
//   - Filtered update: UPDATE OR IGNORE over the collection; other
//     patterns are read-only
//   - Delete: a permanent no-op, rows are never removed
//
// # Change Notification
//
// Every mutation with a positive outcome calls the injected ChangeHook once,
// after the transaction commits. No-ops (ignored duplicate insert, zero-row
// update, delete) never call it.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - One pooled connection: all writers are serialized
package store
