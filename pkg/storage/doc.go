// Package storage persists task records behind a single CRUD contract
// with interchangeable backends.
//
// Drivers:
//   - "memory": process-lifetime map, cleared on restart
//   - "redis": records serialized as JSON under namespaced keys
//   - "sqlite": SQLite database file (build with -tags sqlite)
//
// All backends share the same record-lifecycle rules: Add assigns a
// random id when absent, stamps createdAt/updatedAt, defaults the
// timezone to "UTC" and runCount to 0; Update deep-merges a partial into
// the stored record and re-stamps updatedAt.
//
// Text-based backends serialize timestamps as RFC 3339 strings and
// re-parse them explicitly on read. A task's Execute handler is not
// serializable; records loaded from redis or sqlite come back with a nil
// handler and the host re-binds it after load.
package storage
