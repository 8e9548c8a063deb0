// Package repositories implements the key-value storage port behind the identity and favorites stores.
//
// Every value is read and written whole: callers load the full document, mutate an in-memory copy and write it back.
// There are no partial or field-level updates.
//
// Key Implementations:
//   - [MemoryStore] : map-backed store for tests and the "memory" backend
//   - [SQLiteStore] : persisted store over the kv table created by the embedded migrations
//
// The three logical keys are [UsersKey], [SessionKey] and [FavoritesKey].
// [LoadJSON] and [SaveJSON] encode documents; a value that fails to decode is reported as absent
// so that corrupted data degrades to an empty state instead of surfacing an error.
package repositories
