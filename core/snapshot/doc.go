// Package snapshot persists the baseline: the set of tracked entries recorded by
// the last successful reconciliation.
//
// # Store Contract
//
// Every backend implements Store:
//
//	type Store interface {
//	    FindAll(ctx context.Context) ([]Entry, error)
//	    InsertOrUpdate(ctx context.Context, entry Entry) error
//	    ClearAll(ctx context.Context) error
//	}
//
// FindAll lazily creates the backing storage (table, bucket) and returns the
// entries ordered by identity. InsertOrUpdate upserts by identity. ClearAll removes
// every entry and is a no-op on an empty baseline. Each call is its own atomic unit
// of work; nothing spans several calls.
//
// Any failure is reported wrapped in ErrStorage. Stores never retry.
//
// # Backends
//
//   - memory: in-process map, used by tests and dry runs.
//   - sql: GORM over MySQL or SQLite, one table keyed by identity.
//   - object: a single msgpack object in an S3/MinIO bucket.
//   - redis: a single Redis hash, field per identity.
//
// # Usage
//
//	store, err := snapshot.New(cfg.Snapshot, snapshot.Deps{DB: db})
//	entries, err := store.FindAll(ctx)
package snapshot
