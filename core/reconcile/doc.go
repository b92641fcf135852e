// Package reconcile decides whether a tracked file set drifted from the persisted
// baseline and drives the rebuild protocol that replaces it.
//
// # Comparison
//
// Diff indexes the actual entries and the baseline by identity and classifies:
//   - Added: identity absent from the baseline.
//   - Deleted: baseline identity absent from the actual set.
//   - Modified: identity in both with a different modification time.
//
// HasChanged is true iff any class is non-empty and logs one line per change.
// Neither call mutates the baseline.
//
// # Protocol
//
//	CHECKING -> UNCHANGED
//	CHECKING -> CHANGE_DETECTED -> CLEARED -> REBUILDING -> COMMITTED
//
// The baseline is cleared before the rebuild starts and written only once the
// rebuild succeeded. A crash or a failed rebuild in between leaves an empty
// baseline, so the next check reports a change and the rebuild runs again.
// No transaction spans the rebuild.
//
// # Usage
//
//	engine := reconcile.NewEngine(store, logger)
//	outcome, err := engine.Run(ctx, entries, func(ctx context.Context) error {
//	    return regenerateSchema(ctx)
//	})
package reconcile
