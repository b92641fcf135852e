package reconcile

import (
	"context"

	"schema-sentinel/core/snapshot"
)

const baselineFlightKey = "baseline"

// loadBaseline reads the baseline, joining a read already in flight.
// The shared read ignores cancellation; each caller stops waiting on its own ctx.
func (e *Engine) loadBaseline(ctx context.Context) ([]snapshot.Entry, error) {
	shared := context.WithoutCancel(ctx)
	ch := e.reads.DoChan(baselineFlightKey, func() (interface{}, error) {
		return e.store.FindAll(shared)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]snapshot.Entry), nil
	}
}

// Baseline returns a copy of the persisted baseline.
func (e *Engine) Baseline(ctx context.Context) ([]snapshot.Entry, error) {
	entries, err := e.loadBaseline(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]snapshot.Entry, len(entries))
	copy(out, entries)
	return out, nil
}
