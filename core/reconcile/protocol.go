package reconcile

import (
	"context"
	"errors"
	"fmt"

	"schema-sentinel/core/logger"
	"schema-sentinel/core/snapshot"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidTransition is returned when a Pending is driven out of order.
var ErrInvalidTransition = errors.New("invalid reconciliation state transition")

// Pending is a reconciliation between its check and its commit. It exists for
// callers whose rebuild runs between two separate hooks; Run covers the rest.
type Pending struct {
	engine *Engine
	logger *zap.Logger
	actual []snapshot.Entry

	outcome Outcome
}

// Begin checks actual against the baseline. When a change is detected the
// baseline is cleared before returning, so the rebuild can start right away.
func (e *Engine) Begin(ctx context.Context, actual []snapshot.Entry) (*Pending, error) {
	runID := uuid.NewString()
	l := logger.WithRunID(e.logger, runID)

	p := &Pending{
		engine:  e,
		logger:  l,
		actual:  actual,
		outcome: Outcome{RunID: runID, State: StateChecking},
	}

	report, err := e.check(ctx, l, actual)
	if err != nil {
		return p, p.fail(err)
	}
	p.outcome.Report = report

	if !report.Changed() {
		p.transition(StateUnchanged)
		return p, nil
	}
	p.transition(StateChangeDetected)

	// Cleared before the rebuild: a crash from here on forces the next check to report a change.
	if err := e.store.ClearAll(ctx); err != nil {
		return p, p.fail(err)
	}
	p.transition(StateCleared)
	return p, nil
}

// Changed reports whether the rebuild has to run.
func (p *Pending) Changed() bool {
	return p.outcome.Report != nil && p.outcome.Report.Changed()
}

// State returns the current protocol state.
func (p *Pending) State() State {
	return p.outcome.State
}

// Outcome returns a snapshot of the run so far.
func (p *Pending) Outcome() *Outcome {
	out := p.outcome
	return &out
}

// Rebuild runs fn as the dependent rebuild. A failure leaves the baseline empty.
func (p *Pending) Rebuild(ctx context.Context, fn RebuildFunc) error {
	if p.outcome.State != StateCleared {
		return fmt.Errorf("%w: rebuild from %s", ErrInvalidTransition, p.outcome.State)
	}
	p.transition(StateRebuilding)
	if err := fn(ctx); err != nil {
		p.logger.Warn("Rebuild failed, baseline left empty", zap.Error(err))
		return p.fail(err)
	}
	return nil
}

// Commit writes the actual entries as the new baseline. It is a no-op for an
// unchanged run.
func (p *Pending) Commit(ctx context.Context) error {
	switch p.outcome.State {
	case StateUnchanged:
		return nil
	case StateCleared, StateRebuilding:
	default:
		return fmt.Errorf("%w: commit from %s", ErrInvalidTransition, p.outcome.State)
	}

	if err := p.engine.UpdateCheckedFiles(ctx, p.actual); err != nil {
		return p.fail(err)
	}
	p.transition(StateCommitted)
	p.logger.Info("Baseline committed", zap.Int("entries", len(p.actual)))
	return nil
}

// Run performs the full protocol: check, and when changed clear, rebuild, commit.
func (e *Engine) Run(ctx context.Context, actual []snapshot.Entry, rebuild RebuildFunc) (*Outcome, error) {
	p, err := e.Begin(ctx, actual)
	if err != nil {
		return p.Outcome(), err
	}
	if !p.Changed() {
		return p.Outcome(), nil
	}
	if err := p.Rebuild(ctx, rebuild); err != nil {
		return p.Outcome(), err
	}
	if err := p.Commit(ctx); err != nil {
		return p.Outcome(), err
	}
	return p.Outcome(), nil
}

func (p *Pending) transition(to State) {
	p.logger.Debug("Reconciliation state changed",
		zap.String("from", string(p.outcome.State)),
		zap.String("state", string(to)),
	)
	p.outcome.State = to
}

func (p *Pending) fail(err error) error {
	p.outcome.FailedAt = p.outcome.State
	p.transition(StateFailed)
	return err
}
