package reconcile

import (
	"context"
	"sort"

	"schema-sentinel/core/snapshot"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Engine compares tracked entries with the baseline held by a store.
// It performs no locking: one reconciliation per store at a time.
type Engine struct {
	store  snapshot.Store
	logger *zap.Logger
	reads  singleflight.Group
}

// NewEngine creates an engine over store.
func NewEngine(store snapshot.Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, logger: logger}
}

// Diff classifies actual against the baseline without logging or mutating anything.
// Identities in actual are expected to be unique.
func (e *Engine) Diff(ctx context.Context, actual []snapshot.Entry) (*Report, error) {
	baseline, err := e.loadBaseline(ctx)
	if err != nil {
		return nil, err
	}
	return compare(actual, baseline), nil
}

// Check classifies actual against the baseline and logs every change.
func (e *Engine) Check(ctx context.Context, actual []snapshot.Entry) (*Report, error) {
	return e.check(ctx, e.logger, actual)
}

// HasChanged reports whether actual differs from the baseline and logs every change.
func (e *Engine) HasChanged(ctx context.Context, actual []snapshot.Entry) (bool, error) {
	report, err := e.Check(ctx, actual)
	if err != nil {
		return false, err
	}
	return report.Changed(), nil
}

// UpdateCheckedFiles replaces the baseline with actual: clear, then insert each entry.
// The two steps are not atomic; a failure in between leaves a partial baseline
// which the next check reports as changed.
func (e *Engine) UpdateCheckedFiles(ctx context.Context, actual []snapshot.Entry) error {
	if err := e.store.ClearAll(ctx); err != nil {
		return err
	}
	for _, entry := range actual {
		if err := e.store.InsertOrUpdate(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) check(ctx context.Context, l *zap.Logger, actual []snapshot.Entry) (*Report, error) {
	report, err := e.Diff(ctx, actual)
	if err != nil {
		return nil, err
	}
	logReport(l, report)
	return report, nil
}

// compare builds the report; it is the whole change detection algorithm.
func compare(actual, baseline []snapshot.Entry) *Report {
	inBaseline := snapshot.Index(baseline)
	inActual := snapshot.Index(actual)

	report := &Report{
		Added:    []snapshot.Entry{},
		Modified: []Modification{},
		Deleted:  []snapshot.Entry{},
	}

	for _, a := range actual {
		b, ok := inBaseline[a.Identity]
		if !ok {
			report.Added = append(report.Added, a)
			continue
		}
		if !a.LastModified.Equal(b.LastModified) {
			report.Modified = append(report.Modified, Modification{
				Identity: a.Identity,
				Previous: b.LastModified,
				Current:  a.LastModified,
			})
		}
	}

	for _, b := range baseline {
		if _, ok := inActual[b.Identity]; !ok {
			report.Deleted = append(report.Deleted, b)
		}
	}

	// Sort for deterministic output
	report.Added = snapshot.Sorted(report.Added)
	report.Deleted = snapshot.Sorted(report.Deleted)
	sort.Slice(report.Modified, func(i, j int) bool {
		return report.Modified[i].Identity < report.Modified[j].Identity
	})

	report.Summary = Summary{
		Tracked:  len(inActual),
		Baseline: len(inBaseline),
		Added:    len(report.Added),
		Modified: len(report.Modified),
		Deleted:  len(report.Deleted),
	}
	return report
}

func logReport(l *zap.Logger, report *Report) {
	if !report.Changed() {
		l.Info("No modification has been detected, rebuild will be skipped",
			zap.Int("tracked", report.Summary.Tracked))
		return
	}

	l.Info("Modifications have been detected",
		zap.Int("added", report.Summary.Added),
		zap.Int("modified", report.Summary.Modified),
		zap.Int("deleted", report.Summary.Deleted),
	)
	for _, a := range report.Added {
		l.Info("Tracked file has been created", zap.String("identity", a.Identity), zap.String("change", "created"))
	}
	for _, m := range report.Modified {
		l.Info("Tracked file has been modified",
			zap.String("identity", m.Identity),
			zap.String("change", "modified"),
			zap.Time("previous", m.Previous),
			zap.Time("current", m.Current),
		)
	}
	for _, d := range report.Deleted {
		l.Info("Tracked file has been deleted", zap.String("identity", d.Identity), zap.String("change", "deleted"))
	}
	l.Info("Rebuild required")
}
