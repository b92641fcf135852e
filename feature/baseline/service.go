package baseline

import (
	"context"

	"schema-sentinel/core/reconcile"
	"schema-sentinel/core/resolve"
	"schema-sentinel/core/snapshot"

	"go.uber.org/zap"
)

// CheckResult is a comparison together with the identifiers that were not found.
type CheckResult struct {
	Report *reconcile.Report `json:"report"`
	Missed []string          `json:"missed"`
}

// Service exposes baseline operations over a resolved selection.
type Service struct {
	engine   *reconcile.Engine
	store    snapshot.Store
	resolver *resolve.Resolver
	track    resolve.Config
	logger   *zap.Logger
}

// NewService creates a baseline service.
func NewService(store snapshot.Store, resolver *resolve.Resolver, track resolve.Config, logger *zap.Logger) *Service {
	return &Service{
		engine:   reconcile.NewEngine(store, logger),
		store:    store,
		resolver: resolver,
		track:    track,
		logger:   logger,
	}
}

// List returns the persisted baseline.
func (s *Service) List(ctx context.Context) ([]snapshot.Entry, error) {
	return s.engine.Baseline(ctx)
}

// Check compares the selection with the baseline without mutating it.
// An empty selection falls back to the configured one.
func (s *Service) Check(ctx context.Context, sel resolve.Selection) (*CheckResult, error) {
	entries, missed, err := s.collect(ctx, sel)
	if err != nil {
		return nil, err
	}
	report, err := s.engine.Check(ctx, entries)
	if err != nil {
		return nil, err
	}
	return &CheckResult{Report: report, Missed: missed}, nil
}

// Commit replaces the baseline with the resolved selection and returns the entry count.
func (s *Service) Commit(ctx context.Context, sel resolve.Selection) (int, error) {
	entries, _, err := s.collect(ctx, sel)
	if err != nil {
		return 0, err
	}
	if err := s.engine.UpdateCheckedFiles(ctx, entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Clear empties the baseline, forcing the next check to report a change.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.ClearAll(ctx)
}

func (s *Service) collect(ctx context.Context, sel resolve.Selection) ([]snapshot.Entry, []string, error) {
	if sel.Empty() {
		sel = resolve.SelectionFromConfig(s.track)
	}
	resolutions, err := s.resolver.ResolveSelection(ctx, sel, s.track.ClassExtension)
	if err != nil {
		return nil, nil, err
	}
	missed := resolve.Misses(resolutions)
	if missed == nil {
		missed = []string{}
	}
	return resolve.Entries(resolutions), missed, nil
}
