package reconcile

import (
	"context"
	"time"

	"schema-sentinel/core/snapshot"
)

// Modification is a tracked entry whose modification time moved.
type Modification struct {
	// Identity is the entry identity.
	Identity string `json:"identity"`
	// Previous is the modification time recorded in the baseline.
	Previous time.Time `json:"previous"`
	// Current is the modification time observed now.
	Current time.Time `json:"current"`
}

// Report classifies the actual entries against the baseline.
type Report struct {
	// Added contains entries missing from the baseline.
	Added []snapshot.Entry `json:"added"`

	// Modified contains entries whose timestamp differs from the baseline.
	Modified []Modification `json:"modified"`

	// Deleted contains baseline entries missing from the actual set.
	Deleted []snapshot.Entry `json:"deleted"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate statistics for a report.
type Summary struct {
	// Tracked is the number of actual entries.
	Tracked int `json:"tracked"`
	// Baseline is the number of baseline entries.
	Baseline int `json:"baseline"`
	// Added counts created entries.
	Added int `json:"added"`
	// Modified counts modified entries.
	Modified int `json:"modified"`
	// Deleted counts deleted entries.
	Deleted int `json:"deleted"`
}

// Changed reports whether any entry was added, modified or deleted.
func (r *Report) Changed() bool {
	return len(r.Added) > 0 || len(r.Modified) > 0 || len(r.Deleted) > 0
}

// State is a step of the reconciliation protocol.
type State string

const (
	// StateChecking compares the actual entries with the baseline.
	StateChecking State = "checking"
	// StateUnchanged is terminal: the rebuild is skipped, the baseline untouched.
	StateUnchanged State = "unchanged"
	// StateChangeDetected means a rebuild is needed.
	StateChangeDetected State = "change_detected"
	// StateCleared means the baseline was emptied ahead of the rebuild.
	StateCleared State = "cleared"
	// StateRebuilding means the rebuild is running.
	StateRebuilding State = "rebuilding"
	// StateCommitted is terminal: the actual entries are the new baseline.
	StateCommitted State = "committed"
	// StateFailed is terminal: a step returned an error.
	StateFailed State = "failed"
)

// RebuildFunc is the dependent rebuild performed when a change is detected.
type RebuildFunc func(ctx context.Context) error

// Outcome describes a finished reconciliation run.
type Outcome struct {
	// RunID correlates the log lines of one run.
	RunID string `json:"run_id"`

	// State is the terminal state reached.
	State State `json:"state"`

	// FailedAt is the state in which the run failed, if it did.
	FailedAt State `json:"failed_at,omitempty"`

	// Report is the comparison computed while checking.
	Report *Report `json:"report,omitempty"`
}
