package patch

import (
	"context"
	"fmt"

	"github.com/specialistvlad/patchgrid/internal/config"
	"github.com/specialistvlad/patchgrid/internal/ctxlog"
)

// RunnerOptions configure a Runner.
type RunnerOptions struct {
	Options
	// Only restricts the run to the named patches. Declared order is kept.
	Only []string
	// KeepGoing continues with the next patch after a failure.
	KeepGoing bool
}

// Outcome is the per-patch line of a Summary.
type Outcome struct {
	Patch  string
	Report *Report
	Err    error
	// NotRun is set for patches left over after a fail-fast stop.
	NotRun bool
}

// Summary collects the outcome of every selected patch in run order.
type Summary struct {
	Outcomes []Outcome
}

// Counts returns how many patches changed their target, left it unchanged,
// failed, and how many rules went unmatched overall.
func (s *Summary) Counts() (changed, unchanged, failed, unmatched int) {
	for _, o := range s.Outcomes {
		switch {
		case o.Err != nil:
			failed++
		case o.NotRun:
		case o.Report.Changed:
			changed++
		default:
			unchanged++
		}
		if o.Report != nil {
			unmatched += len(o.Report.Unmatched())
		}
	}
	return changed, unchanged, failed, unmatched
}

// Runner executes patch scripts strictly in sequence.
type Runner struct {
	scripts []*Script
}

// NewRunner compiles every patch of the model.
func NewRunner(model *config.Model) (*Runner, error) {
	scripts := make([]*Script, 0, len(model.Patches))
	for _, p := range model.Patches {
		s, err := NewScript(p)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, s)
	}
	return &Runner{scripts: scripts}, nil
}

func (r *Runner) selected(only []string) ([]*Script, error) {
	if len(only) == 0 {
		return r.scripts, nil
	}
	want := make(map[string]bool, len(only))
	for _, name := range only {
		want[name] = false
	}
	var out []*Script
	for _, s := range r.scripts {
		if _, ok := want[s.Name()]; ok {
			want[s.Name()] = true
			out = append(out, s)
		}
	}
	for _, name := range only {
		if !want[name] {
			return nil, fmt.Errorf("unknown patch %q", name)
		}
	}
	return out, nil
}

// Run executes the selected patches. The returned error is the first patch
// failure, or a context error when the run was cancelled between patches.
func (r *Runner) Run(ctx context.Context, opts RunnerOptions) (*Summary, error) {
	logger := ctxlog.FromContext(ctx)
	scripts, err := r.selected(opts.Only)
	if err != nil {
		return nil, err
	}
	logger.Debug("Runner starting.", "patches", len(scripts), "dry_run", opts.DryRun, "strict", opts.Strict)

	// A dry run writes nothing, so later scripts read what earlier ones
	// would have written from the staging map instead of disk.
	if opts.DryRun {
		opts.staged = make(map[string]string)
	}

	summary := &Summary{}
	var firstErr error
	for i, s := range scripts {
		if err := ctx.Err(); err != nil {
			for _, rest := range scripts[i:] {
				summary.Outcomes = append(summary.Outcomes, Outcome{Patch: rest.Name(), NotRun: true})
			}
			return summary, err
		}

		report, err := s.Run(ctx, opts.Options)
		summary.Outcomes = append(summary.Outcomes, Outcome{Patch: s.Name(), Report: report, Err: err})
		if err == nil {
			continue
		}

		logger.Error("Patch failed.", "patch", s.Name(), "error", err)
		if firstErr == nil {
			firstErr = err
		}
		if !opts.KeepGoing {
			for _, rest := range scripts[i+1:] {
				summary.Outcomes = append(summary.Outcomes, Outcome{Patch: rest.Name(), NotRun: true})
			}
			break
		}
	}
	return summary, firstErr
}
