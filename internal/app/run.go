package app

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/patchgrid/internal/ctxlog"
	"github.com/specialistvlad/patchgrid/internal/patch"
)

// Run executes the configured patches, or lists them when List is set.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.List {
		return a.list()
	}

	a.logger.Info("Applying patches.", "count", len(a.model.Patches), "root", a.config.Root, "dry_run", a.config.DryRun)
	summary, runErr := a.runner.Run(ctx, patch.RunnerOptions{
		Options: patch.Options{
			Root:   a.config.Root,
			DryRun: a.config.DryRun,
			Strict: a.config.Strict,
			Backup: a.config.Backup,
		},
		Only:      a.config.Only,
		KeepGoing: a.config.KeepGoing,
	})
	if summary == nil {
		return runErr
	}

	if err := a.printSummary(summary); err != nil {
		return err
	}

	changed, unchanged, failed, unmatched := summary.Counts()
	a.logger.Info("Run finished.", "changed", changed, "unchanged", unchanged, "failed", failed, "unmatched_rules", unmatched)

	if runErr != nil {
		return fmt.Errorf("patch run failed: %w", runErr)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) list() error {
	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	for _, p := range a.model.Patches {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, p.Target, plural(len(p.Rules), "rule"), p.Description)
	}
	return tw.Flush()
}

func (a *App) printSummary(summary *patch.Summary) error {
	if a.config.DryRun {
		for _, o := range summary.Outcomes {
			if o.Report != nil && o.Report.Diff != "" {
				fmt.Fprint(a.outW, o.Report.Diff)
			}
		}
	}

	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	for _, o := range summary.Outcomes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", o.Patch, outcomeState(o, a.config.DryRun), outcomeDetail(o))
	}
	return tw.Flush()
}

func outcomeState(o patch.Outcome, dryRun bool) string {
	switch {
	case o.NotRun:
		return "not run"
	case o.Err != nil:
		return "failed"
	case o.Report.Changed && dryRun:
		return "would change"
	case o.Report.Changed:
		return "changed"
	default:
		return "unchanged"
	}
}

func outcomeDetail(o patch.Outcome) string {
	if o.Report == nil {
		if o.Err != nil {
			return o.Err.Error()
		}
		return ""
	}

	var applied, skipped int
	for _, res := range o.Report.Rules {
		switch res.Status {
		case patch.StatusApplied:
			applied++
		case patch.StatusSkipped:
			skipped++
		}
	}

	detail := fmt.Sprintf("%d/%s applied", applied, plural(len(o.Report.Rules), "rule"))
	if skipped > 0 {
		detail += fmt.Sprintf(", %d already applied", skipped)
	}
	if unmatched := o.Report.Unmatched(); len(unmatched) > 0 {
		detail += ", unmatched: " + strings.Join(unmatched, ", ")
	}
	return detail
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
