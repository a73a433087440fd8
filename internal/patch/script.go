package patch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/patchgrid/internal/config"
	"github.com/specialistvlad/patchgrid/internal/ctxlog"
	"github.com/specialistvlad/patchgrid/internal/diff"
	"github.com/specialistvlad/patchgrid/internal/fsutil"
)

// Options control how a script treats its target.
type Options struct {
	// Root is the directory relative targets are resolved against.
	Root   string
	DryRun bool
	Strict bool
	Backup bool

	// staged carries dry-run output between scripts that share a target.
	staged map[string]string
}

// Report is the outcome of one script run.
type Report struct {
	Patch      string
	Target     string
	Rules      []RuleResult
	Changed    bool
	Written    bool
	BackupPath string
	// Diff holds the unified diff of a dry run.
	Diff string
}

// Unmatched returns the names of the rules that did not match.
func (r *Report) Unmatched() []string {
	var names []string
	for _, res := range r.Rules {
		if res.Status == StatusUnmatched {
			names = append(names, res.Rule)
		}
	}
	return names
}

// Script is a compiled patch ready to run against its target.
type Script struct {
	patch *config.Patch
	rules []*Rule
}

// NewScript compiles every rule of p.
func NewScript(p *config.Patch) (*Script, error) {
	rules, err := CompileAll(p)
	if err != nil {
		return nil, err
	}
	return &Script{patch: p, rules: rules}, nil
}

// Name returns the patch name.
func (s *Script) Name() string {
	return s.patch.Name
}

// TargetPath resolves the script's target against root.
func (s *Script) TargetPath(root string) string {
	if filepath.IsAbs(s.patch.Target) || root == "" {
		return filepath.Clean(s.patch.Target)
	}
	return filepath.Join(root, s.patch.Target)
}

// Run reads the target, applies the rules in order and writes the result
// back. The returned report is non-nil whenever the target could be read,
// including when a strict run fails.
func (s *Script) Run(ctx context.Context, opts Options) (*Report, error) {
	logger := ctxlog.FromContext(ctx).With("patch", s.patch.Name)
	target := s.TargetPath(opts.Root)
	report := &Report{Patch: s.patch.Name, Target: target}
	logger.Debug("Reading patch target.", "target", target)

	raw, err := s.read(target, opts)
	if err != nil {
		return nil, err
	}
	before := string(raw)

	after, results := Apply(before, s.rules)
	report.Rules = results
	report.Changed = after != before

	for _, res := range results {
		switch res.Status {
		case StatusUnmatched:
			logger.Warn("Rule did not match.", "rule", res.Rule, "matches", res.Matches)
		case StatusSkipped:
			logger.Info("Rule already applied, skipping.", "rule", res.Rule)
		default:
			logger.Debug("Rule applied.", "rule", res.Rule, "replacements", res.Replacements)
		}
	}

	if unmatched := report.Unmatched(); opts.Strict && len(unmatched) > 0 {
		return report, fmt.Errorf("patch %q: %w: %s", s.patch.Name, ErrUnmatched, strings.Join(unmatched, ", "))
	}

	if opts.DryRun {
		if opts.staged != nil {
			opts.staged[target] = after
		}
		report.Diff, err = diff.Unified(s.patch.Target, before, after)
		if err != nil {
			return report, err
		}
		logger.Debug("Dry run, target left untouched.", "changed", report.Changed)
		return report, nil
	}

	if !report.Changed {
		logger.Debug("Content unchanged, nothing to write.")
		return report, nil
	}

	if opts.Backup {
		report.BackupPath, err = fsutil.Backup(target, raw)
		if err != nil {
			return report, fmt.Errorf("patch %q: %w", s.patch.Name, err)
		}
		logger.Debug("Original content backed up.", "backup", report.BackupPath)
	}

	if err := fsutil.WriteFileAtomic(target, []byte(after)); err != nil {
		return report, fmt.Errorf("patch %q: %w", s.patch.Name, err)
	}
	report.Written = true
	logger.Info("Patch written.", "target", target)
	return report, nil
}

func (s *Script) read(target string, opts Options) ([]byte, error) {
	if staged, ok := opts.staged[target]; ok && opts.DryRun {
		return []byte(staged), nil
	}
	raw, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("patch %q: %w: %s", s.patch.Name, ErrTargetMissing, target)
		}
		return nil, fmt.Errorf("patch %q: failed to read %s: %w", s.patch.Name, target, err)
	}
	return raw, nil
}
