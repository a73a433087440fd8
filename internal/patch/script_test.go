package patch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/patchgrid/internal/config"
	"github.com/specialistvlad/patchgrid/internal/fsutil"
	"github.com/specialistvlad/patchgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTarget(t *testing.T, root, rel, content string) string {
	t.Helper()
	testutil.WriteFiles(t, root, map[string]string{rel: content})
	return filepath.Join(root, filepath.FromSlash(rel))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	return testutil.ReadFile(t, path)
}

func greetingPatch() *config.Patch {
	return &config.Patch{
		Name:   "greeting",
		Target: "src/app.tsx",
		Rules: []*config.Rule{
			{Name: "hello", Pattern: `hello`, Replacement: "hi", Expect: 1},
			{Name: "world", Pattern: `world`, Replacement: "there", Expect: 1},
		},
	}
}

func TestScript_Run(t *testing.T) {
	t.Parallel()

	t.Run("patches the target in place", func(t *testing.T) {
		// --- Arrange ---
		root := t.TempDir()
		path := writeTarget(t, root, "src/app.tsx", "hello world\n")
		s, err := NewScript(greetingPatch())
		require.NoError(t, err)

		// --- Act ---
		report, err := s.Run(context.Background(), Options{Root: root})

		// --- Assert ---
		require.NoError(t, err)
		assert.True(t, report.Changed)
		assert.True(t, report.Written)
		assert.Empty(t, report.Unmatched())
		assert.Equal(t, "hi there\n", readFile(t, path))
	})

	t.Run("missing target aborts with ErrTargetMissing", func(t *testing.T) {
		s, err := NewScript(greetingPatch())
		require.NoError(t, err)

		report, err := s.Run(context.Background(), Options{Root: t.TempDir()})

		require.ErrorIs(t, err, ErrTargetMissing)
		assert.Nil(t, report)
	})

	t.Run("unmatched rule is flagged but other rules still apply", func(t *testing.T) {
		root := t.TempDir()
		path := writeTarget(t, root, "src/app.tsx", "hello moon\n")
		s, err := NewScript(greetingPatch())
		require.NoError(t, err)

		report, err := s.Run(context.Background(), Options{Root: root})

		require.NoError(t, err)
		assert.Equal(t, []string{"world"}, report.Unmatched())
		assert.Equal(t, "hi moon\n", readFile(t, path))
	})

	t.Run("strict mode refuses to write on unmatched rule", func(t *testing.T) {
		root := t.TempDir()
		path := writeTarget(t, root, "src/app.tsx", "hello moon\n")
		s, err := NewScript(greetingPatch())
		require.NoError(t, err)

		report, err := s.Run(context.Background(), Options{Root: root, Strict: true})

		require.ErrorIs(t, err, ErrUnmatched)
		assert.Contains(t, err.Error(), "world")
		require.NotNil(t, report)
		assert.False(t, report.Written)
		assert.Equal(t, "hello moon\n", readFile(t, path))
	})

	t.Run("dry run renders a diff and writes nothing", func(t *testing.T) {
		root := t.TempDir()
		path := writeTarget(t, root, "src/app.tsx", "hello world\n")
		s, err := NewScript(greetingPatch())
		require.NoError(t, err)

		report, err := s.Run(context.Background(), Options{Root: root, DryRun: true})

		require.NoError(t, err)
		assert.True(t, report.Changed)
		assert.False(t, report.Written)
		assert.Contains(t, report.Diff, "-hello world\n")
		assert.Contains(t, report.Diff, "+hi there\n")
		assert.Equal(t, "hello world\n", readFile(t, path))
	})

	t.Run("backup keeps the original", func(t *testing.T) {
		root := t.TempDir()
		path := writeTarget(t, root, "src/app.tsx", "hello world\n")
		s, err := NewScript(greetingPatch())
		require.NoError(t, err)

		report, err := s.Run(context.Background(), Options{Root: root, Backup: true})

		require.NoError(t, err)
		assert.Equal(t, path+fsutil.BackupSuffix, report.BackupPath)
		assert.Equal(t, "hello world\n", readFile(t, report.BackupPath))
		assert.Equal(t, "hi there\n", readFile(t, path))
	})

	t.Run("unchanged content is not rewritten", func(t *testing.T) {
		root := t.TempDir()
		writeTarget(t, root, "src/app.tsx", "nothing to see\n")
		p := greetingPatch()
		for _, r := range p.Rules {
			r.Expect = 0
		}
		s, err := NewScript(p)
		require.NoError(t, err)

		report, err := s.Run(context.Background(), Options{Root: root, Backup: true})

		require.NoError(t, err)
		assert.False(t, report.Changed)
		assert.False(t, report.Written)
		assert.Empty(t, report.BackupPath)
	})
}

func TestScript_TargetPath(t *testing.T) {
	t.Parallel()

	s, err := NewScript(greetingPatch())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("root", "src", "app.tsx"), s.TargetPath("root"))
	assert.Equal(t, filepath.Join("src", "app.tsx"), s.TargetPath(""))
}
