package hcl

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/specialistvlad/patchgrid/internal/config"
	"github.com/specialistvlad/patchgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modalPatch = `
patch "modal_state" {
  description = "Adds tab state"
  target      = "components/shoots/schedule-shoot-modal.tsx"

  rule "state" {
    pattern = chomp(<<-EOT
      const \[loading, setLoading\] = useState\(true\);
    EOT
    )
    replace = <<-EOT
      const [loading, setLoading] = useState(true);
      const [activeTab, setActiveTab] = useState('nativz');
    EOT
  }

  rule "class" {
    pattern   = "className=(\\w+)"
    replace   = "className={$${1}}"
    expand    = true
    dotall    = true
    multiline = true
    limit     = 2
    expect    = 0
    unless    = "activeTab"
  }
}
`

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	file := filepath.Join(dir, "modal.hcl")
	testutil.WriteFiles(t, dir, map[string]string{"modal.hcl": modalPatch})

	// --- Act ---
	model, err := NewLoader().Load(context.Background(), dir)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, model.Patches, 1)

	p := model.Patches[0]
	assert.Equal(t, "modal_state", p.Name)
	assert.Equal(t, "Adds tab state", p.Description)
	assert.Equal(t, "components/shoots/schedule-shoot-modal.tsx", p.Target)
	assert.Equal(t, file, p.Source)
	require.Len(t, p.Rules, 2)

	state := p.Rules[0]
	assert.Equal(t, `const \[loading, setLoading\] = useState\(true\);`, state.Pattern, "heredoc keeps backslashes and chomp drops the newline")
	assert.Equal(t, "const [loading, setLoading] = useState(true);\nconst [activeTab, setActiveTab] = useState('nativz');\n", state.Replacement)
	assert.False(t, state.Expand)
	assert.Equal(t, config.DefaultExpect, state.Expect)
	assert.Zero(t, state.Limit)

	class := p.Rules[1]
	assert.Equal(t, `className=(\w+)`, class.Pattern)
	assert.Equal(t, "className={${1}}", class.Replacement)
	assert.True(t, class.Expand)
	assert.True(t, class.DotAll)
	assert.True(t, class.Multiline)
	assert.Equal(t, 2, class.Limit)
	assert.Equal(t, 0, class.Expect)
	assert.Equal(t, "activeTab", class.Unless)
}

func TestLoader_LoadOrdersFilesLexically(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"02_second.hcl": `patch "second" {
  target = "a"
  rule "r" { pattern = "x" }
}`,
		"01_first.hcl": `patch "first" {
  target = "a"
  rule "r" { pattern = "x" }
}
patch "first_b" {
  target = "a"
  rule "r" { pattern = "y" }
}`,
		"README.md": "not hcl",
	})

	model, err := NewLoader().Load(context.Background(), dir, filepath.Join(dir, "01_first.hcl"), filepath.Join(dir, "missing"))

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "first_b", "second"}, model.Names())
}

func TestLoader_LoadFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"modal.hcl": {Data: []byte(modalPatch)},
	}

	model, err := NewLoader().LoadFS(context.Background(), fsys)

	require.NoError(t, err)
	require.Len(t, model.Patches, 1)
	assert.Equal(t, "modal.hcl", model.Patches[0].Source)
}

func TestLoader_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax error",
			src:     `patch "a" {`,
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "missing target",
			src: `patch "a" {
  rule "r" { pattern = "x" }
}`,
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "unknown attribute",
			src: `patch "a" {
  target = "t"
  bogus  = 1
  rule "r" { pattern = "x" }
}`,
			wantErr: "failed to decode HCL file",
		},
		{
			name: "duplicate rule",
			src: `patch "a" {
  target = "t"
  rule "r" { pattern = "x" }
  rule "r" { pattern = "y" }
}`,
			wantErr: `duplicate rule "r"`,
		},
		{
			name:    "no rules",
			src:     `patch "a" { target = "t" }`,
			wantErr: "at least one rule is required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fsys := fstest.MapFS{"p.hcl": {Data: []byte(tc.src)}}
			_, err := NewLoader().LoadFS(context.Background(), fsys)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNewEvalContext_ExposesEnvironment(t *testing.T) {
	t.Parallel()

	evalCtx, err := newEvalContext([]string{"APP_ROOT=/srv/app", "MALFORMED"})
	require.NoError(t, err)

	env := evalCtx.Variables["env"]
	assert.Equal(t, "/srv/app", env.Index(ctyString("APP_ROOT")).AsString())
	assert.Equal(t, 1, env.LengthInt())
	assert.Contains(t, evalCtx.Functions, "chomp")
}

func TestLoader_UnknownVariableIsRejected(t *testing.T) {
	t.Parallel()

	model, err := NewLoader().LoadFS(context.Background(), fstest.MapFS{
		"p.hcl": {Data: []byte(`patch "a" {
  target = format("%s/page.tsx", app_root)
  rule "r" { pattern = "x" }
}`)},
	})
	require.Error(t, err)
	assert.Nil(t, model)
}

// Not parallel: swaps the package-level environment source.
func TestLoader_EnvInTarget(t *testing.T) {
	orig := processEnviron
	processEnviron = func() []string { return []string{"APP_ROOT=/srv/app"} }
	t.Cleanup(func() { processEnviron = orig })

	model, err := NewLoader().LoadFS(context.Background(), fstest.MapFS{
		"p.hcl": {Data: []byte(`patch "a" {
  target = "${env.APP_ROOT}/app/admin/shoots/page.tsx"
  rule "r" { pattern = upper("x") }
}`)},
	})

	require.NoError(t, err)
	assert.Equal(t, "/srv/app/app/admin/shoots/page.tsx", model.Patches[0].Target)
	assert.Equal(t, "X", model.Patches[0].Rules[0].Pattern)
}
