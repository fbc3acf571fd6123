package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/commonplace/pkg/config"
)

// projectDir returns a temp directory that looks like a repository root, so
// the upward config search stops there.
func projectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o750))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func isolated(dir string) LoadOptions {
	return LoadOptions{WorkingDir: dir, IgnoreUserConfig: true, IgnoreEnv: true}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(projectDir(t)))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfigFromParent(t *testing.T) {
	t.Parallel()

	root := projectDir(t)
	writeFile(t, filepath.Join(root, ".commonplace.yml"), `
render:
  hide_delimiters: true
  hide_cloze: 2
parse:
  memo_policy: conservative
`)
	sub := filepath.Join(root, "notes", "daily")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	result, err := Load(context.Background(), isolated(sub))
	require.NoError(t, err)

	cfg := result.Config
	assert.True(t, *cfg.Render.HideDelimiters)
	assert.Equal(t, 2, *cfg.Render.HideCloze)
	assert.False(t, *cfg.Render.SubstituteTabs, "unset fields keep their defaults")
	assert.Equal(t, config.MemoConservative, cfg.Parse.MemoPolicy)
	assert.Equal(t, []string{filepath.Join(root, ".commonplace.yml")}, result.LoadedFrom)
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	root := projectDir(t)
	writeFile(t, filepath.Join(root, ".commonplace.yml"), "render:\n  show_images: true\n  hide_cloze: 1\n")
	explicit := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, explicit, "render:\n  hide_cloze: 3\nlog_level: debug\n")

	hideNone := -1
	opts := isolated(root)
	opts.ExplicitPath = explicit
	opts.CLIConfig = &config.Config{Render: config.RenderConfig{HideCloze: &hideNone}, Jobs: 4}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	cfg := result.Config
	assert.True(t, *cfg.Render.ShowImages)
	assert.Equal(t, -1, *cfg.Render.HideCloze)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoad_FalseOverridesTrue(t *testing.T) {
	t.Parallel()

	root := projectDir(t)
	writeFile(t, filepath.Join(root, ".commonplace.yml"), "parse:\n  verify: true\n")

	off := false
	opts := isolated(root)
	opts.CLIConfig = &config.Config{Parse: config.ParseConfig{Verify: &off}}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, result.Config.Parse.VerifyEnabled())
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown field", "render:\n  hide_everything: true\n", "hide_everything"},
		{"bad memo policy", "parse:\n  memo_policy: lazy\n", "parse.memo_policy"},
		{"bad extension", "parse:\n  extensions: [cloze, tables]\n", `unknown grammar extension "tables"`},
		{"bad hide cloze", "render:\n  hide_cloze: -2\n", "render.hide_cloze"},
		{"bad ignore glob", "notes:\n  ignore: ['[']\n", "notes.ignore[0]"},
		{"bad log level", "log_level: chatty\n", "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := projectDir(t)
			path := filepath.Join(root, ".commonplace.yml")
			writeFile(t, path, tt.content)

			_, err := Load(context.Background(), isolated(root))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_InvalidCLIConfig(t *testing.T) {
	t.Parallel()

	opts := isolated(projectDir(t))
	opts.CLIConfig = &config.Config{Format: "xml"}

	_, err := Load(context.Background(), opts)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "format", verr.Field)
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(projectDir(t)))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoad_UserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	writeFile(t, filepath.Join(home, "commonplace", "config.yaml"), "notes:\n  dir: ~/notes\n")

	result, err := Load(context.Background(), LoadOptions{WorkingDir: projectDir(t), IgnoreEnv: true})
	require.NoError(t, err)
	assert.Equal(t, "~/notes", result.Config.Notes.Dir)
	assert.Equal(t, filepath.Join(home, "commonplace", "config.yaml"), result.Paths.User)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("COMMONPLACE_HIDE_DELIMITERS", "1")
	t.Setenv("COMMONPLACE_HIDE_CLOZE", "0")
	t.Setenv("COMMONPLACE_EXTENSIONS", "cloze, summary,")
	t.Setenv("COMMONPLACE_FORMAT", "json")

	cfg := config.NewConfig()
	require.NoError(t, LoadFromEnv(cfg))

	assert.True(t, *cfg.Render.HideDelimiters)
	assert.Equal(t, 0, *cfg.Render.HideCloze)
	assert.Equal(t, []string{"cloze", "summary"}, cfg.Parse.Extensions)
	assert.Equal(t, config.FormatJSON, cfg.Format)
}

func TestLoadFromEnv_InvalidValue(t *testing.T) {
	t.Setenv("COMMONPLACE_JOBS", "many")

	err := LoadFromEnv(config.NewConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COMMONPLACE_JOBS")
}

func TestMerge_DoesNotAlias(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	override := &config.Config{Notes: config.NotesConfig{Ignore: []string{"drafts/*"}}}

	merged := merge(base, override)
	override.Notes.Ignore[0] = "changed"
	*merged.Render.HideCloze = 5

	assert.Equal(t, []string{"drafts/*"}, merged.Notes.Ignore)
	assert.Equal(t, -1, *base.Render.HideCloze)
}

func TestValidate_Warnings(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Notes.Extensions = []string{"md"}

	result := Validate(cfg)
	assert.True(t, result.Valid())
	require.True(t, result.HasWarnings())
	assert.Contains(t, result.AllMessages()[0], "notes.extensions[0]")
}
