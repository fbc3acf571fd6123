package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/commonplace/pkg/config"
	"github.com/yaklabco/commonplace/pkg/markdown"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, config.MemoPrecise, cfg.Parse.MemoPolicy)
	assert.Equal(t, config.FormatText, cfg.Format)
	assert.Equal(t, config.ColorAuto, cfg.Color)
	assert.False(t, cfg.Parse.VerifyEnabled())
	assert.Equal(t, markdown.RenderOptions{HideCloze: -1}, cfg.Render.RenderOptions())
}

func TestRenderOptions_UnsetFields(t *testing.T) {
	t.Parallel()

	opts := config.RenderConfig{}.RenderOptions()
	assert.Equal(t, -1, opts.HideCloze)
	assert.False(t, opts.HideDelimiters)
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromYAML([]byte(`
render:
  hide_delimiters: true
  hide_cloze: 2
parse:
  memo_policy: conservative
  extensions: [cloze]
log_level: debug
`))
	require.NoError(t, err)
	require.NotNil(t, cfg.Render.HideDelimiters)
	assert.True(t, *cfg.Render.HideDelimiters)
	assert.Nil(t, cfg.Render.SubstituteTabs)
	assert.Equal(t, 2, cfg.Render.RenderOptions().HideCloze)
	assert.Equal(t, config.MemoConservative, cfg.Parse.MemoPolicy)
	assert.Equal(t, []string{"cloze"}, cfg.Parse.Extensions)
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = config.FromYAML([]byte("render:\n  unknown_field: 1\n"))
	require.Error(t, err)

	empty, err := config.FromYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, empty.LogLevel)
}

func TestTemplateParses(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromYAML(config.Template())
	require.NoError(t, err)
	assert.True(t, *cfg.Render.HideDelimiters)
	assert.Equal(t, markdown.ExtensionNames(), cfg.Parse.Extensions)
}

func TestToYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	original := config.NewConfig()
	original.Jobs = 4
	data, err := original.ToYAMLWithHeader("# header")
	require.NoError(t, err)
	assert.Contains(t, string(data), "# header\n\n")
	assert.NotContains(t, string(data), "jobs")

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, original.Render, parsed.Render)
	assert.Equal(t, original.Notes, parsed.Notes)
	assert.Zero(t, parsed.Jobs)
}

func TestClone(t *testing.T) {
	t.Parallel()

	var nilCfg *config.Config
	assert.Nil(t, nilCfg.Clone())

	original := config.NewConfig()
	original.Notes.Ignore = []string{"drafts/**"}
	original.Jobs = 3

	clone := original.Clone()
	require.NotSame(t, original, clone)
	assert.Equal(t, original, clone)

	*clone.Render.HideDelimiters = true
	clone.Notes.Ignore[0] = "other"
	assert.False(t, *original.Render.HideDelimiters)
	assert.Equal(t, "drafts/**", original.Notes.Ignore[0])
	assert.Equal(t, 3, clone.Jobs)
}
