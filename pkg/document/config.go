package document

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yaklabco/commonplace/pkg/config"
	"github.com/yaklabco/commonplace/pkg/markdown"
	"github.com/yaklabco/commonplace/pkg/packrat"
)

// OptionsFromConfig translates resolved configuration into document
// options. noteDir is the directory of the note being opened; relative
// image targets and a relative image_dir are resolved against it.
func OptionsFromConfig(cfg *config.Config, noteDir string) ([]Option, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	grammar, err := markdown.GrammarFor(cfg.Parse.Extensions)
	if err != nil {
		return nil, fmt.Errorf("grammar: %w", err)
	}

	policy := packrat.PolicyPrecise
	if cfg.Parse.MemoPolicy == config.MemoConservative {
		policy = packrat.PolicyConservative
	}

	render := cfg.Render.RenderOptions()
	opts := []Option{
		WithGrammar(grammar),
		WithMemoPolicy(policy),
		WithVerify(cfg.Parse.VerifyEnabled()),
		WithReplacements(render.Replacements()),
	}
	if render.ShowImages {
		opts = append(opts, WithImageResolver(FileImageResolver(imageDir(cfg.Render.ImageDir, noteDir))))
	}
	return opts, nil
}

// FileImageResolver loads image link targets from the local file system.
// Targets with a URL scheme are not fetched.
func FileImageResolver(dir string) func(target string) ([]byte, bool) {
	return func(target string) ([]byte, bool) {
		if target == "" || hasScheme(target) {
			return nil, false
		}
		path := target
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		data, err := os.ReadFile(path) //nolint:gosec // Paths come from the user's own notes.
		if err != nil {
			return nil, false
		}
		return data, true
	}
}

func imageDir(configured, noteDir string) string {
	switch {
	case configured == "":
		return noteDir
	case filepath.IsAbs(configured):
		return configured
	default:
		return filepath.Join(noteDir, configured)
	}
}

func hasScheme(target string) bool {
	for i, r := range target {
		switch {
		case r == ':':
			return i > 1
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '+', r == '-', r == '.':
		default:
			return false
		}
	}
	return false
}
