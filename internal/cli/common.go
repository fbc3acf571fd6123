package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/commonplace/internal/configloader"
	"github.com/yaklabco/commonplace/internal/logging"
	"github.com/yaklabco/commonplace/internal/ui/pretty"
	"github.com/yaklabco/commonplace/pkg/config"
	"github.com/yaklabco/commonplace/pkg/document"
	"github.com/yaklabco/commonplace/pkg/fsutil"
)

// ErrConfig marks configuration failures for the exit code.
var ErrConfig = errors.New("invalid configuration")

// session is what every command works from: the resolved configuration and
// the directory relative paths are taken from.
type session struct {
	ctx     context.Context //nolint:containedctx // Lives for one command run.
	cfg     *config.Config
	workDir string
	styles  *pretty.Styles
}

// newSession loads configuration with cli applied on top.
func newSession(cmd *cobra.Command, globals *globalFlags, cli *config.Config) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	workDir := globals.dir
	if workDir == "" {
		var err error
		if workDir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	if cli == nil {
		cli = &config.Config{}
	}
	if cmd.Flags().Changed("color") {
		cli.Color = config.ColorMode(globals.color)
	}
	configPath := globals.configPath
	if configPath != "" && !filepath.IsAbs(configPath) {
		configPath = filepath.Join(workDir, configPath)
	}

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cli,
	})
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	cfg := result.Config
	if !globals.debug {
		logging.SetLevel(cfg.LogLevel)
	}
	logger := logging.Default()
	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldPaths, result.LoadedFrom)
	}

	return &session{
		ctx:     logging.WithLogger(ctx, logger),
		cfg:     cfg,
		workDir: workDir,
		styles:  pretty.NewStyles(pretty.IsColorEnabled(cfg.Color, cmd.OutOrStdout())),
	}, nil
}

// path resolves a command-line path against the working directory.
func (s *session) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.workDir, p)
}

// openNote reads a note file into a document configured from the session.
func (s *session) openNote(path string) (*document.Document, *fsutil.Snapshot, error) {
	path = s.path(path)
	content, snap, err := fsutil.ReadFile(s.ctx, path)
	if err != nil {
		return nil, nil, err
	}

	opts, err := document.OptionsFromConfig(s.cfg, filepath.Dir(path))
	if err != nil {
		return nil, nil, errors.Join(ErrConfig, err)
	}
	logger := logging.FromContext(s.ctx).With(logging.FieldPath, path)
	doc, err := document.New(string(content), append(opts, document.WithLogger(logger))...)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return doc, snap, nil
}

func setIf[T any](cmd *cobra.Command, name string, dst **T, value T) {
	if cmd.Flags().Changed(name) {
		*dst = &value
	}
}
