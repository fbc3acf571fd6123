package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/commonplace/internal/configloader"
	"github.com/yaklabco/commonplace/internal/logging"
	"github.com/yaklabco/commonplace/pkg/config"
	"github.com/yaklabco/commonplace/pkg/fsutil"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

type initFlags struct {
	force  bool
	user   bool
	output string
}

func newInitCommand(globals *globalFlags) *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a commonplace configuration file",
		Long: `Create a commented .commonplace.yml in the current directory, or the
user configuration file with --user.

Examples:
  commonplace init                 Create .commonplace.yml
  commonplace init --user          Create ~/.config/commonplace/config.yaml
  commonplace init -o notes.yml    Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, globals, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.user, "user", false, "create the user configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, globals *globalFlags, flags *initFlags) error {
	logger := logging.Default()

	path, err := initPath(globals, flags)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		if !flags.force {
			return fmt.Errorf("file %q already exists; use --force to overwrite", path)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	content := config.Template()
	if _, err := config.FromYAML(content); err != nil {
		return fmt.Errorf("template does not parse: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := fsutil.WriteAtomic(cmd.Context(), path, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, path)
	return nil
}

func initPath(globals *globalFlags, flags *initFlags) (string, error) {
	base := globals.dir
	if base == "" {
		var err error
		if base, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
	}

	switch {
	case flags.output != "":
		if filepath.IsAbs(flags.output) {
			return flags.output, nil
		}
		return filepath.Join(base, flags.output), nil
	case flags.user:
		dir, err := configloader.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "config.yaml"), nil
	default:
		return filepath.Join(base, configloader.ProjectConfigFiles[0]), nil
	}
}
