package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/commonplace/pkg/config"
)

// envVarPrefix is the prefix for all commonplace environment variables.
const envVarPrefix = "COMMONPLACE_"

// envMapping applies one environment variable to a config.
type envMapping func(cfg *config.Config, value string) error

// envMappings maps environment variable names (without prefix) to setters.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"HIDE_DELIMITERS": boolField(func(c *config.Config) **bool { return &c.Render.HideDelimiters }),
	"SUBSTITUTE_TABS": boolField(func(c *config.Config) **bool { return &c.Render.SubstituteTabs }),
	"SHOW_IMAGES":     boolField(func(c *config.Config) **bool { return &c.Render.ShowImages }),
	"VERIFY":          boolField(func(c *config.Config) **bool { return &c.Parse.Verify }),
	"HIDE_CLOZE": func(c *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Render.HideCloze = &n
		return nil
	},
	"JOBS": func(c *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Jobs = n
		return nil
	},
	"IMAGE_DIR":   func(c *config.Config, v string) error { c.Render.ImageDir = v; return nil },
	"MEMO_POLICY": func(c *config.Config, v string) error { c.Parse.MemoPolicy = config.MemoPolicy(v); return nil },
	"EXTENSIONS":  func(c *config.Config, v string) error { c.Parse.Extensions = splitList(v); return nil },
	"NOTES_DIR":   func(c *config.Config, v string) error { c.Notes.Dir = v; return nil },
	"IGNORE":      func(c *config.Config, v string) error { c.Notes.Ignore = splitList(v); return nil },
	"LOG_LEVEL":   func(c *config.Config, v string) error { c.LogLevel = v; return nil },
	"FORMAT":      func(c *config.Config, v string) error { c.Format = config.OutputFormat(v); return nil },
	"COLOR":       func(c *config.Config, v string) error { c.Color = config.ColorMode(v); return nil },
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with COMMONPLACE_ (e.g.,
// COMMONPLACE_HIDE_CLOZE).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for suffix, apply := range envMappings {
		envVar := envVarPrefix + suffix
		value, ok := os.LookupEnv(envVar)
		if !ok || value == "" {
			continue
		}
		if err := apply(cfg, value); err != nil {
			return fmt.Errorf("invalid value for %s: %q: %w", envVar, value, err)
		}
	}

	return nil
}

func boolField(field func(*config.Config) **bool) envMapping {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("expected true/false/1/0: %w", err)
		}
		*field(cfg) = &b
		return nil
	}
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
