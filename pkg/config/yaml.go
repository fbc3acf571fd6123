package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// ToYAML serializes the configuration to YAML.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent())

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// ToYAMLWithHeader serializes the configuration after a header comment.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	yamlBytes, err := c.ToYAML()
	if err != nil {
		return nil, err
	}

	if header == "" {
		return yamlBytes, nil
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	if header[len(header)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(yamlBytes)

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML. Fields missing from data are
// left unset, not defaulted.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Render.HideDelimiters = clonePtr(c.Render.HideDelimiters)
	clone.Render.SubstituteTabs = clonePtr(c.Render.SubstituteTabs)
	clone.Render.ShowImages = clonePtr(c.Render.ShowImages)
	clone.Render.HideCloze = clonePtr(c.Render.HideCloze)
	clone.Parse.Verify = clonePtr(c.Parse.Verify)
	clone.Parse.Extensions = slices.Clone(c.Parse.Extensions)
	clone.Notes.Extensions = slices.Clone(c.Notes.Extensions)
	clone.Notes.Ignore = slices.Clone(c.Notes.Ignore)
	return &clone
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}

// Template returns a commented starter configuration.
func Template() []byte {
	return []byte(`# commonplace configuration

render:
  # Hide Markdown delimiters such as ** and # in rendered output.
  hide_delimiters: true
  # Show the space after list markers and headers as a tab.
  substitute_tabs: false
  # Replace images with a placeholder character.
  show_images: false
  # Quiz on one cloze (0-based); -1 shows every answer.
  hide_cloze: -1
  # Directory used to resolve image links.
  # image_dir: assets

parse:
  # Memo invalidation: precise or conservative.
  memo_policy: precise
  # Check every incremental parse against a full parse.
  verify: false
  # Grammar extensions; remove entries to disable them.
  extensions: [question_and_answer, summary, cloze]

notes:
  dir: .
  extensions: [.md, .markdown]
  # ignore:
  #   - "drafts/**"

log_level: info
`)
}
