package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlIndent is the indentation of generated YAML.
const yamlIndent = 2

// ToYAML serializes the persisted settings. CLI-only fields are left out.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(yamlIndent)
	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// ToYAMLWithHeader is ToYAML preceded by header and a blank line.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	body, err := c.ToYAML()
	if err != nil || header == "" {
		return body, err
	}

	header = strings.TrimRight(header, "\n")
	out := make([]byte, 0, len(header)+2+len(body))
	out = append(out, header...)
	out = append(out, "\n\n"...)
	return append(out, body...), nil
}

// Overlay decodes data onto a copy of c. Keys present in data replace the
// copied values, absent keys keep them, and unknown keys are an error.
// An empty document returns the copy unchanged.
func (c *Config) Overlay(data []byte) (*Config, error) {
	out := c.Clone()
	if out == nil {
		out = &Config{}
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return out, nil
}

// FromYAML parses data onto an empty Config. Absent fields stay zero;
// defaults are applied by the loader.
func FromYAML(data []byte) (*Config, error) {
	return (&Config{}).Overlay(data)
}

// Clone returns a deep copy, CLI-only fields included.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Ignore = cloneStrings(c.Ignore)
	clone.IgnoredScripts = cloneStrings(c.IgnoredScripts)
	if c.Compress != nil {
		clone.Compress = boolPtr(*c.Compress)
	}
	if c.WordGuard != nil {
		clone.WordGuard = boolPtr(*c.WordGuard)
	}
	return &clone
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append(make([]string, 0, len(in)), in...)
}
