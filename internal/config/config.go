// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package config loads the parser configuration from a YAML file.
//
// The file is given by the --config flag of the commands or by the
// RIRSTAT_CONFIG environment variable. There is no automatic discovery.
//
//	filter:
//	  countries: [EE, LV]
//	  types: [asn, ipv6]
//	  statuses: [allocated, assigned]
//	  registries: [ripencc]
//	retained_fields: [cc, status]
//	strict: false
//	output:
//	  format: json
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gaissmai/rirstat"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "RIRSTAT_CONFIG"

// Config is the parser and output configuration.
type Config struct {
	// Filter selects the data lines to expand, empty lists match all.
	Filter FilterConfig `yaml:"filter"`

	// RetainedFields are the metadata fields kept in the output and
	// used for deduplication and aggregation.
	RetainedFields []string `yaml:"retained_fields"`

	// Strict turns covered inserts into errors.
	Strict bool `yaml:"strict"`

	Output OutputConfig `yaml:"output"`
}

// FilterConfig matches the native fields of a data line.
type FilterConfig struct {
	Countries  []string `yaml:"countries"`
	Types      []string `yaml:"types"`
	Statuses   []string `yaml:"statuses"`
	Registries []string `yaml:"registries"`
}

// OutputConfig configures the result encoding.
type OutputConfig struct {
	// Format is json or cbor.
	Format string `yaml:"format"`
}

// Default returns the configuration used without a config file.
func Default() *Config {
	return &Config{
		RetainedFields: []string{"cc", "status"},
		Output: OutputConfig{
			Format: string(rirstat.FormatJSON),
		},
	}
}

// Load loads the file named by RIRSTAT_CONFIG, or returns the
// default configuration if the variable is not set.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads and validates the config file at path. Fields not
// set in the file keep their defaults, unknown keys are an error.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	// an empty file is no error, it keeps the defaults
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks types, retained fields and the output format.
func (c *Config) Validate() error {
	for _, typ := range c.Filter.Types {
		switch typ {
		case rirstat.TypeASN, rirstat.TypeIPv4, rirstat.TypeIPv6:
		default:
			return fmt.Errorf("filter.types: unknown record type %q", typ)
		}
	}

	if _, err := c.Retained(); err != nil {
		return err
	}

	if _, err := rirstat.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	return nil
}

// Retained returns the retained fields as bitmask.
func (c *Config) Retained() (rirstat.Field, error) {
	var retained rirstat.Field
	for _, name := range c.RetainedFields {
		f, ok := rirstat.ParseField(name)
		if !ok {
			return 0, fmt.Errorf("retained_fields: unknown field %q", name)
		}
		retained |= f
	}
	return retained, nil
}

// Format returns the output format.
func (c *Config) Format() (rirstat.Format, error) {
	return rirstat.ParseFormat(c.Output.Format)
}

// Predicate returns the filter for the data lines. Countries compare
// case-insensitive.
func (c *Config) Predicate() rirstat.Filter {
	countries := make([]string, 0, len(c.Filter.Countries))
	for _, cc := range c.Filter.Countries {
		countries = append(countries, strings.ToUpper(cc))
	}

	types := slices.Clone(c.Filter.Types)
	statuses := slices.Clone(c.Filter.Statuses)
	registries := slices.Clone(c.Filter.Registries)

	return func(rec rirstat.Record) bool {
		return match(countries, strings.ToUpper(rec.CC)) &&
			match(types, rec.Type) &&
			match(statuses, rec.Status) &&
			match(registries, rec.Registry)
	}
}

// match reports whether s is in set, an empty set matches all.
func match(set []string, s string) bool {
	return len(set) == 0 || slices.Contains(set, s)
}

// Options returns the parser options for this configuration.
func (c *Config) Options() ([]rirstat.Option, error) {
	retained, err := c.Retained()
	if err != nil {
		return nil, err
	}

	opts := []rirstat.Option{
		rirstat.WithFilter(c.Predicate()),
		rirstat.WithRetainedFields(retained),
	}
	if c.Strict {
		opts = append(opts, rirstat.WithStrictConflicts())
	}
	return opts, nil
}
