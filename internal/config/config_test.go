// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaissmai/rirstat"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rirstat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())

	retained, err := cfg.Retained()
	require.NoError(t, err)
	assert.Equal(t, rirstat.DefaultFields, retained)

	f, err := cfg.Format()
	require.NoError(t, err)
	assert.Equal(t, rirstat.FormatJSON, f)

	// empty filter accepts all
	assert.True(t, cfg.Predicate()(rirstat.Record{CC: "ZZ", Type: "ipv4"}))
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
filter:
  countries: [ee]
  types: [asn, ipv6]
retained_fields: [registry, cc, date]
strict: true
output:
  format: cbor
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"ee"}, cfg.Filter.Countries)
	assert.True(t, cfg.Strict)

	retained, err := cfg.Retained()
	require.NoError(t, err)
	assert.Equal(t, rirstat.FieldRegistry|rirstat.FieldCC|rirstat.FieldDate, retained)

	f, err := cfg.Format()
	require.NoError(t, err)
	assert.Equal(t, rirstat.FormatCBOR, f)

	filter := cfg.Predicate()
	assert.True(t, filter(rirstat.Record{CC: "EE", Type: "asn"}))
	assert.True(t, filter(rirstat.Record{CC: "ee", Type: "ipv6"}))
	assert.False(t, filter(rirstat.Record{CC: "EE", Type: "ipv4"}))
	assert.False(t, filter(rirstat.Record{CC: "LV", Type: "asn"}))
}

func TestLoadFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	for _, content := range []string{"", "strict: true\n"} {
		cfg, err := LoadFile(writeConfig(t, content))
		require.NoError(t, err)
		assert.Equal(t, []string{"cc", "status"}, cfg.RetainedFields)
		assert.Equal(t, "json", cfg.Output.Format)
	}
}

func TestLoadFileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		content string
		want    string
	}{
		{"filtr:\n  countries: [EE]\n", "field filtr not found"},
		{"filter:\n  types: [ipv5]\n", `unknown record type "ipv5"`},
		{"retained_fields: [subnet]\n", `unknown field "subnet"`},
		{"output:\n  format: xml\n", "output.format"},
		{"strict: [true\n", "parsing config"},
	}

	for _, tt := range tests {
		path := writeConfig(t, tt.content)
		_, err := LoadFile(path)
		require.Error(t, err, tt.content)
		assert.Contains(t, err.Error(), tt.want, tt.content)
		assert.True(t, strings.HasPrefix(err.Error(), path), err.Error())
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv(EnvVar, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	t.Setenv(EnvVar, writeConfig(t, "filter:\n  statuses: [assigned]\n"))

	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"assigned"}, cfg.Filter.Statuses)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Filter.Countries = []string{"EE"}
	cfg.Strict = true

	opts, err := cfg.Options()
	require.NoError(t, err)

	input := `2|test|1|2|||+0000
test|*|asn|*|1|summary
test|*|ipv4|*|0|summary
test|*|ipv6|*|1|summary
test|EE|ipv6|2001:db8::|32|20100101|allocated|x
test|LV|asn|64500|1|20100101|allocated|x
`
	res, err := rirstat.Parse(strings.NewReader(input), opts...)
	require.NoError(t, err)
	assert.Empty(t, res.Records.ASN)
	require.Len(t, res.Records.IPv6, 1)
	assert.Equal(t, "2001:db8::/32", res.Records.IPv6[0].Subnet)
}
