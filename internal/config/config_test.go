// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/casepipe/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, config.DefaultMaxScopes, cfg.MaxScopes)
}

func TestLoad_MissingFileIsSkippedSilently(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_format: text\nverbose: true\n"), 0o644))

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, config.DefaultMaxScopes, cfg.MaxScopes, "unset fields keep their default")
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_format: text\n"), 0o644))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log_format", "json", "")
	require.NoError(t, fs.Set("log_format", "json"))
	require.NoError(t, fs.Parse([]string{"--log_format=json"}))

	cfg, err := config.Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat, "explicit flag wins over file")
}

func TestValidate_RejectsBadLogFormat(t *testing.T) {
	cfg := config.Config{LogFormat: "xml", MaxScopes: 10}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log-format")
}

func TestValidate_RejectsNonPositiveMaxScopes(t *testing.T) {
	cfg := config.Config{LogFormat: "json", MaxScopes: 0}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max-scopes")
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}
