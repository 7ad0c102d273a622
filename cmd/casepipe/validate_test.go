// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCmd_ValidSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ok.pipe")
	src := `workflow w {
  score {
    when case.priority > 3 then score = case.priority * 10
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cmd := newValidateCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "ok: 0 function(s), 1 workflow(s)")
}

func TestValidateCmd_SyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pipe")
	require.NoError(t, os.WriteFile(path, []byte("not a valid workflow {{{"), 0o644))

	cmd := newValidateCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestValidateCmd_MissingFile(t *testing.T) {
	cmd := newValidateCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "nope.pipe")})

	err := cmd.Execute()
	require.Error(t, err)
}
