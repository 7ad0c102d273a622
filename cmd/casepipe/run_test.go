// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCmd_ScoresAndPrintsCases(t *testing.T) {
	sourcePath := writeTempFile(t, "score.pipe", `workflow w {
  score {
    when case.priority > 3 then score = case.priority * 10
  }
}`)
	casesPath := writeTempFile(t, "cases.json", `[
  {"id": 1, "category": "billing", "status": "open", "priority": 5, "score": 0},
  {"id": 2, "category": "billing", "status": "open", "priority": 1, "score": 0}
]`)

	cmd := newRunCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--cases", casesPath, "--log-format", "text", sourcePath})

	require.NoError(t, cmd.Execute())

	var results []cliCase
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, int64(50), results[0].Score)
	assert.Equal(t, int64(0), results[1].Score)
}

func TestRunCmd_NoCasesFileRunsEmpty(t *testing.T) {
	sourcePath := writeTempFile(t, "noop.pipe", `workflow w {
  filter { when case.priority > 0 }
}`)

	cmd := newRunCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{sourcePath})

	require.NoError(t, cmd.Execute())

	var results []cliCase
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	assert.Empty(t, results)
}

func TestRunCmd_MissingSourceFile(t *testing.T) {
	cmd := newRunCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.pipe")})

	require.Error(t, cmd.Execute())
}

func TestRunCmd_SyntaxErrorInSource(t *testing.T) {
	sourcePath := writeTempFile(t, "bad.pipe", "workflow {{{ nonsense")

	cmd := newRunCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{sourcePath})

	require.Error(t, cmd.Execute())
}

func TestRunCmd_InvalidCasesJSON(t *testing.T) {
	sourcePath := writeTempFile(t, "ok.pipe", `workflow w { score { when case.priority > 0 then score = 1 } }`)
	casesPath := writeTempFile(t, "bad-cases.json", `not json`)

	cmd := newRunCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--cases", casesPath, sourcePath})

	require.Error(t, cmd.Execute())
}
