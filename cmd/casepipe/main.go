// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package main is the entry point for the casepipe CLI.
package main

import (
	"fmt"
	"os"

	"github.com/holomush/casepipe/internal/logging"
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	logging.Version = version
}

// version is set at build time via -ldflags.
var version = "dev"
