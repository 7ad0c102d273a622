// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the casepipe CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "casepipe",
		Short: "casepipe - a declarative case-routing pipeline engine",
		Long: `casepipe parses and runs the case pipeline DSL: scoring, matching,
filtering, and sorting support-style case records through named workflows.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML)")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
