// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/casepipe/internal/lang"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <source.pipe>",
		Short: "Parse a pipeline source file and report syntax errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return oops.Code("SOURCE_READ_FAILED").With("path", args[0]).Wrap(err)
			}
			prog, err := lang.Parse(string(source))
			if err != nil {
				return err
			}
			cmd.Printf("ok: %d function(s), %d workflow(s)\n", len(prog.Functions), len(prog.Workflows))
			return nil
		},
	}
	return cmd
}
