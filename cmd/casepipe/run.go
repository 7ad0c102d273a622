// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/casepipe/internal/config"
	"github.com/holomush/casepipe/internal/logging"
	"github.com/holomush/casepipe/internal/record"
	"github.com/holomush/casepipe/internal/vm"
	"github.com/holomush/casepipe/pkg/errutil"
)

// cliCase mirrors record.Case for the CLI's JSON case file format.
type cliCase struct {
	ID       int64   `json:"id"`
	Category string  `json:"category"`
	Status   string  `json:"status"`
	Priority int64   `json:"priority"`
	Customer *string `json:"customer,omitempty"`
	Score    int64   `json:"score"`
}

func (c cliCase) toRecord() record.Case {
	return record.Case{
		ID:       c.ID,
		Category: c.Category,
		Status:   c.Status,
		Priority: c.Priority,
		Customer: c.Customer,
		Score:    c.Score,
	}
}

func fromRecord(c record.Case) cliCase {
	return cliCase{
		ID:       c.ID,
		Category: c.Category,
		Status:   c.Status,
		Priority: c.Priority,
		Customer: c.Customer,
		Score:    c.Score,
	}
}

func newRunCmd() *cobra.Command {
	var casesPath string
	var logFormat string

	cmd := &cobra.Command{
		Use:   "run <source.pipe>",
		Short: "Parse and execute a pipeline program against a set of cases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			if logFormat != "" {
				cfg.LogFormat = logFormat
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := logging.NewCLILoggerAt(cfg.LogFormat, level)

			source, err := os.ReadFile(args[0])
			if err != nil {
				return oops.Code("SOURCE_READ_FAILED").With("path", args[0]).Wrap(err)
			}

			cases, err := loadCases(casesPath)
			if err != nil {
				return err
			}

			machine := vm.New(logger)
			machine.AddCases(cases)

			prog, err := machine.Parse(string(source))
			if err != nil {
				errutil.LogError(logger, "failed to parse pipeline source", err)
				return err
			}

			ctx := context.Background()
			if err := machine.ExecuteProgram(ctx, prog); err != nil {
				errutil.LogError(logger, "workflow execution failed", err)
				return err
			}

			return writeCases(cmd, machine.Cases())
		},
	}

	cmd.Flags().StringVar(&casesPath, "cases", "", "JSON file of case records (array)")
	cmd.Flags().StringVar(&logFormat, "log-format", "", "log format: json or text (overrides config)")
	cmd.Flags().Bool("verbose", false, "log at debug level instead of info")

	return cmd
}

func loadCases(path string) ([]record.Case, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Code("CASES_READ_FAILED").With("path", path).Wrap(err)
	}
	var raw []cliCase
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, oops.Code("CASES_PARSE_FAILED").With("path", path).Wrap(err)
	}
	cases := make([]record.Case, 0, len(raw))
	for _, c := range raw {
		cases = append(cases, c.toRecord())
	}
	return cases, nil
}

func writeCases(cmd *cobra.Command, cases []record.Case) error {
	out := make([]cliCase, 0, len(cases))
	for _, c := range cases {
		out = append(out, fromRecord(c))
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return oops.Code("CASES_WRITE_FAILED").Wrap(err)
	}
	return nil
}
