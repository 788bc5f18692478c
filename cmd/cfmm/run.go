// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"

	"github.com/ava-labs/cfmm/simulator"
	"github.com/ava-labs/cfmm/trace"
	"github.com/ava-labs/cfmm/utils"
)

var runCmd = &cobra.Command{
	Use:   "run [path...]",
	Short: "Run simulation plans against fresh in-memory pools",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plans := make([]*simulator.Plan, 0, len(args))
		for _, path := range args {
			plan, err := readPlan(cmd, path)
			if err != nil {
				return err
			}
			plans = append(plans, plan)
		}
		parallel, err := cmd.Flags().GetInt("parallel")
		if err != nil {
			return err
		}

		s := simulator.New(logging.NoLog{}, trace.Noop())
		results, runErr := s.RunAll(cmd.Context(), plans, parallel)
		for _, responses := range results {
			for _, resp := range responses {
				if err := resp.Print(cmd.OutOrStdout()); err != nil {
					return err
				}
			}
		}
		if runErr != nil {
			return runErr
		}
		utils.Outf("{{green}}%d plans passed{{/}}\n", len(plans))
		return nil
	},
}

// readPlan reads a plan from [path], or from stdin when [path] is "-".
func readPlan(cmd *cobra.Command, path string) (*simulator.Plan, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	plan, err := simulator.LoadPlan(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return plan, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int("parallel", 0, "Most plans to run at once, 0 for no limit")
}
