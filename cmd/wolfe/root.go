// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/curioloop/wolfe/functions"
	"github.com/curioloop/wolfe/linesearch"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("WOLFE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "wolfe",
		Short:         "Run strong Wolfe line searches on scalar test problems",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "YAML configuration file")
	flags.String("method", linesearch.NocedalWright.String(), "line search method: nocedal-wright or more-thuente")
	flags.Float64("c1", 1e-4, "sufficient decrease factor")
	flags.Float64("c2", 0.9, "curvature factor")
	flags.Float64("amax", 0, "maximum step length, 0 for unbounded")
	flags.Int("maxiter", 0, "iteration limit, 0 for the method default")
	flags.Float64("alpha1", 0, "initial trial step, 0 for the problem default")
	flags.String("log-level", "warning", "logging level")
	flags.Bool("log-pretty", false, "human readable log output")

	for key, name := range map[string]string{
		"config":      "config",
		"method":      "method",
		"c1":          "c1",
		"c2":          "c2",
		"amax":        "amax",
		"maxiter":     "maxiter",
		"alpha1_init": "alpha1",
		"log.level":   "log-level",
		"log.pretty":  "log-pretty",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("wolfe: bind flag %q: %v", name, err))
		}
	}

	root.AddCommand(newRunCmd(v), newListCmd())
	return root
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available problems",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range functions.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func newRunCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "run [problem...]",
		Short: "Run the configured line search on the given problems, all of them by default",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			names := args
			if len(names) == 0 {
				names = cfg.Problems
			}
			if len(names) == 0 {
				names = functions.Names()
			}
			problems := make([]functions.Problem, len(names))
			for i, name := range names {
				if problems[i], err = functions.Lookup(name); err != nil {
					return err
				}
			}

			results, err := runAll(cmd.Context(), &cfg, problems)
			if err != nil {
				return err
			}
			renderResults(cmd, problems, results)
			return nil
		},
	}
}

// runAll searches every problem concurrently and returns the results in input order.
func runAll(ctx context.Context, cfg *Config, problems []functions.Problem) ([]linesearch.Result, error) {
	logger := setupLogging(cfg.Log, os.Stderr)
	results := make([]linesearch.Result, len(problems))

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range problems {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sub := logger.With().Str("problem", p.Name).Logger()
			searcher, opts, err := cfg.searcher(&sub)
			if err != nil {
				return err
			}
			if opts.Alpha1Init == 0 {
				opts.Alpha1Init = p.Alpha1
			}
			results[i] = searcher.Search(p.Phi, p.Derphi, &opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func renderResults(cmd *cobra.Command, problems []functions.Problem, results []linesearch.Result) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"problem", "alpha", "phi", "derphi", "status", "evals", "grads"})
	for i, r := range results {
		table.Append([]string{
			problems[i].Name,
			formatFloat(r.Alpha),
			formatFloat(r.Phi),
			formatFloat(r.Derphi),
			r.Status.String(),
			strconv.Itoa(r.NumEval),
			strconv.Itoa(r.NumGrad),
		})
	}
	table.Render()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 8, 64)
}
