// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/rawaccess/pkg/rawaccess"
)

var envReplacer = strings.NewReplacer("-", "_")

// newGenerateCmd creates the "generate" command.
func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [patterns...]",
		Short: "Write the companion packages",
		Long:  "Generate loads the packages matching the patterns (default: every package holding a marker) and writes one companion file per marked type.",
		RunE:  runGenerate,
	}

	cmd.Flags().Bool("prune", true, "Remove generated files no type produces any more")
	cmd.Flags().Bool("verify", false, "Build and vet the companion packages after writing")
	cmd.Flags().String("test-cmd", "", "Test command run after a clean verify (e.g., 'go test ./...')")
	cmd.Flags().Bool("commit", false, "Commit the written files")
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	for _, name := range []string{"prune", "verify", "test-cmd", "commit"} {
		_ = viper.BindPFlag(name, cmd.Flags().Lookup(name))
	}
	return cmd
}

// newCheckCmd creates the "check" command.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [patterns...]",
		Short: "Report companion files that are out of date",
		Long:  "Check renders every companion file and compares it with the file on disk. It prints a diff and exits with status 1 when anything would change.",
		RunE:  runCheck,
	}
}

// newUndoCmd creates the "undo" command.
func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last rawaccess commit",
		Long:  "Undo performs a soft reset of the last commit if rawaccess made it and the output tree has no uncommitted changes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := newGenerator(nil)
			if err != nil {
				return reportError(cmd, err)
			}
			if err := g.Undo(cmd.Context()); err != nil {
				return reportError(cmd, errors.Wrap(err, "undo failed"))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reverted last rawaccess commit.")
			return nil
		},
	}
}

// configFromViper maps flags, RAWACCESS_* env vars and .rawaccess.yaml onto
// the library config.
func configFromViper(patterns []string) rawaccess.Config {
	return rawaccess.Config{
		Dir:         viper.GetString("dir"),
		Patterns:    patterns,
		SkipDirs:    viper.GetStringSlice("skip"),
		BuildFlags:  viper.GetStringSlice("build-flags"),
		Concurrency: viper.GetInt("concurrency"),
		OutputRoot:  viper.GetString("output"),
		Suffix:      viper.GetString("suffix"),
		Prune:       viper.GetBool("prune"),
		Verify:      viper.GetBool("verify"),
		TestCmd:     viper.GetString("test-cmd"),
		Commit:      viper.GetBool("commit"),
	}
}

func newGenerator(patterns []string) (rawaccess.Generator, error) {
	cfg := configFromViper(patterns)
	logger, err := newLogger(viper.GetString("log-level"))
	if err != nil {
		return nil, err
	}
	cfg.Logger = logger

	g, err := rawaccess.New(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "initialization failed")
	}
	return g, nil
}

// runGenerate writes the companion packages.
func runGenerate(cmd *cobra.Command, args []string) error {
	g, err := newGenerator(args)
	if err != nil {
		return reportError(cmd, err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	result, err := g.Generate(ctx)
	asJSON, _ := cmd.Flags().GetBool("json")
	if result != nil {
		if asJSON {
			printJSON(cmd.OutOrStdout(), result)
		} else {
			printSummary(cmd.OutOrStdout(), result)
		}
	}
	if err != nil {
		return reportError(cmd, err)
	}
	return nil
}

// runCheck reports stale companion files.
func runCheck(cmd *cobra.Command, args []string) error {
	g, err := newGenerator(args)
	if err != nil {
		return reportError(cmd, err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	result, err := g.Check(ctx)
	if result != nil {
		printDiagnostics(cmd.ErrOrStderr(), result)
		fmt.Fprint(cmd.OutOrStdout(), result.Diff)
	}
	if err != nil {
		return reportError(cmd, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Companion files are up to date.")
	return nil
}

func reportError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	return err
}

// printSummary outputs one line per changed file followed by the
// diagnostics.
func printSummary(w io.Writer, result *rawaccess.Result) {
	for _, f := range result.Changed {
		fmt.Fprintf(w, "wrote   %s\n", f)
	}
	for _, f := range result.Pruned {
		fmt.Fprintf(w, "pruned  %s\n", f)
	}
	printDiagnostics(w, result)
	if result.Commit != "" {
		fmt.Fprintf(w, "commit  %s\n", result.Commit)
	}
}

func printDiagnostics(w io.Writer, result *rawaccess.Result) {
	for _, d := range result.Diagnostics {
		fmt.Fprintf(w, "skipped %s\n", d.String())
	}
}

// printJSON outputs the result as JSON.
func printJSON(w io.Writer, result *rawaccess.Result) {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling result: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(out))
}
