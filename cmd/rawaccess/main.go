// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command rawaccess generates companion packages of free functions for
// the types marked with //rawaccess:generate.
package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rawaccess",
		Short:         "Generate free-function accessors for Go types",
		Long:          "rawaccess writes, for every marked type, a companion package with Get<Type> factories, Get<Member> readers and With<Member> updaters.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	flags := rootCmd.PersistentFlags()
	flags.String("dir", ".", "Directory inside the module to generate for")
	flags.String("output", "rawaccess", "Module-relative directory holding the companion packages")
	flags.String("suffix", "RawAccess", "Suffix of companion package names")
	flags.StringSlice("skip", nil, "Directories the marker scan skips")
	flags.StringSlice("build-flags", nil, "Flags passed to the go tool")
	flags.Int("concurrency", 0, "Worker count (0 = number of CPUs)")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")

	for _, name := range []string{"dir", "output", "suffix", "skip", "build-flags", "concurrency", "log-level"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	// Env vars: RAWACCESS_OUTPUT, RAWACCESS_LOG_LEVEL, etc.
	viper.SetEnvPrefix("RAWACCESS")
	viper.SetEnvKeyReplacer(envReplacer)
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".rawaccess")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig() // Optional.

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newUndoCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// newLogger builds the CLI logger. Unknown levels fall back to warn.
func newLogger(level string) (*zap.SugaredLogger, error) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		zapLevel = zapcore.WarnLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.Encoding = "console"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, errors.Wrap(err, "creating logger")
	}
	return logger.Sugar(), nil
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print rawaccess version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rawaccess %s\n", version)
		},
	}
}
