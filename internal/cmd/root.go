// Package cmd implements the s3report command line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	cliflag "github.com/tomasbasham/cli-runtime/flag"
	"github.com/tomasbasham/cli-runtime/iooption"
	"github.com/tomasbasham/cli-runtime/templates"

	"github.com/input-output-hk/catalyst-forge-libs/s3report"
)

var (
	rootLong = templates.LongDesc(`
		Publish report files to S3 or an S3-compatible object store.

		Objects are written with the public-read ACL. Files of 50 MiB or more
		are uploaded in sequential 20 MiB parts.`)

	rootExamples = templates.Examples(`
		# Upload a report under s3://reports/nightly/summary.json
		s3report put summary.json --dest s3://reports/nightly

		# Check a location string
		s3report locate s3://reports/nightly`)

	// Injected at build time using ldflags.
	version = ""
	commit  = ""
)

// RootOptions defines the options shared by every s3report command.
type RootOptions struct {
	LogLevel string
	EnvFile  string

	logger *slog.Logger

	// storageClient replaces the configured backend when set
	storageClient s3report.StorageClient

	iooption.IOStreams
}

// NewRootOptions provides an initialised RootOptions instance.
func NewRootOptions(streams iooption.IOStreams) *RootOptions {
	return &RootOptions{
		LogLevel:  "info",
		EnvFile:   ".env",
		IOStreams: streams,
	}
}

// NewRootCommand creates the `s3report` command with default arguments.
func NewRootCommand() *cobra.Command {
	options := NewRootOptions(iooption.IOStreams{
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	})

	return NewRootCommandWithArgs(options)
}

// NewRootCommandWithArgs creates the `s3report` command and its nested
// children.
func NewRootCommandWithArgs(o *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "s3report [command]",
		Version:               versionInfo(),
		DisableFlagsInUseLine: true,
		Short:                 "Publish reports to S3",
		Long:                  rootLong,
		Example:               rootExamples,
		SilenceErrors:         true,
		SilenceUsage:          true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.Complete()
		},
	}

	pflags := cmd.PersistentFlags()
	pflags.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level (debug, info, warn, error)")
	pflags.StringVar(&o.EnvFile, "env-file", o.EnvFile, "Optional file of environment defaults")

	cmd.AddCommand(NewPutCommand(NewPutOptions(o)))
	cmd.AddCommand(NewLocateCommand(NewLocateOptions(o.IOStreams)))

	cmd.SetGlobalNormalizationFunc(cliflag.WordSepNormalizeFunc())

	return cmd
}

// Complete loads environment defaults and builds the logger.
func (o *RootOptions) Complete() error {
	if o.EnvFile != "" {
		if _, err := os.Stat(o.EnvFile); err == nil {
			if err := godotenv.Load(o.EnvFile); err != nil {
				return fmt.Errorf("failed to load %s: %w", o.EnvFile, err)
			}
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", o.LogLevel, err)
	}

	o.logger = slog.New(slog.NewTextHandler(o.ErrOut, &slog.HandlerOptions{Level: level}))
	return nil
}

// Logger returns the configured logger, or a discarding one before Complete.
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.logger
}

func versionInfo() string {
	if version == "" {
		return ""
	}
	return fmt.Sprintf("%s (commit: %s)", version, commit)
}
