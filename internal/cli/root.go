// Package cli implements the sequelocity command line interface with cobra.
// Connection strings are resolved from the environment and optional .env files, see package config.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/sequelocity-go/internal/telemetry"
	"github.com/AntonStoeckl/sequelocity-go/sequelocity"
	"github.com/AntonStoeckl/sequelocity-go/sequelocity/config"
	"github.com/AntonStoeckl/sequelocity-go/sequelocity/providers"
)

type rootFlags struct {
	connection string
	provider   string
	envFiles   []string
	prefix     string
	asJSON     bool
	verbose    bool
	noColor    bool
	timeout    time.Duration
	otlp       string
}

const (
	serviceName     = "sequelocity"
	shutdownTimeout = 5 * time.Second
)

// Version is set at build time with -ldflags "-X github.com/AntonStoeckl/sequelocity-go/internal/cli.Version=...".
var Version = "dev"

// NewRootCommand creates the sequelocity command tree.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "sequelocity",
		Short: "Run SQL against named connection strings",
		Long: `sequelocity runs SQL against connection strings configured in the environment:

  SEQUELOCITY_CONNECTION_<NAME>=<connection string>
  SEQUELOCITY_PROVIDER_<NAME>=<provider>
  SEQUELOCITY_DEFAULT_PROVIDER=<provider>

Supported providers: mysql, sqlserver, postgres, pgx, sqlite.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if flags.noColor {
				pterm.DisableStyling()
			}
		},
	}

	persistent := rootCmd.PersistentFlags()
	persistent.StringVarP(&flags.connection, "connection", "c", "", "connection string name, or a literal connection string")
	persistent.StringVarP(&flags.provider, "provider", "p", "", "provider, overrides the provider configured for the connection")
	persistent.StringSliceVar(&flags.envFiles, "env-file", []string{".env"}, "optional .env files to load")
	persistent.StringVar(&flags.prefix, "prefix", config.DefaultPrefix, "environment variable prefix")
	persistent.BoolVar(&flags.asJSON, "json", false, "print results as JSON")
	persistent.BoolVarP(&flags.verbose, "verbose", "v", false, "log executed SQL to stderr")
	persistent.BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	persistent.DurationVar(&flags.timeout, "timeout", 0, "command timeout, e.g. 30s")
	persistent.StringVar(&flags.otlp, "otlp-endpoint", "", "export traces and metrics to this OTLP gRPC endpoint, e.g. localhost:4317")
	_ = rootCmd.MarkPersistentFlagRequired("connection")

	rootCmd.AddCommand(
		newScalarCommand(flags),
		newQueryCommand(flags),
		newExecCommand(flags),
	)

	return rootCmd
}

// newDatabaseCommand loads the configuration and builds a command carrying the SQL text from args.
// The returned release func flushes telemetry and must be called once the command was executed.
func newDatabaseCommand(
	cmd *cobra.Command,
	flags *rootFlags,
	args []string,
) (*sequelocity.DatabaseCommand, func(), error) {

	release := func() {}

	settings, err := config.Load(flags.prefix, flags.envFiles...)
	if err != nil {
		return nil, release, err
	}

	options := append(settings.Options(), providers.WithAll())
	if flags.verbose {
		options = append(options, sequelocity.WithLogger(newLogger(cmd.ErrOrStderr())))
	}

	var telemetryProviders *telemetry.Providers
	if flags.otlp != "" {
		telemetryProviders, err = telemetry.NewProviders(cmd.Context(), flags.otlp, serviceName, Version)
		if err != nil {
			return nil, release, err
		}

		options = append(options, telemetryProviders.MetricsOption())
		release = func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if shutdownErr := telemetryProviders.Shutdown(ctx); shutdownErr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "failed to flush telemetry:", shutdownErr)
			}
		}
	}

	cfg, err := sequelocity.NewConfiguration(options...)
	if err != nil {
		return nil, release, err
	}

	if telemetryProviders != nil {
		telemetryProviders.Instrument(cfg)
	}

	command, err := cfg.GetDatabaseCommandForProvider(flags.connection, flags.provider)
	if err != nil {
		return nil, release, err
	}

	command.SetCommandText(strings.Join(args, " "))

	if flags.timeout > 0 {
		command.SetCommandTimeout(flags.timeout)
	}

	return command, release, nil
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
