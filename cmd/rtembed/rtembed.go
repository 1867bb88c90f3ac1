package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"peertech.de/rtembed/pkg/check"
	"peertech.de/rtembed/pkg/config"
	"peertech.de/rtembed/pkg/load"
	"peertech.de/rtembed/pkg/loader"
	manifestyaml "peertech.de/rtembed/pkg/manifest/yaml"
	"peertech.de/rtembed/pkg/report"
	"peertech.de/rtembed/pkg/resolve"
	"peertech.de/rtembed/pkg/script"
)

var configFile string
var logLevel string
var concurrency int

func main() {
	rootCmd := &cobra.Command{
		Use:           "rtembed",
		Short:         "Inspect and verify files loaded at run time",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Path to optional YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level (trace, debug, info, warn, error); defaults to $"+config.LogLevelEnvVar+" or warn")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0,
		"Maximum number of assets to load concurrently (default: 1)")

	rootCmd.AddCommand(cmdResolve())
	rootCmd.AddCommand(cmdCat())
	rootCmd.AddCommand(cmdCheck())
	rootCmd.AddCommand(cmdRun())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", prettifyError(err))
		os.Exit(1)
	}
}

func cmdResolve() *cobra.Command {
	var base string

	cmd := &cobra.Command{
		Use:   "resolve REL",
		Short: "Print the path a relative name resolves to",
		Long: `Resolve joins REL onto the directory of the source file given by --base,
exactly as a load call placed in that file would.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolve.Resolve(base, args[0])
			if err != nil {
				return fmt.Errorf("failed to resolve %q: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "",
		"Path of the source file the name is relative to (required)")
	cmd.MarkFlagRequired("base")

	return cmd
}

func cmdCat() *cobra.Command {
	var (
		base string
		text bool
	)

	cmd := &cobra.Command{
		Use:   "cat REL",
		Short: "Load a file relative to a source file and write it to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := setup(); err != nil {
				return err
			}

			if text {
				s, err := load.TextFrom(base, args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), s)
				return err
			}

			data, err := load.BytesFrom(base, args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&base, "base", "",
		"Path of the source file the name is relative to (required)")
	cmd.Flags().BoolVar(&text, "text", false,
		"Validate the content as UTF-8")
	cmd.MarkFlagRequired("base")

	return cmd
}

func cmdCheck() *cobra.Command {
	var (
		manifestFile string
		plain        bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify that every asset of a manifest can be loaded",
		Long: `Check loads every asset listed in a YAML manifest, resolving each path
against the manifest file, and reports the assets that are missing or not valid UTF-8.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cfg, err := setup()
			if err != nil {
				return err
			}

			l := &manifestyaml.Loader{}
			assets, err := l.Load(ctx, manifestFile)
			if err != nil {
				return err
			}

			var reporter report.Reporter = report.EmojiReporter{Out: cmd.OutOrStdout()}
			if plain {
				reporter = report.PlainReporter{Out: cmd.OutOrStdout()}
			}

			summary := check.New(
				check.WithReporter(reporter),
				check.WithConcurrency(cfg.Concurrency),
			).Run(ctx, assets)

			if summary.SkippedCount > 0 {
				reporter.Warn(fmt.Sprintf("%d assets skipped: %v", summary.SkippedCount, ctx.Err()))
			}
			if summary.FailedCount > 0 {
				reporter.Error(fmt.Sprintf("%d of %d assets failed to load",
					summary.FailedCount, summary.TotalCount))
			}
			reporter.Info(fmt.Sprintf("%d of %d assets loaded (%d bytes)",
				summary.LoadedCount, summary.TotalCount, summary.LoadedBytes))

			return summary.Error
		},
	}

	cmd.Flags().StringVar(&manifestFile, "manifest", "",
		"Path to YAML manifest file listing the assets (required)")
	cmd.Flags().BoolVar(&plain, "plain", false,
		"Report without emoji")
	cmd.MarkFlagRequired("manifest")

	return cmd
}

func cmdRun() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run SCRIPT",
		Short: "Execute a Starlark script with the load_bytes and load_text builtins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if _, err := setup(); err != nil {
				return err
			}

			r := script.NewRuntime(nil,
				script.WithStdout(cmd.OutOrStdout()),
				script.WithLoader(loader.Default),
			)
			if _, err := r.Load(ctx, args[0]); err != nil {
				return fmt.Errorf("starlark execution error: %w", err)
			}
			return nil
		},
	}

	return cmd
}

// setup loads the configuration, applies flag overrides and installs the logger used by
// the load packages.
func setup() (*config.Config, error) {
	cfg, err := config.Load(afero.NewOsFs(), configFile)
	if err != nil {
		return nil, err
	}

	// Overrides file config
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if concurrency > 0 {
		cfg.Concurrency = concurrency
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return nil, err
	}

	setLogger(logger)
	return cfg, nil
}

func setLogger(logger zerolog.Logger) {
	loader.Default = loader.New(loader.WithLogger(logger))
	load.SetLoader(loader.Default)
	load.SetLogger(logger)
}

func prettifyError(err error) string {
	// Traverse wrapped errors and build a list
	type unwrapper interface {
		Unwrap() error
	}

	var parts []string
	current := err
	for current != nil {
		parts = append(parts, current.Error())

		if u, ok := current.(unwrapper); ok {
			current = u.Unwrap()
		} else {
			break
		}
	}

	// Return the top-level message + root cause
	if len(parts) == 1 {
		return parts[0]
	}

	return fmt.Sprintf("%s\n- %s", parts[0], parts[len(parts)-1])
}
