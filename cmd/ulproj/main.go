package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/ulproj/ul-projector/internal/calculation"
	"github.com/ulproj/ul-projector/internal/config"
	"github.com/ulproj/ul-projector/internal/domain"
	"github.com/ulproj/ul-projector/internal/output"
	"github.com/ulproj/ul-projector/internal/telemetry"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const serviceName = "ulproj"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ulproj %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(out, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.Main.Version
	}
	return ""
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ulproj",
		Short: "Universal-life scenario projection CLI",
		Long: "Projects a universal-life policy year by year across the interest, risk and " +
			"premium-term scenarios and reports account values, charges, bonuses and lapse.",
		SilenceUsage: true,
	}
	root.AddCommand(calculateCmd(), validateCmd(), serveCmd(), ratesCmd(), versionCmd())
	return root
}

func calculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [policy-file]",
		Short: "Project a policy across all scenarios",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			shutdown, err := telemetry.Setup(ctx, serviceName)
			if err != nil {
				return err
			}
			defer shutdown(context.Background())

			book, err := loadRateBook(ctx, cmd)
			if err != nil {
				return err
			}
			policy, err := config.NewInputParser(book).LoadFromFile(args[0])
			if err != nil {
				return err
			}

			engine := calculation.NewProjectionEngine(book)
			if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
				engine.SetLogger(simpleCLILogger{})
			}

			var keys []domain.ScenarioKey
			if s, _ := cmd.Flags().GetString("scenario"); s != "" {
				key, err := domain.ParseScenarioKey(s)
				if err != nil {
					return err
				}
				keys = append(keys, key)
			}
			results, err := engine.ProjectPolicy(ctx, policy, keys...)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			dest, _ := cmd.Flags().GetString("output")
			return writeResults(cmd, results, format, dest)
		},
	}
	cmd.Flags().StringP("format", "f", "console", "Output format: console, console-verbose, csv, detailed-csv, json (or all with a directory --output)")
	cmd.Flags().StringP("output", "o", "", "Write to this file, or to a timestamped report in this directory")
	cmd.Flags().String("scenario", "", "Project a single scenario, e.g. High/Standard/PolicyTerm")
	cmd.Flags().Bool("debug", false, "Log engine progress to stderr")
	addRateFlags(cmd)
	return cmd
}

// writeResults prints to stdout, writes a single file, or writes timestamped
// reports when dest is an existing directory.
func writeResults(cmd *cobra.Command, results *domain.ProjectionResult, format, dest string) error {
	if dest != "" {
		if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
			files, err := output.GenerateReport(results, format, dest)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", f)
			}
			return nil
		}
	}

	data, err := output.Render(results, format)
	if err != nil {
		return err
	}
	if dest == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", dest)
	return nil
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [policy-file]",
		Short: "Validate a policy file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			book, err := loadRateBook(ctx, cmd)
			if err != nil {
				return err
			}
			if _, err := config.NewInputParser(book).LoadFromFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Policy file %s is valid\n", args[0])
			return nil
		},
	}
	addRateFlags(cmd)
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
