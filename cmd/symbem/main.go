// Command symbem assembles boundary-element influence matrices for bodies
// described in YAML, exploiting their reflection, translation and rotation
// symmetries.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chazu/symbem/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// Global flags
	cfgPath string
	verbose bool

	// Assemble flags
	check       bool
	asJSON      bool
	concurrency int

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "symbem",
	Short: "Symmetry-aware boundary-element matrix assembly",
	Long: `symbem builds the influence matrices S and V of a floating body.

Bodies made of mirrored halves, repeated slices or rotated sectors are
assembled from a few kernel evaluations arranged into block Toeplitz and
block circulant matrices instead of one evaluation per pair of panels.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, err = cfg.Logging.NewLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var assembleCmd = &cobra.Command{
	Use:   "assemble [design.yaml]",
	Short: "Assemble the self-influence matrices of a body",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAssemble,
}

var describeCmd = &cobra.Command{
	Use:   "describe [design.yaml]",
	Short: "Print the symmetry tree of a body",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDescribe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "symbem %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "symbem.yaml", "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	assembleCmd.Flags().BoolVar(&check, "check", false, "Compare against brute-force assembly")
	assembleCmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	assembleCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Sibling blocks evaluated in parallel (overrides config)")

	rootCmd.AddCommand(assembleCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commandContext returns a context cancelled on SIGINT/SIGTERM and after the
// configured timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	if d := cfg.GetTimeout(); d > 0 {
		tctx, cancel := context.WithTimeout(ctx, d)
		return tctx, func() { cancel(); stop() }
	}
	return ctx, stop
}

func bodyPath(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func runAssemble(cmd *cobra.Command, args []string) error {
	if concurrency > 0 {
		cfg.Assembly.Concurrency = concurrency
	}
	if cmd.Flags().Changed("check") {
		cfg.Assembly.Check = check
	}

	node, err := LoadBody(cfg, bodyPath(args))
	if err != nil {
		return err
	}
	app, err := NewApp(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	report, err := app.Assemble(ctx, node, cfg.Assembly.Check)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else if err := report.WriteText(out); err != nil {
		return err
	}

	if report.Check != nil && !report.Check.OK {
		return fmt.Errorf("structured assembly differs from brute force (max |dS|=%g, max |dV|=%g)",
			report.Check.MaxAbsDiffS, report.Check.MaxAbsDiffV)
	}
	return nil
}

func runDescribe(cmd *cobra.Command, args []string) error {
	node, err := LoadBody(cfg, bodyPath(args))
	if err != nil {
		return err
	}
	app, err := NewApp(cfg, logger)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()
	return app.Describe(ctx, cmd.OutOrStdout(), node)
}
