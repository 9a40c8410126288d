package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/herd/internal/platform"
)

var (
	verbose     bool
	idAttribute string
	pattern     string
	strict      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "herd",
	Short: "Reconcile data files into an identity-indexed collection",
	Long: `herd loads records from JSON, YAML, CSV and Markdown files and reconciles them
by identifier: records sharing an identifier update a single item instead of
creating duplicates.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(platform.NewLogger(verbose))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&idAttribute, "id-attr", "id", "Record key holding the identifier")
	rootCmd.PersistentFlags().StringVar(&pattern, "pattern", "", "Files to load, doublestar syntax (default all supported formats)")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Keep numbers as exact decimal strings")
}

// openSource loads the directory given in args (or the working directory).
func openSource(cmd *cobra.Command, args []string) (*platform.Source, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	src, err := platform.NewSource(dir,
		platform.WithIDAttribute(idAttribute),
		platform.WithPattern(pattern),
		platform.WithStrict(strict),
		platform.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, err
	}
	if err := src.Load(cmd.Context()); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", src.Root(), err)
	}
	return src, nil
}
