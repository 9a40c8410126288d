package main

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/aretw0/herd/pkg/adapters/fs"
	"github.com/aretw0/herd/pkg/core"
)

var (
	reconcileFormat string
	reconcileOutput string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile [dir]",
	Short: "Load every data file and print the reconciled items",
	Long: `Load every data file under dir (default: the working directory) in path order
and print the reconciled items. With --output the result replaces the given
file atomically instead of going to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openSource(cmd, args)
		if err != nil {
			return err
		}
		items := src.Collection().Values()
		if items == nil {
			items = []core.Record{}
		}
		if reconcileOutput == "" {
			return encode(cmd.OutOrStdout(), reconcileFormat, items)
		}

		var buf bytes.Buffer
		if err := encode(&buf, reconcileFormat, items); err != nil {
			return err
		}
		return fs.WriteFileAtomic(reconcileOutput, buf.Bytes(), 0644)
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().StringVarP(&reconcileFormat, "format", "f", "json", "Output format: json or yaml")
	reconcileCmd.Flags().StringVarP(&reconcileOutput, "output", "o", "", "Write the result to this file instead of stdout")
}
