package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	getDir    string
	getFormat string
)

var getCmd = &cobra.Command{
	Use:   "get [id...]",
	Short: "Print the items with the given identifiers",
	Long: `Reconcile the data files and print the items matching each identifier, in the
order requested. Unknown identifiers print as null.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openSource(cmd, []string{getDir})
		if err != nil {
			return err
		}

		ids := make([]any, len(args))
		for i, id := range args {
			ids[i] = id
		}
		items := src.Collection().GetMany(ids...)

		missing := 0
		for _, item := range items {
			if item == nil {
				missing++
			}
		}
		if err := encode(cmd.OutOrStdout(), getFormat, items); err != nil {
			return err
		}
		if missing == len(items) {
			return fmt.Errorf("no item found")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringVarP(&getDir, "dir", "d", ".", "Directory to load")
	getCmd.Flags().StringVarP(&getFormat, "format", "f", "json", "Output format: json or yaml")
}
