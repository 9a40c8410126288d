package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/herd"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of herd",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "herd version %s\n", strings.TrimSpace(herd.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
