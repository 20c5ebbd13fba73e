package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/securoserv/securovault/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		buildinfo.PrintBuildData(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
