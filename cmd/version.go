package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "lint-mcp launcher %s (commit: %s, %s/%s, %s)\n",
			version, commit, runtime.GOOS, runtime.GOARCH, runtime.Version())
	},
}

func init() {
	ctlCmd.AddCommand(versionCmd)
}
