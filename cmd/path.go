package cmd

import (
	"fmt"
	"runtime"

	"github.com/davebream/lint-mcp/launcher"
	"github.com/spf13/cobra"
)

var (
	pathGOOS   string
	pathGOARCH string
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the server binary path the launcher resolves",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, err := loadInstallation()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), launcher.ResolveBinaryPath(inst.dir, pathGOOS, pathGOARCH, inst.cfg.Layout()))
		return nil
	},
}

func init() {
	pathCmd.Flags().StringVar(&pathGOOS, "os", runtime.GOOS, "Operating system to resolve for")
	pathCmd.Flags().StringVar(&pathGOARCH, "arch", runtime.GOARCH, "CPU architecture to resolve for")
	ctlCmd.AddCommand(pathCmd)
}
