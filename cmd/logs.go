package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	logsFollow bool
	logsLines  int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show launcher logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, err := loadInstallation()
		if err != nil {
			return err
		}

		logFile := inst.logFile()
		if logFile == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "File logging is off; set [log] dir in %s\n", inst.cfgPath)
			return nil
		}
		if _, err := os.Stat(logFile); os.IsNotExist(err) {
			fmt.Fprintln(cmd.OutOrStdout(), "No log file found at", logFile)
			return nil
		}

		tailArgs := []string{"-n", strconv.Itoa(logsLines)}
		if logsFollow {
			tailArgs = append(tailArgs, "-f")
		}
		tailCmd := exec.CommandContext(cmd.Context(), "tail", append(tailArgs, logFile)...)
		tailCmd.Stdout = cmd.OutOrStdout()
		tailCmd.Stderr = cmd.ErrOrStderr()
		return tailCmd.Run()
	},
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "Number of lines to show")
	ctlCmd.AddCommand(logsCmd)
}
