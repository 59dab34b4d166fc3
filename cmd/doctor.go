package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/davebream/lint-mcp/internal/config"
	"github.com/davebream/lint-mcp/launcher"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the lint-mcp installation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		allOK := true

		// 1. Config file
		dir, err := config.InstallDir()
		if err != nil {
			return err
		}
		cfgPath := config.ConfigFilePath(dir)
		cfg, err := config.Load(cfgPath)
		switch {
		case err != nil:
			fmt.Fprintf(out, "Config:  FAIL (%v)\n", err)
			allOK = false
			cfg = config.DefaultConfig()
		case fileExists(cfgPath):
			fmt.Fprintf(out, "Config:  OK (%s)\n", cfgPath)
		default:
			fmt.Fprintf(out, "Config:  OK (defaults, no %s)\n", config.ConfigFileName)
		}

		// 2. Server binary
		inst := &installation{dir: dir, cfgPath: cfgPath, cfg: cfg}
		binaryPath := inst.binaryPath()
		info, err := os.Stat(binaryPath)
		switch {
		case err != nil:
			fmt.Fprintf(out, "Binary:  FAIL (not found at %s)\n", binaryPath)
			allOK = false
		case !info.Mode().IsRegular():
			fmt.Fprintf(out, "Binary:  FAIL (%s is not a regular file)\n", binaryPath)
			allOK = false
		default:
			if err := launcher.CheckExecutable(binaryPath); err != nil {
				fmt.Fprintf(out, "Binary:  FAIL (%v)\n", err)
				allOK = false
			} else {
				fmt.Fprintf(out, "Binary:  OK (%s, %d bytes)\n", binaryPath, info.Size())
			}
		}

		// 3. Launcher log file
		if logFile := inst.logFile(); logFile == "" {
			fmt.Fprintln(out, "Logs:    OK (file logging off)")
		} else if fileExists(logFile) {
			fmt.Fprintf(out, "Logs:    OK (%s)\n", logFile)
		} else {
			fmt.Fprintf(out, "Logs:    WARN (%s not written yet)\n", logFile)
		}

		// 4. MCP client registrations
		launcherName := filepath.Base(launcherCommand(dir))
		for _, client := range config.DetectClients() {
			if names := client.Registrations(launcherName); len(names) > 0 {
				fmt.Fprintf(out, "Client %s: OK (registered as %v)\n", client.Name, names)
			} else {
				fmt.Fprintf(out, "Client %s: WARN (lint-mcp not registered, see `lint-mcpctl register`)\n", client.Name)
			}
		}

		if !allOK {
			return fmt.Errorf("some checks failed")
		}
		return nil
	},
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func init() {
	ctlCmd.AddCommand(doctorCmd)
}
