package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/davebream/lint-mcp/internal/logging"
	"github.com/spf13/cobra"
)

var ctlCmd = &cobra.Command{
	Use:   "lint-mcpctl",
	Short: "Inspect and configure a lint-mcp installation",
	Long: `lint-mcpctl checks where the lint-mcp launcher looks for its server binary,
manages the optional lint-mcp.toml next to it and registers the launcher
with MCP clients.

Set LINT_MCP_INSTALL_DIR to inspect an installation other than the one
this binary lives in.`,
	SilenceUsage: true,
}

// ExecuteCtl runs the lint-mcpctl command tree.
func ExecuteCtl() {
	if err := ctlCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ctlLogger logs to the command's stderr, and to the launcher log file when
// one is configured.
func ctlLogger(cmd *cobra.Command, inst *installation) (*slog.Logger, func()) {
	opts := logging.Options{
		Level:  inst.cfg.LogLevel(),
		Format: inst.cfg.Log.Format,
		File:   inst.logFile(),
		Stderr: cmd.ErrOrStderr(),
	}
	logger, cleanup, err := logging.Setup(opts)
	if err != nil {
		opts.File = ""
		logger, cleanup, _ = logging.Setup(opts)
	}
	return logger, cleanup
}
