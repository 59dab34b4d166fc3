package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/davebream/lint-mcp/internal/config"
	"github.com/davebream/lint-mcp/internal/logging"
	"github.com/davebream/lint-mcp/launcher"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "lint-mcp",
	Short: "Start the lint-mcp MCP server over stdio",
	Long: `lint-mcp starts the bundled lint-mcp server binary for this platform,
connects it to the current stdin/stdout/stderr, forwards interrupt and
termination signals to it and exits with the server's exit status.

It takes no arguments. Diagnostics are available through lint-mcpctl.`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE:               runLauncher,
}

// Execute runs the launcher and exits with a status mirroring the server's.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		reportLaunchError(os.Stderr, err)
	}
	os.Exit(launcher.ExitCode(err))
}

func runLauncher(cmd *cobra.Command, args []string) error {
	inst, err := loadInstallation()
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	logger, cleanup, err := logging.Setup(logging.Options{
		Level:  inst.cfg.LogLevel(),
		Format: inst.cfg.Log.Format,
		File:   inst.logFile(),
		Stderr: stderr,
	})
	if err != nil {
		// Non-fatal: keep stderr-only diagnostics
		fmt.Fprintf(stderr, "lint-mcp: cannot set up file logging: %v\n", err)
		logger, cleanup, _ = logging.Setup(logging.Options{
			Level:  inst.cfg.LogLevel(),
			Format: inst.cfg.Log.Format,
			Stderr: stderr,
		})
	}
	defer cleanup()

	binaryPath := inst.binaryPath()
	logger = logging.LaunchLogger(logger, binaryPath)
	if len(args) > 0 {
		logger.Debug("ignoring command-line arguments", "count", len(args))
	}
	if isTerminal(cmd.InOrStdin()) {
		logger.Warn("stdin is a terminal; lint-mcp expects an MCP client on stdio")
	}

	l := launcher.New(binaryPath, logger)
	l.Stdin = cmd.InOrStdin()
	l.Stdout = cmd.OutOrStdout()
	l.Stderr = stderr

	err = l.Run(cmd.Context())
	var exitErr *launcher.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// Reported on stderr by Execute; recorded here for the log file.
		logger.Info("launch failed", "error", err)
	}
	return err
}

func reportLaunchError(w io.Writer, err error) {
	fmt.Fprintf(w, "lint-mcp: %v\n", err)
	var notFound *launcher.NotFoundError
	if errors.As(err, &notFound) {
		fmt.Fprintln(w, "lint-mcp: build the lint-mcp server binary and install it at that path.")
		fmt.Fprintln(w, "lint-mcp: run `lint-mcpctl doctor` to check the installation.")
	}
}

// isTerminal reports whether stream is a file attached to a terminal.
func isTerminal(stream any) bool {
	f, ok := stream.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// installation is the resolved state shared by the launcher and lint-mcpctl.
type installation struct {
	dir     string
	cfgPath string
	cfg     *config.Config
}

func loadInstallation() (*installation, error) {
	dir, err := config.InstallDir()
	if err != nil {
		return nil, err
	}
	cfgPath := config.ConfigFilePath(dir)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	return &installation{dir: dir, cfgPath: cfgPath, cfg: cfg}, nil
}

func (i *installation) binaryPath() string {
	return config.BinaryPath(i.cfg, i.dir)
}

// logFile returns "" when file logging is off.
func (i *installation) logFile() string {
	dir := config.LogDir(i.cfg, i.dir)
	if dir == "" {
		return ""
	}
	return config.LogFilePath(dir)
}
