package cmd

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/davebream/lint-mcp/internal/config"
	"github.com/spf13/cobra"
)

var (
	registerName    string
	registerCommand string
)

var registerCmd = &cobra.Command{
	Use:   "register <client>",
	Short: "Add the lint-mcp launcher to an MCP client config",
	Long: `Adds (or replaces) an mcpServers entry that runs the lint-mcp launcher
with no arguments. Other entries and settings in the client config are
preserved.

Clients: ` + strings.Join(clientIDs(), ", "),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, ok := config.FindClient(config.KnownClients(), args[0])
		if !ok {
			return fmt.Errorf("unknown client %q (expected one of: %s)", args[0], strings.Join(clientIDs(), ", "))
		}

		command := registerCommand
		if command == "" {
			dir, err := config.InstallDir()
			if err != nil {
				return err
			}
			command = launcherCommand(dir)
		}

		if err := config.RegisterServer(client.Path, registerName, command); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered %q in %s (%s)\n", registerName, client.Name, client.Path)
		return nil
	},
}

// launcherCommand is the launcher executable inside installDir.
func launcherCommand(installDir string) string {
	name := "lint-mcp"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(installDir, name)
}

func clientIDs() []string {
	var ids []string
	for _, c := range config.KnownClientsIn("") {
		ids = append(ids, c.ID)
	}
	return ids
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "lint-mcp", "Server name in the client config")
	registerCmd.Flags().StringVar(&registerCommand, "command", "", "Launcher command (default: lint-mcp in the installation directory)")
	ctlCmd.AddCommand(registerCmd)
}
