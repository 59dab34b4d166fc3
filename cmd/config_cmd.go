package cmd

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/davebream/lint-mcp/internal/config"
	"github.com/spf13/cobra"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage lint-mcp.toml",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default lint-mcp.toml into the installation directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.InstallDir()
		if err != nil {
			return err
		}
		path := config.ConfigFilePath(dir)
		if fileExists(path) && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, err := loadInstallation()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", inst.cfgPath)
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(inst.cfg)
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configShowCmd)
	ctlCmd.AddCommand(configCmd)
}
