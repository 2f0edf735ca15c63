package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/watchface/internal/config"
)

var configOpts struct {
	write bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the effective configuration as TOML, after applying command-line
overrides.

With --write the configuration is saved to the config path, creating the
file and its directory if needed.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&configOpts.write, "write", false,
		"Save the effective configuration to the config path")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configOpts.write {
		path := globalOpts.configPath
		if path == "" {
			path = config.ConfigPath()
		}
		if err := cfg.Save(path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
