package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wspanel/internal/config"
)

var configOpts struct {
	defaults bool
	path     bool
	write    bool
	force    bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration wspanel runs with, as TOML.

With --default the built-in defaults are printed instead. --write saves the
defaults to the config path so they can be edited.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&configOpts.defaults, "default", false,
		"Print the built-in defaults")
	configCmd.Flags().BoolVar(&configOpts.path, "path", false,
		"Print the config file path")
	configCmd.Flags().BoolVar(&configOpts.write, "write", false,
		"Write the defaults to the config file")
	configCmd.Flags().BoolVar(&configOpts.force, "force", false,
		"Overwrite an existing config file with --write")
}

func configFilePath() string {
	if globalOpts.configPath != "" {
		return globalOpts.configPath
	}
	return config.ConfigPath()
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	switch {
	case configOpts.path:
		_, err := fmt.Fprintln(out, configFilePath())
		return err

	case configOpts.write:
		path := configFilePath()
		if _, err := os.Stat(path); err == nil && !configOpts.force {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check config file: %w", err)
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		logger.Info("wrote default config", "path", path)
		return nil
	}

	c := cfg
	if configOpts.defaults {
		c = config.DefaultConfig()
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
