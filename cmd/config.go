package cmd

import (
	"fmt"
	"os"

	"github.com/samsaffron/mdast/internal/config"
	"github.com/spf13/cobra"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage mdast configuration",
	Long: `View or create your mdast configuration.

Environment variables override file values: MDAST_PARSER_GFM,
MDAST_PARSER_MATH, MDAST_OUTPUT_PRETTY, MDAST_OUTPUT_INDENT,
MDAST_CACHE_ENABLED, MDAST_CACHE_MAX_ENTRIES, MDAST_CACHE_PATH.

Examples:
  mdast config                     # show effective config
  mdast config path                # print config file location
  mdast config init                # write defaults`,
	RunE: configShow, // Default to show
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print configuration file path",
	RunE:  configPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default values",
	RunE:  configInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing config file")
}

func effectiveConfigPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	return config.GetConfigPath()
}

func configShow(cmd *cobra.Command, args []string) error {
	configPath, err := effectiveConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		fmt.Fprintf(out, "# No config file (using defaults)\n")
		fmt.Fprintf(out, "# Create one at: %s\n\n", configPath)
	} else {
		fmt.Fprintf(out, "# %s\n\n", configPath)
	}

	content, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(content)
	return err
}

func configPath(cmd *cobra.Command, args []string) error {
	configPath, err := effectiveConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), configPath)
	return nil
}

func configInit(cmd *cobra.Command, args []string) error {
	configPath, err := effectiveConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	if _, err := os.Stat(configPath); err == nil && !configInitForce {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}
	if err := config.Save(config.Default(), configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", configPath)
	return nil
}
