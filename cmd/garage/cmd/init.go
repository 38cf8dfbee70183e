/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/garage/pkg/config"
)

// initCmd writes a default configuration file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write the default garage configuration to the path given by --config,
or to the platform default location.

Examples:
	  garage init
	  garage init --config ./garage.yaml --force`,
	Args: cobra.NoArgs,
	// The config file may not exist yet, so skip loading it.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		force, _ := cmd.Flags().GetBool("force")

		path, created, err := initializeConfig(configPath, force)
		if err != nil {
			return err
		}

		if !created {
			cmd.Printf("Config already exists. Use --force to overwrite.\n")
			cmd.Printf("Config location: %s\n", path)
			return nil
		}

		cmd.Printf("Wrote default config to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}

// initializeConfig writes the default config to configPath, or the default
// location when configPath is empty. An existing file is kept unless force is set.
func initializeConfig(configPath string, force bool) (string, bool, error) {
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	if config.ConfigExists(configPath) && !force {
		return configPath, false, nil
	}

	if _, err := config.BootstrapConfig(configPath); err != nil {
		return configPath, false, err
	}
	return configPath, true, nil
}
