package cmd

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X github.com/ssargent/garage/cmd/garage/cmd.Version=..."
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the garage version",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("garage %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
