package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/garage/pkg/codec"
	"github.com/ssargent/garage/pkg/garage"
)

// showCmd builds a garage from flags without prompting
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Build a garage from flags and display it",
	Long: `Build a garage from --vehicle flags, display it and optionally remove
vehicles by zero-based index. Removals apply in order, each to the garage the
previous one produced.

Example:
  garage show --vehicle "sedan,10000,2020" --vehicle "truck,25000,2022" --remove 0`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		raw, _ := cmd.Flags().GetStringArray("vehicle")
		removals, _ := cmd.Flags().GetIntSlice("remove")

		vehicles := make([]codec.Vehicle, 0, len(raw))
		for _, s := range raw {
			v, err := parseVehicle(s)
			if err != nil {
				return err
			}
			vehicles = append(vehicles, v)
		}

		cfg := container.GetConfig()
		out := cmd.OutOrStdout()

		g, err := garage.Build(len(vehicles), garage.FromVehicles(vehicles...), container.GarageOptions()...)
		if err != nil {
			return fmt.Errorf("failed to build garage: %w", err)
		}
		defer func() {
			if releaseErr := g.Release(); releaseErr != nil {
				err = errors.Join(err, fmt.Errorf("failed to release garage: %w", releaseErr))
			}
		}()

		if err := outputGarage(out, g, cfg.Output.Format); err != nil {
			return err
		}

		for _, index := range removals {
			g, err = removeVehicle(out, g, index)
			if err != nil {
				return err
			}
			if err := outputGarage(out, g, cfg.Output.Format); err != nil {
				return err
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringArray("vehicle", nil, `Vehicle as "description,value,year" (repeatable)`)
	showCmd.Flags().IntSlice("remove", nil, "Zero-based index of a vehicle to remove (repeatable)")
}
