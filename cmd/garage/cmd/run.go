package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssargent/garage/pkg/di"
	"github.com/ssargent/garage/pkg/garage"
)

// runCmd represents the interactive driver
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Interactively build, display and trim a garage",
	Long: `Prompt for a number of vehicles and the description, value and model
year of each, display the garage, remove one vehicle and display it again.

Values are stored in 21 bits (0 to 2,097,151) and model years in 11 bits
(0 to 2047); larger numbers wrap.

Example:
  garage run --remove-index 1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		removeIndex, _ := cmd.Flags().GetInt("remove-index")
		return runDriver(cmd.InOrStdin(), cmd.OutOrStdout(), container, removeIndex)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int("remove-index", 1, "Zero-based index of the vehicle to remove")
}

// runDriver builds a garage from interactive input, displays it, removes the
// vehicle at removeIndex and displays the result. The garage is always
// released before returning.
func runDriver(in io.Reader, out io.Writer, c *di.Container, removeIndex int) (err error) {
	cfg := c.GetConfig()
	p := newPrompter(in, out)

	n, err := p.readInt("Enter number of vehicles you would like to store: ")
	if err != nil {
		return err
	}

	g, err := garage.Build(n, p.supplier(cfg.Garage.MaxDescriptionLength), c.GarageOptions()...)
	if err != nil {
		return fmt.Errorf("failed to build garage: %w", err)
	}
	defer func() {
		if releaseErr := g.Release(); releaseErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to release garage: %w", releaseErr))
		}
	}()

	fmt.Fprintln(out)
	if err := outputGarage(out, g, cfg.Output.Format); err != nil {
		return err
	}

	g, err = removeVehicle(out, g, removeIndex)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	return outputGarage(out, g, cfg.Output.Format)
}

// removeVehicle removes the vehicle at index, reporting an invalid index
// without failing. The returned garage is the one the caller now owns.
func removeVehicle(out io.Writer, g *garage.Garage, index int) (*garage.Garage, error) {
	next, err := g.RemoveAt(index)
	switch {
	case errors.Is(err, garage.ErrInvalidIndex):
		fmt.Fprintln(out, "Invalid index. No vehicle removed.")
		return next, nil
	case err != nil:
		return next, fmt.Errorf("failed to remove vehicle: %w", err)
	}

	fmt.Fprintf(out, "Removed vehicle %d.\n", index+1)
	return next, nil
}
