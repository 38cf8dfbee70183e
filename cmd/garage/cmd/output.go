package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ssargent/garage/pkg/garage"
)

type vehicleJSON struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Value       uint32 `json:"value"`
	Year        uint32 `json:"year"`
}

// outputGarage displays every vehicle in g in the configured format
func outputGarage(w io.Writer, g *garage.Garage, format string) error {
	if format == "json" {
		return outputGarageJSON(w, g)
	}
	return outputGarageTable(w, g)
}

// outputGarageTable displays the garage in table format
func outputGarageTable(w io.Writer, g *garage.Garage) error {
	if g.Len() == 0 {
		fmt.Fprintln(w, "Garage is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VEHICLE\tDESCRIPTION\tVALUE\tMODEL YEAR")

	var errs []error
	i := 0
	for v, err := range g.Vehicles() {
		i++
		if err != nil {
			fmt.Fprintf(tw, "%d\t<unreadable>\t\t\n", i)
			errs = append(errs, fmt.Errorf("vehicle %d: %w", i, err))
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t$%d\t%d\n", i, v.Description, v.Value, v.Year)
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

// outputGarageJSON displays the garage as a JSON array
func outputGarageJSON(w io.Writer, g *garage.Garage) error {
	vehicles := make([]vehicleJSON, 0, g.Len())

	i := 0
	for v, err := range g.Vehicles() {
		i++
		if err != nil {
			return fmt.Errorf("vehicle %d: %w", i, err)
		}
		vehicles = append(vehicles, vehicleJSON{
			Index:       i,
			Description: v.Description,
			Value:       v.Value,
			Year:        v.Year,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(vehicles)
}
