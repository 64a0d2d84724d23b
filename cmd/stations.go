package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"tidbyt.dev/ttgraph/model"
)

var stationsCmd = &cobra.Command{
	Use:   "stations [lat lon] [limit]",
	Short: "Lists stations, optionally ordered by distance from a location",
	Args:  cobra.RangeArgs(0, 3),
	RunE:  stations,
}

func init() {
	rootCmd.AddCommand(stationsCmd)
}

func stations(cmd *cobra.Command, args []string) error {
	var lat, lon float64
	var limit int
	var err error

	gotLocation := false
	if len(args) == 1 {
		return fmt.Errorf("missing lon")
	}
	if len(args) >= 2 {
		gotLocation = true
		lat, err = strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid lat: %w", err)
		}
		lon, err = strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid lon: %w", err)
		}
	}
	if len(args) == 3 {
		limit, err = strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid limit: %w", err)
		}
		if limit < 0 {
			return fmt.Errorf("limit must be >= 0")
		}
	}

	g, err := LoadGraph()
	if err != nil {
		return err
	}

	var list []*model.Station
	if gotLocation {
		list = g.NearbyStations(lat, lon, limit)
	} else {
		// sort by name
		list = g.Stations()
		sort.Slice(list, func(i, j int) bool {
			return list[i].Name < list[j].Name
		})
	}

	for _, st := range list {
		fmt.Fprintf(cmd.OutOrStdout(), "%d: %s (%f, %f)\n", st.ID, st.Name, st.Lat, st.Lon)
	}

	return nil
}
